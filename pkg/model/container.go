package model

import "time"

// ContainerInfo is a point-in-time view of a registered container.
type ContainerInfo struct {
	ID      uint64       `json:"id"`
	Running CallerID     `json:"running"`
	Members []MemberInfo `json:"members"`
}

// MemberInfo describes one queue slot, in FIFO order.
type MemberInfo struct {
	Caller   CallerID    `json:"caller"`
	Position int         `json:"position"`
	State    MemberState `json:"state"`
}

// Outcome records what a verb did to its container.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"   // join created the container
	OutcomeRunning   Outcome = "running"   // join found an empty live queue; unused while emptied containers retire
	OutcomeQueued    Outcome = "queued"    // join appended and parked
	OutcomeAlone     Outcome = "alone"     // yield with a single member
	OutcomeRotated   Outcome = "rotated"   // yield moved the front to the tail
	OutcomeRemoved   Outcome = "removed"   // leave of a queued member
	OutcomePromoted  Outcome = "promoted"  // leave of the front woke the next member
	OutcomeDestroyed Outcome = "destroyed" // leave emptied the container
	OutcomeFailed    Outcome = "failed"
)

// Event is one journal record of a verb invocation.
type Event struct {
	ID          string    `json:"id"`
	Verb        Verb      `json:"verb"`
	ContainerID uint64    `json:"container_id"`
	Caller      CallerID  `json:"caller"`
	Outcome     Outcome   `json:"outcome"`
	Status      Status    `json:"status"`
	Detail      string    `json:"detail,omitempty"`
	At          time.Time `json:"at"`
}
