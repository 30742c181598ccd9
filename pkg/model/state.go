package model

import (
	"strconv"
	"strings"
)

// CallerID identifies the execution context invoking a verb.
type CallerID string

// MemberState is the scheduling state of a container member.
type MemberState string

const (
	MemberStateRunning MemberState = "RUNNING"
	MemberStateQueued  MemberState = "QUEUED"
	MemberStateLeft    MemberState = "LEFT"
)

// String returns the string representation of the member state.
func (s MemberState) String() string {
	return string(s)
}

// IsTerminal returns true once the member has left its container.
func (s MemberState) IsTerminal() bool {
	return s == MemberStateLeft
}

// ValidMemberTransitions defines the allowed state transitions for members.
var ValidMemberTransitions = map[MemberState][]MemberState{
	MemberStateRunning: {MemberStateQueued, MemberStateLeft},
	MemberStateQueued:  {MemberStateRunning, MemberStateLeft},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s MemberState) CanTransitionTo(next MemberState) bool {
	for _, allowed := range ValidMemberTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Verb is one of the three scheduling commands.
type Verb string

const (
	VerbJoin  Verb = "JOIN"
	VerbYield Verb = "YIELD"
	VerbLeave Verb = "LEAVE"
)

// ParseVerb normalises a verb name. Unknown names return ok=false.
func ParseVerb(s string) (Verb, bool) {
	switch v := Verb(strings.ToUpper(strings.TrimSpace(s))); v {
	case VerbJoin, VerbYield, VerbLeave:
		return v, true
	}
	return "", false
}

// ParseContainerID parses a decimal container identifier.
func ParseContainerID(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
}
