package scheduler

import (
	"fmt"
	"sync"

	"github.com/gammazero/deque"
	"github.com/me/pcontainer/internal/park"
	"github.com/me/pcontainer/pkg/model"
	"github.com/samber/lo"
)

// entry is a caller's queue slot. Entries are owned by exactly one Container.
type entry struct {
	caller model.CallerID
	handle *park.Handle
}

type joinResult int

const (
	becameRunning joinResult = iota
	mustSuspend
)

type leaveResult int

const (
	leaveRemoved leaveResult = iota
	leaveNewFront
	leaveEmptied
	// leaveUnqueued: the entry was bound but its Join had not appended it yet.
	leaveUnqueued
)

// Container holds the FIFO member queue of one container id. The front entry
// is the running member; every other entry is queued.
//
// All methods take the container lock for their whole duration and never
// touch the Registry.
type Container struct {
	id      uint64
	mu      sync.Mutex
	members deque.Deque[*entry]
	// retired is set once the queue empties; a retired container is
	// unregistered (or about to be) and never accepts members again.
	retired bool
}

func newContainer(id uint64, first *entry) *Container {
	c := &Container{id: id}
	c.members.PushBack(first)
	return c
}

// ID returns the container identifier.
func (c *Container) ID() uint64 {
	return c.id
}

// join appends e at the tail. maxMembers <= 0 disables the limit. An entry
// whose handle was released by a Leave is never appended.
func (c *Container) join(e *entry, maxMembers int) (joinResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.handle.Released() {
		return 0, ErrLeft
	}
	if c.retired {
		return 0, errRetired
	}
	if maxMembers > 0 && c.members.Len() >= maxMembers {
		return 0, fmt.Errorf("container %d holds %d members: %w", c.id, c.members.Len(), ErrCapacity)
	}
	wasEmpty := c.members.Len() == 0
	c.members.PushBack(e)
	if wasEmpty {
		return becameRunning, nil
	}
	return mustSuspend, nil
}

// rotate moves the front entry to the tail. The caller must be the front.
// It returns the caller's own entry and the new front, or a nil front when
// the caller is alone.
func (c *Container) rotate(caller model.CallerID) (self, next *entry, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.retired || c.members.Len() == 0 {
		return nil, nil, fmt.Errorf("container %d: %w", c.id, ErrContainerNotFound)
	}
	front := c.members.Front()
	if front.caller != caller {
		return nil, nil, fmt.Errorf("container %d runs %s: %w", c.id, front.caller, ErrNotRunning)
	}
	if c.members.Len() == 1 {
		return front, nil, nil
	}
	c.members.PushBack(c.members.PopFront())
	return front, c.members.Front(), nil
}

// leave unlinks e from anywhere in the queue. When the front leaves, the next
// entry is returned so it can be resumed. When the last entry leaves, the
// container retires. An entry that is not queued has its handle released
// under the container lock, so a Join still on its way to join cannot
// append it afterwards.
func (c *Container) leave(e *entry) (res leaveResult, next *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.members.Index(func(x *entry) bool { return x == e })
	if idx < 0 {
		e.handle.Release()
		return leaveUnqueued, nil
	}
	c.members.Remove(idx)
	switch {
	case idx > 0:
		return leaveRemoved, nil
	case c.members.Len() > 0:
		return leaveNewFront, c.members.Front()
	default:
		c.retired = true
		return leaveEmptied, nil
	}
}

// snapshot returns the queue in FIFO order. ok is false for a retired container.
func (c *Container) snapshot() (model.ContainerInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.retired || c.members.Len() == 0 {
		return model.ContainerInfo{}, false
	}
	entries := make([]*entry, c.members.Len())
	for i := range entries {
		entries[i] = c.members.At(i)
	}
	return model.ContainerInfo{
		ID:      c.id,
		Running: entries[0].caller,
		Members: lo.Map(entries, func(e *entry, i int) model.MemberInfo {
			state := model.MemberStateQueued
			if i == 0 {
				state = model.MemberStateRunning
			}
			return model.MemberInfo{Caller: e.caller, Position: i, State: state}
		}),
	}, true
}
