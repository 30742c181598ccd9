package scheduler

import (
	"fmt"
	"slices"
	"sync"

	"github.com/me/pcontainer/pkg/model"
)

// Registry is the directory of live containers, keyed by id, plus the
// caller → entry membership index. One mutex guards both maps. The Registry
// never reads or mutates a container's queue; a container lock is only ever
// taken after the Registry lock has been released.
//
// The verb paths register and unregister containers through lookupOrCreate
// and detach; insert and remove are the bare directory operations.
type Registry struct {
	mu            sync.Mutex
	containers    map[uint64]*Container
	members       map[model.CallerID]binding
	maxContainers int
}

// binding ties a caller's entry to the container it was bound to. The entry
// may not be queued yet: Join binds first and appends afterwards.
type binding struct {
	e *entry
	c *Container
}

// NewRegistry creates an empty Registry. maxContainers <= 0 disables the limit.
func NewRegistry(maxContainers int) *Registry {
	return &Registry{
		containers:    make(map[uint64]*Container),
		members:       make(map[model.CallerID]binding),
		maxContainers: maxContainers,
	}
}

// Lookup returns the container registered under id.
func (r *Registry) Lookup(id uint64) (*Container, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.containers[id]
	return c, ok
}

// insert registers c. The id must not already be present.
func (r *Registry) insert(c *Container) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(c)
}

// remove deletes id from the directory without inspecting its queue.
func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.containers, id)
}

// Len returns the number of registered containers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}

// IDs returns the registered container ids in ascending order.
func (r *Registry) IDs() []uint64 {
	r.mu.Lock()
	ids := make([]uint64, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	slices.Sort(ids)
	return ids
}

func (r *Registry) insertLocked(c *Container) error {
	if _, exists := r.containers[c.id]; exists {
		return fmt.Errorf("container %d already registered", c.id)
	}
	if r.maxContainers > 0 && len(r.containers) >= r.maxContainers {
		return fmt.Errorf("%d containers registered: %w", len(r.containers), ErrCapacity)
	}
	r.containers[c.id] = c
	return nil
}

// lookupOrCreate finds container id or, when absent, registers a new one
// holding e as its sole member. Either way e is bound to the returned
// container. created reports whether the container was new.
func (r *Registry) lookupOrCreate(id uint64, e *entry) (c *Container, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.handle.Released() {
		return nil, false, ErrLeft
	}
	if b, ok := r.members[e.caller]; ok {
		return nil, false, fmt.Errorf("caller %s in container %d: %w", e.caller, b.c.id, ErrAlreadyMember)
	}
	if c, ok := r.containers[id]; ok {
		r.members[e.caller] = binding{e: e, c: c}
		return c, false, nil
	}
	c = newContainer(id, e)
	if err := r.insertLocked(c); err != nil {
		return nil, false, err
	}
	r.members[e.caller] = binding{e: e, c: c}
	return c, true, nil
}

// membership returns the caller's entry and the container it is bound to.
func (r *Registry) membership(caller model.CallerID) (*entry, *Container, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.members[caller]
	return b.e, b.c, ok
}

// detach unbinds e from c and, when drop is set, unregisters c if it is still
// the container registered under its id. When e has meanwhile been bound to
// another container, that container is returned and the binding is kept.
func (r *Registry) detach(e *entry, c *Container, drop bool) (moved *Container) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.members[e.caller]; ok && b.e == e {
		if b.c == c {
			delete(r.members, e.caller)
		} else {
			moved = b.c
		}
	}
	if drop && r.containers[c.id] == c {
		delete(r.containers, c.id)
	}
	return moved
}

// snapshotTargets copies the registered containers so they can be inspected
// after the Registry lock is released.
func (r *Registry) snapshotTargets() []*Container {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Container, 0, len(r.containers))
	for _, c := range r.containers {
		out = append(out, c)
	}
	return out
}
