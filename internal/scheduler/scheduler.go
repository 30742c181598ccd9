// Package scheduler implements container-scoped cooperative round-robin
// scheduling. Callers join containers by id; within a container exactly one
// member runs while the others are parked in FIFO order, and running status
// moves only when the running member yields or leaves.
//
// Lock discipline: the Registry lock and a Container lock are never held at
// the same time. After taking a Container lock the container is re-validated
// (a retired container refuses every operation), which closes the window in
// which a container found in the Registry is emptied before it is locked.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/me/pcontainer/internal/park"
	"github.com/me/pcontainer/pkg/model"
)

// Config holds scheduler limits. Zero means unlimited.
type Config struct {
	MaxContainers int
	MaxMembers    int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxContainers: 0, MaxMembers: 0}
}

// Scheduler runs the Join, Yield and Leave verbs.
type Scheduler struct {
	registry *Registry
	config   Config
	recorder Recorder
	logger   *slog.Logger
}

// Option configures optional Scheduler dependencies.
type Option func(*Scheduler)

// WithRecorder sets the journal that receives verb events.
func WithRecorder(rec Recorder) Option {
	return func(s *Scheduler) {
		s.recorder = rec
	}
}

// New creates a Scheduler with an empty Registry.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: NewRegistry(cfg.MaxContainers),
		config:   cfg,
		logger:   logger.With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the container directory.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Join adds caller to container id, creating the container when absent. A
// creator runs immediately. Otherwise the caller is queued behind the
// running member and Join blocks until a Yield or Leave resumes it.
func (s *Scheduler) Join(ctx context.Context, caller model.CallerID, id uint64) (model.MemberState, error) {
	if caller == "" {
		s.fail(ctx, model.VerbJoin, id, caller, ErrInvalidRequest)
		return "", ErrInvalidRequest
	}
	self := &entry{caller: caller, handle: park.NewHandle()}

	for {
		c, created, err := s.registry.lookupOrCreate(id, self)
		if errors.Is(err, ErrLeft) {
			return s.abandonJoin(ctx, id, caller)
		}
		if err != nil {
			s.fail(ctx, model.VerbJoin, id, caller, err)
			return "", err
		}
		if created {
			s.logger.Debug("container created", "container", id, "caller", caller)
			s.record(ctx, model.VerbJoin, id, caller, model.OutcomeCreated, "")
			return model.MemberStateRunning, nil
		}

		res, err := c.join(self, s.config.MaxMembers)
		if errors.Is(err, errRetired) {
			// Emptied between lookup and lock; drop the stale container and retry.
			s.registry.detach(self, c, true)
			s.logger.Debug("join raced with container removal, retrying", "container", id, "caller", caller)
			continue
		}
		if errors.Is(err, ErrLeft) {
			s.registry.detach(self, c, false)
			return s.abandonJoin(ctx, id, caller)
		}
		if err != nil {
			s.registry.detach(self, c, false)
			s.fail(ctx, model.VerbJoin, id, caller, err)
			return "", err
		}
		if res == becameRunning {
			// A registered container is never empty while it is not retired,
			// so this only covers a queue emptied without retiring.
			s.record(ctx, model.VerbJoin, id, caller, model.OutcomeRunning, "")
			return model.MemberStateRunning, nil
		}

		s.logger.Debug("caller queued, suspending", "container", id, "caller", caller)
		s.record(ctx, model.VerbJoin, id, caller, model.OutcomeQueued, "")
		return s.suspend(self)
	}
}

// abandonJoin ends a Join whose caller left before its entry was queued.
func (s *Scheduler) abandonJoin(ctx context.Context, id uint64, caller model.CallerID) (model.MemberState, error) {
	s.logger.Debug("caller left before it was queued", "container", id, "caller", caller)
	s.fail(ctx, model.VerbJoin, id, caller, ErrLeft)
	return model.MemberStateLeft, ErrLeft
}

// Yield hands the running slot of the caller's container to the next queued
// member and suspends the caller until it is resumed. A caller alone in its
// container keeps running.
func (s *Scheduler) Yield(ctx context.Context, caller model.CallerID) (model.MemberState, error) {
	if caller == "" {
		s.fail(ctx, model.VerbYield, 0, caller, ErrInvalidRequest)
		return "", ErrInvalidRequest
	}
	_, c, ok := s.registry.membership(caller)
	if !ok {
		s.fail(ctx, model.VerbYield, 0, caller, ErrNotMember)
		return "", ErrNotMember
	}

	self, next, err := c.rotate(caller)
	if err != nil {
		s.fail(ctx, model.VerbYield, c.id, caller, err)
		return "", err
	}
	if next == nil {
		s.record(ctx, model.VerbYield, c.id, caller, model.OutcomeAlone, "")
		return model.MemberStateRunning, nil
	}

	s.logger.Debug("yield", "container", c.id, "from", caller, "to", next.caller)
	s.transition(caller, model.MemberStateRunning, model.MemberStateQueued)
	s.resume(c.id, next)
	s.record(ctx, model.VerbYield, c.id, caller, model.OutcomeRotated, string(next.caller))
	return s.suspend(self)
}

// Leave removes the caller from its container. Leaving the front resumes the
// next member; leaving as the last member unregisters the container. Leave
// never blocks.
func (s *Scheduler) Leave(ctx context.Context, caller model.CallerID) (model.MemberState, error) {
	if caller == "" {
		s.fail(ctx, model.VerbLeave, 0, caller, ErrInvalidRequest)
		return "", ErrInvalidRequest
	}
	self, c, ok := s.registry.membership(caller)
	if !ok {
		s.fail(ctx, model.VerbLeave, 0, caller, ErrNotMember)
		return "", ErrNotMember
	}

	res, next := c.leave(self)
	for res == leaveUnqueued {
		// The caller's Join bound it but has not appended it. The released
		// handle stops that Join from appending, unless it already moved on
		// to a replacement container.
		moved := s.registry.detach(self, c, false)
		if moved == nil {
			break
		}
		c = moved
		res, next = c.leave(self)
	}

	from := model.MemberStateRunning
	if res == leaveRemoved || res == leaveUnqueued {
		from = model.MemberStateQueued
	}
	s.transition(caller, from, model.MemberStateLeft)

	switch res {
	case leaveUnqueued:
		s.record(ctx, model.VerbLeave, c.id, caller, model.OutcomeRemoved, "not yet queued")
	case leaveRemoved:
		s.registry.detach(self, c, false)
		s.record(ctx, model.VerbLeave, c.id, caller, model.OutcomeRemoved, "")
	case leaveNewFront:
		s.registry.detach(self, c, false)
		s.logger.Debug("front left, promoting", "container", c.id, "caller", caller, "next", next.caller)
		s.resume(c.id, next)
		s.record(ctx, model.VerbLeave, c.id, caller, model.OutcomePromoted, string(next.caller))
	case leaveEmptied:
		s.registry.detach(self, c, true)
		s.logger.Debug("container destroyed", "container", c.id, "caller", caller)
		s.record(ctx, model.VerbLeave, c.id, caller, model.OutcomeDestroyed, "")
	}
	// Wakes the caller's own pending Join or Yield, if any.
	self.handle.Release()
	return model.MemberStateLeft, nil
}

// Container returns a snapshot of container id.
func (s *Scheduler) Container(id uint64) (model.ContainerInfo, error) {
	c, ok := s.registry.Lookup(id)
	if !ok {
		return model.ContainerInfo{}, ErrContainerNotFound
	}
	info, ok := c.snapshot()
	if !ok {
		return model.ContainerInfo{}, ErrContainerNotFound
	}
	return info, nil
}

// Containers returns snapshots of every registered container ordered by id.
func (s *Scheduler) Containers() []model.ContainerInfo {
	targets := s.registry.snapshotTargets()
	out := make([]model.ContainerInfo, 0, len(targets))
	for _, c := range targets {
		if info, ok := c.snapshot(); ok {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// resume wakes the new front. A second pending permit means the front was
// woken twice, which breaks the one-wake-per-park contract.
func (s *Scheduler) resume(id uint64, next *entry) {
	if !next.handle.Unpark() {
		s.logger.Error("resume found a pending wake", "container", id, "caller", next.caller)
	}
}

// suspend parks the caller. It must be the last action of a queued path.
func (s *Scheduler) suspend(self *entry) (model.MemberState, error) {
	self.handle.Park()
	if self.handle.Released() {
		return model.MemberStateLeft, ErrLeft
	}
	s.transition(self.caller, model.MemberStateQueued, model.MemberStateRunning)
	return model.MemberStateRunning, nil
}

// transition checks a member state change against the transition table.
// An invalid change is a scheduler bug; it is logged, never returned.
func (s *Scheduler) transition(caller model.CallerID, from, to model.MemberState) {
	if !from.CanTransitionTo(to) {
		err := &model.InvalidTransitionError{Caller: caller, From: from, To: to}
		s.logger.Error("member state", "error", err)
	}
}

func (s *Scheduler) fail(ctx context.Context, verb model.Verb, id uint64, caller model.CallerID, err error) {
	s.logger.Warn("verb failed", "verb", verb, "container", id, "caller", caller, "error", err)
	s.recordEvent(ctx, model.Event{
		Verb:        verb,
		ContainerID: id,
		Caller:      caller,
		Outcome:     model.OutcomeFailed,
		Status:      StatusOf(err),
		Detail:      err.Error(),
	})
}

func (s *Scheduler) record(ctx context.Context, verb model.Verb, id uint64, caller model.CallerID, outcome model.Outcome, detail string) {
	s.recordEvent(ctx, model.Event{
		Verb:        verb,
		ContainerID: id,
		Caller:      caller,
		Outcome:     outcome,
		Status:      model.StatusOK,
		Detail:      detail,
	})
}

func (s *Scheduler) recordEvent(ctx context.Context, ev model.Event) {
	if s.recorder == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.logger.Warn("journal record failed", "verb", ev.Verb, "error", err)
	}
}
