package scheduler

import (
	"errors"

	"github.com/me/pcontainer/pkg/model"
)

var (
	// ErrInvalidRequest is returned for a malformed request (no caller identity).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrContainerNotFound is returned when the caller's container is gone or empty.
	ErrContainerNotFound = errors.New("container not found")
	// ErrNotMember is returned when the caller belongs to no container.
	ErrNotMember = errors.New("caller is not a member of any container")
	// ErrNotRunning is returned by Yield when the caller is not the front member.
	ErrNotRunning = errors.New("caller is not the running member")
	// ErrAlreadyMember is returned by Join when the caller already has a membership.
	ErrAlreadyMember = errors.New("caller is already a member of a container")
	// ErrCapacity is returned when a container or member slot cannot be allocated.
	ErrCapacity = errors.New("scheduler capacity exhausted")
	// ErrLeft is returned from a Join or Yield whose caller left its container
	// while parked, or before the Join had queued it.
	ErrLeft = errors.New("caller left its container while suspended")

	errRetired = errors.New("container retired")
)

// StatusOf maps a verb error to its status code. A nil error is StatusOK.
func StatusOf(err error) model.Status {
	switch {
	case err == nil:
		return model.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return model.StatusInvalid
	case errors.Is(err, ErrContainerNotFound):
		return model.StatusNotFound
	case errors.Is(err, ErrNotMember), errors.Is(err, ErrNotRunning), errors.Is(err, ErrLeft):
		return model.StatusNotMember
	case errors.Is(err, ErrAlreadyMember):
		return model.StatusAlreadyMember
	case errors.Is(err, ErrCapacity):
		return model.StatusNoCapacity
	}
	return model.StatusInvalid
}
