package store

import (
	"context"

	"github.com/me/pcontainer/pkg/model"
)

// Journal is the write-mostly history of scheduling verbs. It is a
// diagnostic record only: nothing reads it back to rebuild scheduler state.
type Journal interface {
	// Record appends ev. An empty ev.ID is filled with a generated id.
	Record(ctx context.Context, ev model.Event) error
	// List returns events newest first together with the total match count.
	List(ctx context.Context, opts model.ListOptions) ([]*model.Event, int, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
