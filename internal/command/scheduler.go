//go:generate go run go.uber.org/mock/mockgen -source=scheduler.go -destination=../mocks/mock_scheduler.go -package=mocks
package command

import (
	"context"

	"github.com/me/pcontainer/pkg/model"
)

// Scheduler runs the three verbs. *scheduler.Scheduler satisfies it.
type Scheduler interface {
	Join(ctx context.Context, caller model.CallerID, id uint64) (model.MemberState, error)
	Yield(ctx context.Context, caller model.CallerID) (model.MemberState, error)
	Leave(ctx context.Context, caller model.CallerID) (model.MemberState, error)
}
