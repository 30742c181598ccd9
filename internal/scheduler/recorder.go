//go:generate go run go.uber.org/mock/mockgen -source=recorder.go -destination=../mocks/mock_recorder.go -package=mocks
package scheduler

import (
	"context"

	"github.com/me/pcontainer/pkg/model"
)

// Recorder receives one event per verb invocation. Implementations must not
// call back into the Scheduler.
type Recorder interface {
	Record(ctx context.Context, ev model.Event) error
}
