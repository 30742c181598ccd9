package command

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/me/pcontainer/internal/scheduler"
	"github.com/me/pcontainer/internal/tracing"
	"github.com/me/pcontainer/pkg/model"
)

// Dispatcher is the single entry point for verbs.
type Dispatcher struct {
	sched    Scheduler
	validate *validator.Validate
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher over sched.
func NewDispatcher(sched Scheduler, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sched:    sched,
		validate: validator.New(),
		logger:   logger.With("component", "dispatcher"),
	}
}

// Dispatch runs cmd and returns its result. JOIN and YIELD may block until
// the caller is resumed. Failures are reported only through the status code.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd *Command) (res model.VerbResult) {
	if cmd == nil {
		return result(model.VerbResult{}, model.StatusInvalid)
	}
	res = model.VerbResult{Verb: cmd.Verb, ContainerID: cmd.ContainerID, Caller: cmd.Caller}

	switch cmd.Verb {
	case model.VerbJoin, model.VerbYield, model.VerbLeave:
	default:
		d.logger.Warn("unknown verb", "verb", cmd.Verb, "caller", cmd.Caller)
		return result(res, model.StatusUnknownVerb)
	}
	if err := d.validate.Struct(cmd); err != nil {
		d.logger.Warn("invalid command", "verb", cmd.Verb, "error", err)
		return result(res, model.StatusInvalid)
	}

	ctx, span := tracing.StartSpan(ctx, "verb."+string(cmd.Verb), map[string]string{
		"caller":       string(cmd.Caller),
		"container_id": strconv.FormatUint(cmd.ContainerID, 10),
	})
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			d.logger.Error("verb panicked", "verb", cmd.Verb, "caller", cmd.Caller, "panic", r)
			res = result(res, model.StatusInvalid)
		}
		tracing.EndSpan(span, err)
	}()

	var state model.MemberState
	switch cmd.Verb {
	case model.VerbJoin:
		state, err = d.sched.Join(ctx, cmd.Caller, cmd.ContainerID)
	case model.VerbYield:
		state, err = d.sched.Yield(ctx, cmd.Caller)
	case model.VerbLeave:
		state, err = d.sched.Leave(ctx, cmd.Caller)
	}

	res.State = state
	res = result(res, scheduler.StatusOf(err))
	if err != nil {
		d.logger.Debug("verb failed", "verb", cmd.Verb, "caller", cmd.Caller, "code", res.CodeName, "error", err)
	}
	return res
}

func result(res model.VerbResult, code model.Status) model.VerbResult {
	res.Code = code
	res.CodeName = code.String()
	return res
}
