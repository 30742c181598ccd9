package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/me/pcontainer/internal/mocks"
	"github.com/me/pcontainer/internal/scheduler"
	"github.com/me/pcontainer/pkg/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatch_RoutesVerbs(t *testing.T) {
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockScheduler(ctrl)
	d := NewDispatcher(sched, testLogger())
	ctx := context.Background()

	sched.EXPECT().Join(gomock.Any(), model.CallerID("a"), uint64(3)).Return(model.MemberStateQueued, nil)
	sched.EXPECT().Yield(gomock.Any(), model.CallerID("a")).Return(model.MemberStateRunning, nil)
	sched.EXPECT().Leave(gomock.Any(), model.CallerID("a")).Return(model.MemberStateLeft, nil)

	res := d.Dispatch(ctx, &Command{Verb: model.VerbJoin, ContainerID: 3, Caller: "a"})
	require.Equal(t, model.VerbResult{
		Verb: model.VerbJoin, ContainerID: 3, Caller: "a",
		Code: model.StatusOK, CodeName: "OK", State: model.MemberStateQueued,
	}, res)

	res = d.Dispatch(ctx, &Command{Verb: model.VerbYield, Caller: "a"})
	require.Equal(t, model.StatusOK, res.Code)
	require.Equal(t, model.MemberStateRunning, res.State)

	res = d.Dispatch(ctx, &Command{Verb: model.VerbLeave, Caller: "a"})
	require.Equal(t, model.StatusOK, res.Code)
	require.Equal(t, model.MemberStateLeft, res.State)
}

func TestDispatch_ErrorsBecomeStatus(t *testing.T) {
	tests := []struct {
		err  error
		want model.Status
	}{
		{scheduler.ErrNotMember, model.StatusNotMember},
		{scheduler.ErrNotRunning, model.StatusNotMember},
		{scheduler.ErrContainerNotFound, model.StatusNotFound},
		{fmt.Errorf("caller a in container 1: %w", scheduler.ErrAlreadyMember), model.StatusAlreadyMember},
		{fmt.Errorf("3 containers registered: %w", scheduler.ErrCapacity), model.StatusNoCapacity},
		{scheduler.ErrInvalidRequest, model.StatusInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sched := mocks.NewMockScheduler(ctrl)
			sched.EXPECT().Yield(gomock.Any(), gomock.Any()).Return(model.MemberState(""), tt.err)

			res := NewDispatcher(sched, testLogger()).Dispatch(context.Background(), &Command{Verb: model.VerbYield, Caller: "a"})
			require.Equal(t, tt.want, res.Code)
			require.Equal(t, tt.want.String(), res.CodeName)
		})
	}
}

func TestDispatch_RejectsBeforeScheduling(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
		want model.Status
	}{
		{"nil command", nil, model.StatusInvalid},
		{"unknown verb", &Command{Verb: "SPAWN", Caller: "a"}, model.StatusUnknownVerb},
		{"empty verb", &Command{Caller: "a"}, model.StatusUnknownVerb},
		{"no caller", &Command{Verb: model.VerbJoin, ContainerID: 1}, model.StatusInvalid},
		{"caller too long", &Command{Verb: model.VerbLeave, Caller: model.CallerID(strings.Repeat("x", 257))}, model.StatusInvalid},
		{"caller with control bytes", &Command{Verb: model.VerbLeave, Caller: "a\nb"}, model.StatusInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: any scheduler call fails the test.
			ctrl := gomock.NewController(t)
			sched := mocks.NewMockScheduler(ctrl)

			res := NewDispatcher(sched, testLogger()).Dispatch(context.Background(), tt.cmd)
			require.Equal(t, tt.want, res.Code)
		})
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockScheduler(ctrl)
	sched.EXPECT().Leave(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, model.CallerID) (model.MemberState, error) {
			panic("boom")
		})

	res := NewDispatcher(sched, testLogger()).Dispatch(context.Background(), &Command{Verb: model.VerbLeave, Caller: "a"})
	require.Equal(t, model.StatusInvalid, res.Code)
}

func TestDispatch_RealScheduler(t *testing.T) {
	req := require.New(t)
	d := NewDispatcher(scheduler.New(scheduler.DefaultConfig(), testLogger()), testLogger())
	ctx := context.Background()

	res := d.Dispatch(ctx, &Command{Verb: model.VerbJoin, ContainerID: 1, Caller: "a"})
	req.Equal(model.StatusOK, res.Code)
	req.Equal(model.MemberStateRunning, res.State)

	res = d.Dispatch(ctx, &Command{Verb: model.VerbJoin, ContainerID: 2, Caller: "a"})
	req.Equal(model.StatusAlreadyMember, res.Code)

	res = d.Dispatch(ctx, &Command{Verb: model.VerbYield, Caller: "b"})
	req.Equal(model.StatusNotMember, res.Code)

	res = d.Dispatch(ctx, &Command{Verb: model.VerbLeave, Caller: "a"})
	req.Equal(model.StatusOK, res.Code)
	req.Equal(model.MemberStateLeft, res.State)
}
