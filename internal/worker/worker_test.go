package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/me/pcontainer/internal/config"
	"github.com/me/pcontainer/internal/scheduler"
	"github.com/me/pcontainer/internal/server"
	"github.com/me/pcontainer/pkg/model"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMember records verbs and answers from canned errors.
type fakeMember struct {
	mu       sync.Mutex
	caller   model.CallerID
	verbs    []model.Verb
	joinRes  model.VerbResult
	joinErr  error
	yieldErr error
	leaveRes model.VerbResult
	leaveErr error
}

func (f *fakeMember) Caller() model.CallerID { return f.caller }

func (f *fakeMember) add(v model.Verb) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verbs = append(f.verbs, v)
}

func (f *fakeMember) Join(_ context.Context, id uint64) (model.VerbResult, error) {
	f.add(model.VerbJoin)
	res := f.joinRes
	res.Verb, res.ContainerID = model.VerbJoin, id
	return res, f.joinErr
}

func (f *fakeMember) Yield(context.Context) (model.VerbResult, error) {
	f.add(model.VerbYield)
	return model.VerbResult{Verb: model.VerbYield}, f.yieldErr
}

func (f *fakeMember) Leave(context.Context) (model.VerbResult, error) {
	f.add(model.VerbLeave)
	return f.leaveRes, f.leaveErr
}

// sliceRecorder is a Runtime that records the slice env of every call.
type sliceRecorder struct {
	mu     sync.Mutex
	slices []string
	result RunResult
	err    error
}

func (r *sliceRecorder) Run(_ context.Context, spec RunSpec) (RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slices = append(r.slices, spec.Env["PC_CALLER"]+"#"+spec.Env["PC_SLICE"])
	return r.result, r.err
}

func TestWorker_SliceLoop(t *testing.T) {
	req := require.New(t)
	m := &fakeMember{caller: "w1"}
	rt := &sliceRecorder{}

	w, err := newWorker(Config{ContainerID: 4, Slices: 3}, m, rt, testLogger())
	req.NoError(err)
	req.NoError(w.Run(context.Background()))

	req.Equal([]model.Verb{model.VerbJoin, model.VerbYield, model.VerbYield, model.VerbLeave}, m.verbs)
	req.Equal([]string{"w1#0", "w1#1", "w1#2"}, rt.slices)
}

func TestWorker_Failures(t *testing.T) {
	t.Run("no slices", func(t *testing.T) {
		_, err := newWorker(Config{Slices: 0}, &fakeMember{}, &sliceRecorder{}, testLogger())
		require.ErrorIs(t, err, ErrNoSlices)
	})

	t.Run("join fails", func(t *testing.T) {
		req := require.New(t)
		m := &fakeMember{
			caller:   "w",
			joinErr:  context.Canceled,
			leaveRes: model.VerbResult{Code: model.StatusNotMember},
			leaveErr: errors.New("NOT_MEMBER"),
		}
		w, err := newWorker(Config{Slices: 1}, m, &sliceRecorder{}, testLogger())
		req.NoError(err)

		err = w.Run(context.Background())
		req.ErrorContains(err, "join")
		req.Equal([]model.Verb{model.VerbJoin, model.VerbLeave}, m.verbs)
	})

	t.Run("already a member keeps the earlier membership", func(t *testing.T) {
		req := require.New(t)
		m := &fakeMember{
			caller:  "w",
			joinRes: model.VerbResult{Code: model.StatusAlreadyMember},
			joinErr: errors.New("JOIN: ALREADY_MEMBER (-17)"),
		}
		w, err := newWorker(Config{Slices: 1}, m, &sliceRecorder{}, testLogger())
		req.NoError(err)

		err = w.Run(context.Background())
		req.ErrorContains(err, "join")
		req.Equal([]model.Verb{model.VerbJoin}, m.verbs)
	})

	t.Run("runtime error still leaves", func(t *testing.T) {
		req := require.New(t)
		m := &fakeMember{caller: "w"}
		rt := &sliceRecorder{err: errors.New("exec: not found")}
		w, err := newWorker(Config{Slices: 2, Command: []string{"missing"}}, m, rt, testLogger())
		req.NoError(err)

		err = w.Run(context.Background())
		req.ErrorContains(err, "slice 0")
		req.Equal([]model.Verb{model.VerbJoin, model.VerbLeave}, m.verbs)
	})

	t.Run("non-zero exit continues", func(t *testing.T) {
		req := require.New(t)
		m := &fakeMember{caller: "w"}
		rt := &sliceRecorder{result: RunResult{ExitCode: 2}}
		w, err := newWorker(Config{Slices: 2}, m, rt, testLogger())
		req.NoError(err)

		req.NoError(w.Run(context.Background()))
		req.Len(rt.slices, 2)
	})

	t.Run("leave failure surfaces", func(t *testing.T) {
		req := require.New(t)
		m := &fakeMember{caller: "w", leaveErr: errors.New("connection refused")}
		w, err := newWorker(Config{Slices: 1}, m, &sliceRecorder{}, testLogger())
		req.NoError(err)

		req.ErrorContains(w.Run(context.Background()), "leave")
	})

	t.Run("cancelled context leaves", func(t *testing.T) {
		req := require.New(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := &fakeMember{caller: "w"}
		w, err := newWorker(Config{Slices: 3}, m, &sliceRecorder{}, testLogger())
		req.NoError(err)

		req.ErrorIs(w.Run(ctx), context.Canceled)
		req.Equal([]model.Verb{model.VerbJoin, model.VerbLeave}, m.verbs)
	})
}

func TestWorkers_InterleaveOverHTTP(t *testing.T) {
	req := require.New(t)
	logger := testLogger()
	sched := scheduler.New(scheduler.DefaultConfig(), logger)
	ts := httptest.NewServer(server.New(config.DefaultServerConfig(), sched, logger).Handler())
	defer ts.Close()

	// Given two members of container 9 sharing one recorder
	rt := &sliceRecorder{}
	first, err := newWorker(Config{ContainerID: 9, Slices: 3}, NewClient(ts.URL, "a"), rt, logger)
	req.NoError(err)
	second, err := newWorker(Config{ContainerID: 9, Slices: 3}, NewClient(ts.URL, "b"), rt, logger)
	req.NoError(err)

	// When both run concurrently
	errs := make(chan error, 2)
	go func() { errs <- first.Run(context.Background()) }()
	go func() { errs <- second.Run(context.Background()) }()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			req.NoError(err)
		case <-time.After(5 * time.Second):
			t.Fatal("workers did not finish")
		}
	}

	// Then every slice ran and the container is gone
	req.Len(rt.slices, 6)
	req.Zero(sched.Registry().Len())
}

func TestClient_VerbFailure(t *testing.T) {
	logger := testLogger()
	sched := scheduler.New(scheduler.DefaultConfig(), logger)
	ts := httptest.NewServer(server.New(config.DefaultServerConfig(), sched, logger).Handler())
	defer ts.Close()

	c := NewClient(ts.URL, "nobody")
	res, err := c.Yield(context.Background())
	require.Error(t, err)
	require.Equal(t, model.StatusNotMember, res.Code)
}
