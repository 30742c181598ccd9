package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/me/pcontainer/pkg/model"
)

// ErrNoSlices is returned by New when no work is configured.
var ErrNoSlices = errors.New("no slices configured")

// Member is the verb surface a worker drives. *Client satisfies it.
type Member interface {
	Caller() model.CallerID
	Join(ctx context.Context, id uint64) (model.VerbResult, error)
	Yield(ctx context.Context) (model.VerbResult, error)
	Leave(ctx context.Context) (model.VerbResult, error)
}

// Config holds worker configuration.
type Config struct {
	ServerURL   string
	Caller      string
	ContainerID uint64
	Slices      int
	Command     []string
	Runtime     string
	Image       string
	WorkDir     string
}

// Worker is a container member: it joins, runs one slice each time it holds
// the running slot, yields between slices and leaves when done.
type Worker struct {
	member  Member
	runtime Runtime
	cfg     Config
	logger  *slog.Logger
}

// New creates a Worker from configuration.
func New(cfg Config, logger *slog.Logger) (*Worker, error) {
	rt, err := NewRuntime(cfg.Runtime)
	if err != nil {
		return nil, err
	}
	if cfg.Caller == "" {
		cfg.Caller = "pcw_" + uuid.New().String()[:8]
	}
	return newWorker(cfg, NewClient(cfg.ServerURL, model.CallerID(cfg.Caller)), rt, logger)
}

func newWorker(cfg Config, member Member, rt Runtime, logger *slog.Logger) (*Worker, error) {
	if cfg.Slices <= 0 {
		return nil, fmt.Errorf("%w: slices=%d", ErrNoSlices, cfg.Slices)
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	return &Worker{
		member:  member,
		runtime: rt,
		cfg:     cfg,
		logger:  logger.With("component", "worker", "caller", member.Caller(), "container", cfg.ContainerID),
	}, nil
}

// Run joins the container and works through all slices. The worker always
// leaves before returning, including when ctx is cancelled mid-wait.
func (w *Worker) Run(ctx context.Context) (err error) {
	if res, err := w.member.Join(ctx, w.cfg.ContainerID); err != nil {
		// ALREADY_MEMBER means the membership belongs to an earlier run;
		// any other failure may have left this join bound or queued.
		if res.Code != model.StatusAlreadyMember {
			_ = w.leave()
		}
		return fmt.Errorf("join: %w", err)
	}
	w.logger.Info("joined, running")
	defer func() {
		if lerr := w.leave(); lerr != nil && err == nil {
			err = lerr
		}
	}()

	for slice := 0; slice < w.cfg.Slices; slice++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.runSlice(ctx, slice); err != nil {
			return err
		}
		if slice == w.cfg.Slices-1 {
			break
		}
		if _, err := w.member.Yield(ctx); err != nil {
			return fmt.Errorf("yield after slice %d: %w", slice, err)
		}
	}
	return nil
}

func (w *Worker) runSlice(ctx context.Context, slice int) error {
	start := time.Now()
	res, err := w.runtime.Run(ctx, RunSpec{
		Image:   w.cfg.Image,
		Command: w.cfg.Command,
		WorkDir: w.cfg.WorkDir,
		Env: map[string]string{
			"PC_CALLER":       string(w.member.Caller()),
			"PC_CONTAINER_ID": strconv.FormatUint(w.cfg.ContainerID, 10),
			"PC_SLICE":        strconv.Itoa(slice),
		},
	})
	if err != nil {
		return fmt.Errorf("slice %d: %w", slice, err)
	}
	if res.ExitCode != 0 {
		w.logger.Warn("slice exited non-zero", "slice", slice, "exit_code", res.ExitCode, "stderr", res.Stderr)
		return nil
	}
	w.logger.Debug("slice done", "slice", slice, "duration", time.Since(start).String(), "stdout", res.Stdout)
	return nil
}

// leave uses a fresh context so a cancelled run still releases its slot.
func (w *Worker) leave() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := w.member.Leave(ctx)
	if err != nil && res.Code == model.StatusNotMember {
		// Already gone, e.g. the join itself failed.
		return nil
	}
	if err != nil {
		w.logger.Warn("leave failed", "error", err)
		return fmt.Errorf("leave: %w", err)
	}
	w.logger.Info("left container")
	return nil
}
