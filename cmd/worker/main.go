package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/me/pcontainer/internal/logging"
	"github.com/me/pcontainer/internal/worker"
	"github.com/me/pcontainer/pkg/model"
)

func main() {
	var cfg worker.Config
	var cid, command string

	flag.StringVar(&cfg.ServerURL, "server", "http://localhost:8080", "pcontainer server URL")
	flag.StringVar(&cfg.Caller, "caller", os.Getenv("PCCTL_CALLER"), "Caller identity (default: generated)")
	flag.StringVar(&cid, "cid", "", "Container id to join")
	flag.IntVar(&cfg.Slices, "slices", 1, "Number of work slices")
	flag.StringVar(&command, "command", "", "Shell command run once per slice (empty for no-op slices)")
	flag.StringVar(&cfg.Runtime, "runtime", "none", "Slice runtime (docker, none)")
	flag.StringVar(&cfg.Image, "image", "", "Container image for the docker runtime")
	flag.StringVar(&cfg.WorkDir, "workdir", "", "Working directory for slices (default: $TMPDIR)")

	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "Log format (text, json)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	if *debug {
		*logLevel = "debug"
	}
	logger := logging.NewLogger(logging.ParseLevel(*logLevel), *logFormat)

	id, err := model.ParseContainerID(cid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --cid %q: %v\n", cid, err)
		os.Exit(2)
	}
	cfg.ContainerID = id
	if strings.TrimSpace(command) != "" {
		cfg.Command = []string{"sh", "-c", command}
	}

	w, err := worker.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init worker: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting worker",
		"server", cfg.ServerURL,
		"container", cfg.ContainerID,
		"slices", cfg.Slices,
		"runtime", cfg.Runtime,
	)

	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "worker error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("worker stopped")
}
