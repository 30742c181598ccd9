package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/me/pcontainer/internal/config"
	"github.com/me/pcontainer/internal/logging"
	"github.com/me/pcontainer/internal/scheduler"
	"github.com/me/pcontainer/internal/server"
	"github.com/me/pcontainer/internal/store"
	"github.com/me/pcontainer/internal/tracing"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.String("addr", "", "Listen address (default :8080)")
	flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.String("log-format", "", "Log format (text, json)")
	flag.String("journal", "", "Journal SQLite path (default :memory:)")
	flag.Int("max-containers", 0, "Maximum registered containers (0 = unlimited)")
	flag.Int("max-members", 0, "Maximum members per container (0 = unlimited)")
	flag.String("trace-file", "", "Write verb spans to this file (empty disables tracing)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	// Defaults, then file, then PC_* environment, then explicit flags.
	cfg, err := config.Load(*configFile, os.Environ())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "flags: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.FromConfig(cfg.LogLevel, cfg.LogFormat)

	if cfg.TraceFile != "" {
		if err := tracing.Init("pcontainerd", server.Version, cfg.TraceFile); err != nil {
			fmt.Fprintf(os.Stderr, "init tracing: %v\n", err)
			os.Exit(1)
		}
		logger.Info("tracing enabled", "file", cfg.TraceFile)
	}

	// Open journal and run migrations.
	journal, err := store.NewSQLiteJournal(cfg.JournalPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open journal: %v\n", err)
		os.Exit(1)
	}
	defer journal.Close()

	if err := journal.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate journal: %v\n", err)
		os.Exit(1)
	}
	logger.Info("journal ready", "path", cfg.JournalPath)

	sched := scheduler.New(scheduler.Config{
		MaxContainers: cfg.MaxContainers,
		MaxMembers:    cfg.MaxMembers,
	}, logger, scheduler.WithRecorder(journal))

	srv := server.New(cfg, sched, logger, server.WithJournal(journal))

	// No WriteTimeout: JOIN and YIELD responses wait for the caller's turn.
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr,
			"max_containers", cfg.MaxContainers, "max_members", cfg.MaxMembers)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", "containers", sched.Registry().Len())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Parked members hold their requests open; they are cut off at the deadline.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", "error", err)
	}
	logger.Info("server stopped")
}

// applyFlags copies only the flags given on the command line into cfg.
func applyFlags(cfg *config.ServerConfig) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "addr":
			cfg.Addr = v
		case "log-level":
			cfg.LogLevel = v
		case "log-format":
			cfg.LogFormat = v
		case "journal":
			cfg.JournalPath = v
		case "trace-file":
			cfg.TraceFile = v
		case "max-containers":
			cfg.MaxContainers, err = strconv.Atoi(v)
		case "max-members":
			cfg.MaxMembers, err = strconv.Atoi(v)
		}
	})
	return err
}
