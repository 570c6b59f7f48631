package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marcus-crane/whatsong/config"
	"github.com/marcus-crane/whatsong/db"
	"github.com/marcus-crane/whatsong/events"
	"github.com/marcus-crane/whatsong/jobs"
	"github.com/marcus-crane/whatsong/playback"
	"github.com/marcus-crane/whatsong/routes"
	"github.com/marcus-crane/whatsong/youtube"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("whatsong exited with an error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.GetLogLevel(),
	})))

	if cfg.Whatsong.ResetDb {
		if err := os.Remove(cfg.Whatsong.DbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to reset db: %w", err)
		}
		slog.Warn("Removed existing database", slog.String("path", cfg.Whatsong.DbPath))
	}

	database, err := db.Open(cfg.Whatsong.DbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.ApplyMigrations(database); err != nil {
		return err
	}

	broadcaster := events.New()

	ps := playback.NewPlaybackSystem(database, youtube.NewClient(cfg), broadcaster)

	jobScheduler, err := jobs.SetupInBackground(cfg, jobs.NewNowPlaying(ps, broadcaster))
	if err != nil {
		return err
	}

	if cfg.Whatsong.BackgroundJobsEnabled {
		jobScheduler.StartAsync()
		slog.Info("Background jobs have started up in the background.")
	} else {
		slog.Info("Background jobs are disabled.")
	}
	defer jobScheduler.Stop()

	server := &http.Server{
		Addr:              cfg.Whatsong.Address,
		Handler:           routes.Register(http.NewServeMux(), ps, broadcaster, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("whatsong is running", slog.String("address", fmt.Sprintf("http://%s", cfg.Whatsong.Address)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Gracefully shutting down...")
		// Event streams never finish on their own so close them before draining
		broadcaster.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("whatsong has successfully shut down.")
	return nil
}
