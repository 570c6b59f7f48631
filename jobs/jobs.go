package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/marcus-crane/whatsong/config"
)

func SetupInBackground(cfg config.Config, np *NowPlaying) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	// A slow store shouldn't pile up ticks
	s.SingletonModeAll()

	if _, err := s.Every(cfg.NowPlayingInterval()).Do(np.Tick, context.Background()); err != nil {
		return nil, err
	}

	slog.Info("Jobs scheduled. Scheduler not running yet.",
		slog.Duration("now_playing_interval", cfg.NowPlayingInterval()))

	return s, nil
}
