package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tideline/internal/app"
	"github.com/llehouerou/tideline/internal/config"
	"github.com/llehouerou/tideline/internal/icons"
	"github.com/llehouerou/tideline/internal/logger"
	"github.com/llehouerou/tideline/internal/mpris"
	"github.com/llehouerou/tideline/internal/notify"
	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/session"
	"github.com/llehouerou/tideline/internal/state"
	"github.com/llehouerou/tideline/internal/stderr"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log, logCloser, err := logger.Init(logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	})
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logCloser.Close()

	icons.Init(cfg.UI.Icons)

	// Captured lines are logged, so there is nothing to capture when the log
	// itself goes to stderr.
	var nativeOutput <-chan string
	if cfg.Log.Output != "stderr" {
		capture, err := stderr.Start(log.With().Str("component", "stderr").Logger())
		if err != nil {
			log.Warn().Err(err).Msg("stderr capture unavailable")
		} else {
			defer capture.Close()
			nativeOutput = capture.Lines()
		}
	}

	libraryFolder := cfg.LibraryFolder
	if libraryFolder == "" {
		if libraryFolder, err = os.Getwd(); err != nil {
			return errors.Wrap(err, "resolve library folder")
		}
	}

	repeat, err := playback.ParseRepeatMode(cfg.Playback.Repeat)
	if err != nil {
		return err
	}

	engine := session.NewEngine(
		session.WithLogger(log.With().Str("component", "session").Logger()),
		session.WithEventBuffer(cfg.Playback.EventBuffer),
	)
	defer engine.Close()

	orch, err := playback.New(engine,
		playback.WithLogger(log.With().Str("component", "playback").Logger()),
		playback.WithRepeatMode(repeat),
		playback.WithRefreshInterval(cfg.Playback.RefreshInterval()),
	)
	if err != nil {
		return errors.Wrap(err, "init playback")
	}
	saverSub := orch.Subscribe()
	uiSub := orch.Subscribe()
	var notifySub *playback.Subscription
	if cfg.Notifications.Enabled {
		notifySub = orch.Subscribe()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := playback.NewRunner(orch)
	runnerDone := make(chan error, 1)
	go func() { runnerDone <- runner.Run(ctx) }()

	stateMgr, err := state.Open(cfg.State.Path,
		state.WithLogger(log.With().Str("component", "state").Logger()))
	if err != nil {
		cancel()
		<-runnerDone
		return errors.Wrap(err, "open state")
	}
	defer stateMgr.Close()

	if cfg.Playback.RestoreQueue {
		restoreQueue(ctx, log, runner, stateMgr)
	}
	go state.Watch(ctx, saverSub, stateMgr, runner.Status())

	if cfg.MPRIS.Enabled {
		adapter, err := mpris.New(ctx, runner)
		if err != nil {
			log.Warn().Err(err).Msg("mpris unavailable")
		} else {
			defer adapter.Close()
		}
	}

	if notifySub != nil {
		notifier, err := notify.New()
		if err != nil {
			log.Warn().Err(err).Msg("notifications unavailable")
		} else {
			go notify.Watch(ctx, notifySub, notifier, notify.Options{
				Timeout:      int32(cfg.Notifications.TimeoutMs), //nolint:gosec // validated range
				ShowAlbumArt: cfg.Notifications.ShowAlbumArt,
				Logger:       log.With().Str("component", "notify").Logger(),
			})
		}
	}

	statuses := make(chan playback.Status, 1)
	listener := func(st playback.Status) {
		// Latest wins: the UI only needs the newest status.
		select {
		case <-statuses:
		default:
		}
		statuses <- st
	}
	if err := runner.Do(ctx, func(o *playback.Orchestrator) error {
		return o.Reinitialize(listener)
	}); err != nil {
		log.Error().Err(err).Msg("attach status listener")
	}

	model := app.New(ctx, runner, app.Options{
		LibraryFolder: libraryFolder,
		ShuffleOnLoad: cfg.Playback.Shuffle,
		Statuses:      statuses,
		Events:        uiSub,
		NativeOutput:  nativeOutput,
		Logger:        log.With().Str("component", "app").Logger(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	if err := <-runnerDone; err != nil {
		log.Error().Err(err).Msg("playback runner")
	}
	return runErr
}

// restoreQueue cues the saved queue without starting playback. Failures are
// logged: a broken saved queue must not prevent startup.
func restoreQueue(ctx context.Context, log zerolog.Logger, r *playback.Runner, s *state.Manager) {
	q, err := s.GetQueue(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not read saved queue")
		return
	}
	if q == nil {
		return
	}
	if dropped := state.DropMissing(q); dropped > 0 {
		log.Info().Int("dropped", dropped).Msg("saved tracks no longer on disk")
	}
	if err := r.Do(ctx, func(o *playback.Orchestrator) error {
		return state.Restore(o, q)
	}); err != nil {
		log.Warn().Err(err).Msg("could not restore queue")
		return
	}
	log.Info().Int("tracks", len(q.Tracks)).Msg("queue restored")
}
