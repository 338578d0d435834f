package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/goblin-physics/internal/config"
	"github.com/vovakirdan/goblin-physics/internal/level"
	"github.com/vovakirdan/goblin-physics/internal/logging"
	"github.com/vovakirdan/goblin-physics/internal/registry"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

// appState is what every command shares: settings, logger and the
// optional log file.
type appState struct {
	settings config.Settings
	source   string
	logger   *log.Logger
	sink     *logging.Sink
}

// Setup resolves settings and opens the logger. Interactive commands
// never log to the terminal.
func (a *appState) Setup(interactive bool) error {
	s, source, err := config.Resolve(flagConfig)
	if err != nil {
		return err
	}
	a.settings, a.source = s, source

	levelName := s.LogLevel
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	lvl, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}

	switch {
	case flagLogFile != "":
		logger, sink, err := logging.Open(flagLogFile, lvl)
		if err != nil {
			return err
		}
		a.logger, a.sink = logger, sink
	case interactive:
		a.logger = logging.Discard()
	default:
		a.logger = logging.New(os.Stderr, lvl)
	}
	a.logger.Debug("settings loaded", "source", source)
	return nil
}

// Close flushes the log file.
func (a *appState) Close() error {
	if a.sink == nil {
		return nil
	}
	return a.sink.Close()
}

// Env builds the scene environment from settings and flags.
func (a *appState) Env(room string) registry.Env {
	env := registry.Env{
		Physics:        a.settings.Physics.WorldOptions(a.logger),
		PixelsPerMeter: a.settings.Physics.PixelsPerMeter,
		Room:           room,
	}
	if flagRooms != "" {
		env.Rooms = level.NewLoader(flagRooms)
	}
	return env
}

// Loader returns the room loader selected by --rooms.
func (a *appState) Loader() *level.Loader {
	return a.Env("").Loader()
}

// OpenStore opens the runs database.
func (a *appState) OpenStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening runs database: %w", err)
	}
	return store, nil
}

// newScene creates a registered scene without building it.
func newScene(id string) (registry.Scene, error) {
	if !registry.Exists(id) {
		return nil, fmt.Errorf("unknown scene %q (run 'goblin list' to see available scenes)", id)
	}
	return registry.Create(id)
}

// scene creates and resets a registered scene.
func (a *appState) scene(id, room string) (registry.Scene, error) {
	s, err := newScene(id)
	if err != nil {
		return nil, err
	}
	if err := s.Reset(a.Env(room)); err != nil {
		return nil, err
	}
	return s, nil
}
