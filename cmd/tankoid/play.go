package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tankoid/internal/games/tankoid"
	"github.com/vovakirdan/tankoid/internal/platform/spectate"
	"github.com/vovakirdan/tankoid/internal/platform/tui"
	"github.com/vovakirdan/tankoid/internal/registry"
)

var (
	flagMode     string
	flagLevel    int
	flagSpectate string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play tankoid",
	Long: `Start playing immediately, without the menu.

Controls:
  Left/Right, A/D  - Move paddle
  Space/Up         - Launch the ball
  Enter            - Next level after a clear
  P                - Pause
  R                - Restart (after game over)
  B/Esc            - Leave (when paused or over)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Modes:
  campaign  - Play the levels in order; clearing the last one wins
  endless   - Levels cycle forever and the ball keeps getting faster

Spectating:
  --spectate :8080 streams every frame as JSON to websocket clients
  connected at ws://host:8080/ws.

Examples:
  tankoid play
  tankoid play --mode endless
  tankoid play --level 3 --difficulty hard
  tankoid play --levels ./my-levels --config ./tankoid.toml
  tankoid play --spectate :8080`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "campaign", "Game mode: campaign or endless")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start at this level (1-based, campaign only)")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a spectator websocket on this address")
}

func gameIDForMode(mode string) (string, error) {
	switch mode {
	case "campaign", "":
		return "tankoid", nil
	case "endless":
		return "tankoid_endless", nil
	default:
		return "", fmt.Errorf("unknown mode %q (want campaign or endless)", mode)
	}
}

func runPlay(_ *cobra.Command, _ []string) error {
	gameID, err := gameIDForMode(flagMode)
	if err != nil {
		return err
	}

	logger, closer := newLogger(true)
	defer closer.Close()

	// Fail fast on broken config or levels instead of inside the TUI.
	setup, err := tankoid.LoadSetup()
	if err != nil {
		return fmt.Errorf("cannot start: %w", err)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	tracker := openProgress(logger)
	if lv, ok := game.(registry.Leveled); ok && flagLevel > 0 {
		if lv.Campaign() && tracker != nil && tracker.Persistent() && !tracker.Unlocked(flagLevel-1) {
			return fmt.Errorf("level %d is locked: clear level %d first", flagLevel, tracker.HighestCleared()+2)
		}
		lv.StartAt(flagLevel)
	}

	svc := tui.Services{
		Store:          openStore(logger),
		Progress:       tracker,
		BroadcastEvery: setup.Config.Spectate.BroadcastEvery,
		Logger:         logger,
	}
	if svc.Store != nil {
		defer svc.Store.Close()
	}

	if flagSpectate != "" {
		hub := spectate.NewHub(logger)
		svc.Spectate = hub

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- hub.ListenAndServe(ctx, flagSpectate) }()
		defer func() {
			cancel()
			if serveErr := <-done; serveErr != nil {
				logger.Error("spectate server", "err", serveErr)
			}
		}()
	}

	logger.Info("starting game", "game", gameID, "levels", len(setup.Levels), "start", flagLevel)
	if err := tui.Run(game, svc, runtimeConfig()); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
