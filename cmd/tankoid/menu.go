package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tankoid/internal/platform/tui"
	"github.com/vovakirdan/tankoid/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start tankoid with a mode and level picker",
	Long: `Start tankoid in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select. Levels unlock as
you clear the campaign. After a game ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  tankoid menu
  tankoid menu --fps 30
  tankoid menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closer := newLogger(true)
	defer closer.Close()

	svc := tui.Services{
		Store:    openStore(logger),
		Progress: openProgress(logger),
		Logger:   logger,
	}
	defer func() {
		if svc.Store != nil {
			svc.Store.Close()
		}
	}()

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(svc, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(svc, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if lv, ok := game.(registry.Leveled); ok && menuResult.Level > 0 {
			lv.StartAt(menuResult.Level)
		}

		// Fresh seed for each game unless pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, svc, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
