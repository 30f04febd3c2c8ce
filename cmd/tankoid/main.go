// tankoid is a terminal brick breaker built on a swept-AABB collision core.
//
// Usage:
//
//	tankoid play             - Play the campaign (or --mode endless)
//	tankoid menu             - Pick a mode or level interactively
//	tankoid levels [dir]     - List levels, or validate one with "levels check"
//	tankoid scores [game]    - Show high scores
//	tankoid serve            - Start SSH server for remote play
//	tankoid config           - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible runs
//	--db <path>           - Set database path (default: ~/.tankoid/scores.db)
//	--config <path>       - Use a specific YAML or TOML config
//	--difficulty <name>   - easy, normal, hard or fixed
//	--levels <dir>        - Load levels from a directory instead of the builtin set
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tankoid/internal/config"
	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/games/tankoid"
	"github.com/vovakirdan/tankoid/internal/progress"
	"github.com/vovakirdan/tankoid/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tankoid",
	Short: "Tankoid - break bricks in your terminal",
	Long: `Tankoid is a terminal brick breaker: bounce the ball off your paddle
and clear every brick of a level to advance.

Available commands:
  play     - Play the campaign or endless mode directly
  menu     - Interactive mode and level picker
  levels   - List or validate level files
  scores   - View high scores
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Examples:
  tankoid play
  tankoid play --mode endless --difficulty hard
  tankoid menu
  tankoid levels check ./my-level.lvl
  tankoid serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagDifficulty != "" {
			if _, err := config.ParsePreset(flagDifficulty); err != nil {
				return err
			}
		}
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		applyGameSettings()
		return nil
	},
}

func init() {
	defaultDB := "~/" + config.AppDir + "/scores.db"

	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDB, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a tankoid YAML or TOML config")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory with .lvl files (default: builtin levels)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// applyGameSettings hands the global flags to the game package before any
// game is created.
func applyGameSettings() {
	tankoid.SetConfigPath(flagConfig)
	tankoid.SetDifficultyPreset(flagDifficulty)
	tankoid.SetLevelsDir(flagLevelsDir)
}

// newLogger builds the CLI logger. Full-screen commands log to
// ~/.tankoid/tankoid.log so output does not tear the alternate screen.
// The returned closer releases the log file.
func newLogger(toFile bool) (*log.Logger, io.Closer) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if toFile {
		w = io.Discard
		if dir := config.UserDir(); dir != "" {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr == nil {
				f, openErr := os.OpenFile(filepath.Join(dir, "tankoid.log"),
					os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
				if openErr == nil {
					w, closer = f, f
				}
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tankoid",
		Level:           level,
	})
	tankoid.SetLogger(logger)
	return logger, closer
}

// runtimeConfig sizes the simulation to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// progressSet names the progress record for the active level set.
func progressSet() string {
	if flagLevelsDir == "" {
		return "builtin"
	}
	abs, err := filepath.Abs(flagLevelsDir)
	if err != nil {
		abs = flagLevelsDir
	}
	return progress.SetName("dir", abs)
}

// openStore opens the score database. Failures degrade to playing
// without scores.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "err", err)
		return nil
	}
	return store
}

// openProgress opens the campaign progress tracker.
func openProgress(logger *log.Logger) *progress.Tracker {
	tracker, err := progress.Open(progressSet())
	if err != nil {
		logger.Warn("progress will not be saved", "err", err)
	}
	return tracker
}
