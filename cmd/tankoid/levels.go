package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tankoid/internal/config"
	"github.com/vovakirdan/tankoid/internal/games/tankoid"
	"github.com/vovakirdan/tankoid/internal/games/tankoid/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [dir]",
	Short: "List available levels",
	Long: `Shows the levels of a level set in play order, with their brick
counts. Without a directory the --levels flag or the builtin set is used.

Examples:
  tankoid levels
  tankoid levels ./my-levels
  tankoid levels check ./my-levels/0004.lvl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLevels,
}

var levelsCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate level files",
	Long: `Parses each level file against the configured grid size and palette
and reports the first problem found in it:

  wrong row count          - the file has more or fewer rows than level.rows
  wrong column count       - a row is not level.cols characters long
  invalid brick type       - a character is not a digit
  brick type not in pool   - a digit has no palette entry`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLevelsCheck,
}

func init() {
	levelsCmd.AddCommand(levelsCheckCmd)
}

// levelFormat resolves the grid size and palette from the active config.
func levelFormat() (config.TankoidConfig, levels.Format, error) {
	cfg, err := config.LoadTankoid(flagConfig)
	if err != nil {
		return cfg, levels.Format{}, err
	}
	return cfg, tankoid.LevelFormat(cfg), nil
}

func runLevels(_ *cobra.Command, args []string) error {
	cfg, format, err := levelFormat()
	if err != nil {
		return err
	}

	dir := flagLevelsDir
	if len(args) == 1 {
		dir = args[0]
	}
	loader := levels.Builtin(format)
	if dir != "" {
		loader = levels.NewLoader(dir, format)
	}

	ids, err := loader.ListIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Printf("No levels found in %s.\n", loader.Root())
		return nil
	}

	fmt.Printf("Levels in %s (%dx%d):\n\n", loader.Root(), format.Cols, format.Rows)
	fmt.Printf("  %-3s  %-8s  %-14s  %s\n", "#", "ID", "Name", "Bricks")
	fmt.Printf("  %-3s  %-8s  %-14s  %s\n", "-", "--", "----", "------")

	palette := tankoid.Palette(cfg)
	broken := 0
	for i, id := range ids {
		lvl, err := loader.LoadByID(id)
		if err != nil {
			broken++
			fmt.Printf("  %-3d  %-8s  %-14s  error: %v\n", i+1, id, "-", err)
			continue
		}
		fmt.Printf("  %-3d  %-8s  %-14s  %d\n", i+1, lvl.ID, lvl.Name, lvl.Grid.Count(palette))
	}

	if broken > 0 {
		return fmt.Errorf("%d of %d levels failed to load", broken, len(ids))
	}
	return nil
}

func runLevelsCheck(_ *cobra.Command, args []string) error {
	cfg, format, err := levelFormat()
	if err != nil {
		return err
	}
	palette := tankoid.Palette(cfg)

	failed := 0
	for _, file := range args {
		lvl, err := levels.LoadFile(file, format)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %s\n  %v\n", file, failureKind(err), err)
			continue
		}
		fmt.Printf("%s: ok (%d bricks)\n", file, lvl.Grid.Count(palette))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d level files are invalid", failed, len(args))
	}
	return nil
}

// failureKind names the load failure for display.
func failureKind(err error) string {
	for _, sentinel := range []error{
		levels.ErrRowCount,
		levels.ErrColumnCount,
		levels.ErrInvalidBrickType,
		levels.ErrBrickTypeNotInPool,
		levels.ErrNoBricks,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, os.ErrNotExist) {
		return "file not found"
	}
	return "unreadable"
}
