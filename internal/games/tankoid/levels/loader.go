package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.lvl builtin/levels.yaml
var builtinFS embed.FS

// ManifestFile is the optional index listing levels in play order.
const ManifestFile = "levels.yaml"

// Extension is the level file extension.
const Extension = ".lvl"

// Level is a loaded, validated level.
type Level struct {
	ID       string
	Name     string
	FilePath string
	Grid     *Grid
}

// Manifest is the YAML structure of levels.yaml.
type Manifest struct {
	Levels []ManifestEntry `yaml:"levels"`
}

// ManifestEntry names one level file.
type ManifestEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Loader loads levels from a directory tree.
type Loader struct {
	fsys   fs.FS
	root   string
	format Format
}

// NewLoader creates a loader reading from a directory on disk.
func NewLoader(root string, format Format) *Loader {
	return &Loader{fsys: os.DirFS(root), root: root, format: format}
}

// Builtin returns a loader over the levels compiled into the binary.
func Builtin(format Format) *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("levels: builtin fs: %v", err))
	}
	return &Loader{fsys: sub, root: "builtin", format: format}
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// LoadAll loads every level in play order. Order comes from the manifest
// when one exists, otherwise from sorted file names. Any invalid level
// fails the whole load.
func (l *Loader) LoadAll() ([]Level, error) {
	entries, err := l.entries()
	if err != nil {
		return nil, err
	}

	levels := make([]Level, 0, len(entries))
	for _, e := range entries {
		lvl, err := l.load(e)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels found in %s", l.root)
	}
	return levels, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	entries, err := l.entries()
	if err != nil {
		return Level{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return l.load(e)
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in play order without parsing the files.
func (l *Loader) ListIDs() ([]string, error) {
	entries, err := l.entries()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, nil
}

func (l *Loader) entries() ([]ManifestEntry, error) {
	data, err := fs.ReadFile(l.fsys, ManifestFile)
	switch {
	case err == nil:
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Join(l.root, ManifestFile), err)
		}
		for i := range m.Levels {
			e := &m.Levels[i]
			if e.File == "" {
				return nil, fmt.Errorf("manifest entry %d: missing file", i)
			}
			if e.ID == "" {
				e.ID = idFromFile(e.File)
			}
			if e.Name == "" {
				e.Name = e.ID
			}
		}
		return m.Levels, nil
	case errors.Is(err, fs.ErrNotExist):
		files, err := fs.Glob(l.fsys, "*"+Extension)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", l.root, err)
		}
		sort.Strings(files)
		entries := make([]ManifestEntry, len(files))
		for i, f := range files {
			id := idFromFile(f)
			entries[i] = ManifestEntry{ID: id, Name: id, File: f}
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("reading manifest in %s: %w", l.root, err)
	}
}

func (l *Loader) load(e ManifestEntry) (Level, error) {
	data, err := fs.ReadFile(l.fsys, e.File)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", filepath.Join(l.root, e.File), err)
	}
	grid, err := Parse(data, l.format)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", filepath.Join(l.root, e.File), err)
	}
	return Level{
		ID:       e.ID,
		Name:     e.Name,
		FilePath: filepath.Join(l.root, e.File),
		Grid:     grid,
	}, nil
}

// LoadFile loads a single level file from disk.
func LoadFile(file string, format Format) (Level, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", file, err)
	}
	grid, err := Parse(data, format)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", file, err)
	}
	id := idFromFile(file)
	return Level{ID: id, Name: id, FilePath: file, Grid: grid}, nil
}

func idFromFile(file string) string {
	base := path.Base(filepath.ToSlash(file))
	return strings.TrimSuffix(base, path.Ext(base))
}
