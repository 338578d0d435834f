// Package level loads room files and turns them into physics worlds.
// This package depends on physics but physics does not depend on level.
package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/level/formats"
	"github.com/vovakirdan/goblin-physics/internal/physics"
)

//go:embed rooms/*.yaml
var builtinRooms embed.FS

// BuiltinRoot is the Root reported by the embedded loader.
const BuiltinRoot = "builtin"

// Level represents a complete room definition in pixel space.
type Level struct {
	ID       string
	Name     string
	Width    float64
	Height   float64
	Spawn    core.Vec2
	Polygons []physics.PolygonRegion
	Rects    []physics.RectRegion
	Movers   []formats.Mover
	Metadata map[string]string
	FilePath string
	Hash     uint64
}

// Fingerprint returns the content hash of the source file as hex.
func (l *Level) Fingerprint() string {
	return fmt.Sprintf("%016x", l.Hash)
}

// Loader handles loading rooms from a directory. When FS is set it is read
// instead of the operating system directory named by Root.
type Loader struct {
	Root string
	FS   fs.FS
}

// NewLoader creates a new room loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Builtin returns a loader over the rooms compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinRooms, "rooms")
	if err != nil {
		panic(err)
	}
	return &Loader{Root: BuiltinRoot, FS: sub}
}

func (l *Loader) fsys() fs.FS {
	if l.FS != nil {
		return l.FS
	}
	return os.DirFS(l.Root)
}

// LoadAll recursively scans and loads all room files.
// Returns rooms sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	fsys := l.fsys()
	var levels []Level

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil
		}
		lvl, err := parse(data, path.Ext(p), filepath.Join(l.Root, filepath.FromSlash(p)))
		if err != nil {
			// Skip invalid files
			return nil
		}

		levels = append(levels, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads a single room file from disk.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	lvl, err := parse(data, filepath.Ext(p), p)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	return lvl, nil
}

// LoadByID loads a specific room by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all room IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func parse(data []byte, ext, source string) (Level, error) {
	room, err := parseByExtension(data, strings.ToLower(ext))
	if err != nil {
		return Level{}, err
	}
	return Level{
		ID:       room.ID,
		Name:     room.Name,
		Width:    room.Width,
		Height:   room.Height,
		Spawn:    room.Spawn,
		Polygons: room.Polygons,
		Rects:    room.Rects,
		Movers:   room.Movers,
		Metadata: room.Metadata,
		FilePath: source,
		Hash:     xxhash.Sum64(data),
	}, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Room, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Room{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
