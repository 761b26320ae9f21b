package tiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/tilestitch/pkg/errors"
)

const (
	// DefaultPrefix is the leading token of every tile file name.
	DefaultPrefix = "tile"

	// DefaultExt is the source extension tiles are expected to carry. It is
	// independent of the output image extension.
	DefaultExt = "jpg"

	// Delimiter separates the prefix, x and y tokens of a tile name.
	Delimiter = "_"
)

// Coord is an integer grid position.
type Coord struct {
	X, Y int
}

// String formats the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Map indexes tile file paths by grid coordinate.
type Map map[Coord]string

// Lookup returns the path stored for c.
func (m Map) Lookup(c Coord) (string, bool) {
	p, ok := m[c]
	return p, ok
}

// Coords returns all coordinates in row-major order (y, then x ascending).
func (m Map) Coords() []Coord {
	out := make([]Coord, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Options controls which directory entries count as tiles.
type Options struct {
	// Ext is the source extension, with or without the leading dot.
	// Defaults to DefaultExt.
	Ext string

	// Prefix is the leading name token. Defaults to DefaultPrefix.
	Prefix string
}

func (o Options) withDefaults() Options {
	if o.Ext == "" {
		o.Ext = DefaultExt
	}
	o.Ext = strings.TrimPrefix(o.Ext, ".")
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	return o
}

// NormalizeDir strips trailing path separators from dir. The filesystem root
// is left as is.
func NormalizeDir(dir string) string {
	trimmed := strings.TrimRight(dir, `/`+string(filepath.Separator))
	if trimmed == "" && dir != "" {
		return dir[:1]
	}
	return trimmed
}

// Match reports whether name looks like a tile file: it starts with the
// prefix followed by the delimiter and ends with the source extension.
func Match(name string, opts Options) bool {
	opts = opts.withDefaults()
	return strings.HasPrefix(name, opts.Prefix+Delimiter) && strings.HasSuffix(name, "."+opts.Ext)
}

// ParseName extracts the grid coordinate from a tile file name.
//
// Every occurrence of the extension is removed (so "tile_1_2.jpg.jpg" is
// (1,2)), the rest is split on [Delimiter], and the second
// and third tokens are read as x and y. Tokens past the third are ignored.
// Fewer than three tokens, or a non-integer x or y, yields an
// INVALID_TILE_NAME error.
func ParseName(name, ext string) (Coord, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = DefaultExt
	}
	base := strings.ReplaceAll(name, "."+ext, "")

	parts := strings.Split(base, Delimiter)
	if len(parts) < 3 {
		return Coord{}, errors.New(errors.ErrCodeInvalidTileName,
			"tile name %q has %d tokens, want at least 3", name, len(parts))
	}

	x, err := strconv.Atoi(parts[1])
	if err != nil {
		return Coord{}, errors.Wrap(errors.ErrCodeInvalidTileName, err, "tile name %q: bad x %q", name, parts[1])
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return Coord{}, errors.Wrap(errors.ErrCodeInvalidTileName, err, "tile name %q: bad y %q", name, parts[2])
	}
	return Coord{X: x, Y: y}, nil
}

// Discover lists dir and returns every tile in it keyed by coordinate.
// Stored paths are dir (normalized) joined with the file name.
//
// Entries are visited in the order os.ReadDir returns them, which is sorted
// by file name; when two names parse to the same coordinate the later one
// wins. Subdirectories are skipped even if their name matches.
//
// Errors:
//   - DIRECTORY_UNREADABLE if dir cannot be listed
//   - INVALID_TILE_NAME if a matching name does not parse
//   - EMPTY_DATASET if no tiles are found
func Discover(dir string, opts Options) (Map, error) {
	if err := errors.ValidateDirPath(dir); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	dir = NormalizeDir(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryUnreadable, err, "read tile directory %s", dir)
	}

	m := make(Map)
	for _, e := range entries {
		if e.IsDir() || !Match(e.Name(), opts) {
			continue
		}
		c, err := ParseName(e.Name(), opts.Ext)
		if err != nil {
			return nil, err
		}
		m[c] = filepath.Join(dir, e.Name())
	}

	if len(m) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no %s*.%s tiles found in %s", opts.Prefix+Delimiter, opts.Ext, dir)
	}
	return m, nil
}
