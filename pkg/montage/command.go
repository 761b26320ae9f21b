package montage

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/tilestitch/pkg/region"
	"github.com/matzehuels/tilestitch/pkg/tiles"
)

// DefaultFiller is the placeholder image used for missing tiles. It is a
// path relative to the working directory and is passed through unchanged.
const DefaultFiller = "bl.png"

// Placement is one grid cell of a walk.
type Placement struct {
	Coord  tiles.Coord
	Path   string
	Filler bool // Path is the filler image
}

// Walk calls fn for every cell of r in row-major order, resolving each
// coordinate through m and falling back to filler. Paths are not checked for
// existence.
func Walk(m tiles.Map, r region.Region, filler string, fn func(Placement)) {
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			c := tiles.Coord{X: x, Y: y}
			p, ok := m.Lookup(c)
			if !ok {
				p = filler
			}
			fn(Placement{Coord: c, Path: p, Filler: !ok})
		}
	}
}

// Command is a fully resolved compositing job.
type Command struct {
	Inputs  []string // Cell paths in row-major order
	Columns int
	Rows    int
	Output  string
}

// BuildCommand walks r over m and returns the compositing job writing to
// output.
func BuildCommand(m tiles.Map, r region.Region, filler, output string) Command {
	cmd := Command{
		Inputs:  make([]string, 0, r.Cells()),
		Columns: r.Columns(),
		Rows:    r.Rows(),
		Output:  output,
	}
	Walk(m, r, filler, func(p Placement) {
		cmd.Inputs = append(cmd.Inputs, p.Path)
	})
	return cmd
}

// TileArg returns the grid dimensions argument, "<cols>x<rows>".
func (c Command) TileArg() string {
	return fmt.Sprintf("%dx%d", c.Columns, c.Rows)
}

// Args returns the montage argument list: every input path followed by zero
// spacing, the grid dimensions and the output path.
func (c Command) Args() []string {
	args := make([]string, 0, len(c.Inputs)+5)
	args = append(args, c.Inputs...)
	return append(args, "-geometry", "+0+0", "-tile", c.TileArg(), c.Output)
}

// Line formats the command as a single shell-like line for display. Input
// paths are quoted; the result is not meant to be parsed.
func (c Command) Line(name string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, in := range c.Inputs {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(in))
	}
	fmt.Fprintf(&b, " -geometry +0+0 -tile %s %s", c.TileArg(), c.Output)
	return b.String()
}

// OutputPath derives the output file name from the tile directory: its last
// path segment (trailing separators ignored) plus ext. The result is relative
// to the working directory. For "." or "/" like inputs the absolute path's
// last segment is used instead.
func OutputPath(dir, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	base := filepath.Base(tiles.NormalizeDir(dir))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		if abs, err := filepath.Abs(dir); err == nil {
			base = filepath.Base(abs)
		}
	}
	return base + "." + ext
}
