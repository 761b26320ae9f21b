// Package region resolves the rectangle of tile coordinates to render.
//
// A [Region] is inclusive on both ends and always has min <= max on each
// axis. It is derived either from the full extent of a [tiles.Map] or from a
// requested origin and size (see [Center]).
package region

import (
	"fmt"
	"math"

	"github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/tiles"
)

// MaxCells bounds the number of grid cells a resolved region may have. A
// compositor argument list for a larger grid would not fit on a command line.
const MaxCells = 1 << 20

// Region is an inclusive rectangle in tile-grid units.
type Region struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Columns returns the number of tiles along x.
func (r Region) Columns() int { return r.MaxX - r.MinX + 1 }

// Rows returns the number of tiles along y.
func (r Region) Rows() int { return r.MaxY - r.MinY + 1 }

// Cells returns Columns() * Rows().
func (r Region) Cells() int { return r.Columns() * r.Rows() }

// Contains reports whether c lies inside r.
func (r Region) Contains(c tiles.Coord) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

// String formats the bounds the way they are logged.
func (r Region) String() string {
	return fmt.Sprintf("min_x=%d, max_x=%d, min_y=%d, max_y=%d", r.MinX, r.MaxX, r.MinY, r.MaxY)
}

// Size is a requested region size in tiles.
type Size struct {
	W, H int
}

// String formats the size as "WxH".
func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Request describes an optional sub-region. A nil Origin or Size means the
// parameter was not supplied.
type Request struct {
	Origin *tiles.Coord
	Size   *Size

	// Strict rejects a request that has exactly one of Origin and Size
	// instead of falling back to the full extent.
	Strict bool
}

// Partial reports whether exactly one of Origin and Size is set.
func (q Request) Partial() bool {
	return (q.Origin == nil) != (q.Size == nil)
}

// Extent returns the bounding box of every coordinate in m.
// An empty map has no extent and yields EMPTY_DATASET.
func Extent(m tiles.Map) (Region, error) {
	if len(m) == 0 {
		return Region{}, errors.New(errors.ErrCodeEmptyDataset, "no tiles to compute bounds from")
	}

	first := true
	var r Region
	for c := range m {
		if first {
			r = Region{MinX: c.X, MaxX: c.X, MinY: c.Y, MaxY: c.Y}
			first = false
			continue
		}
		r.MinX = min(r.MinX, c.X)
		r.MaxX = max(r.MaxX, c.X)
		r.MinY = min(r.MinY, c.Y)
		r.MaxY = max(r.MaxY, c.Y)
	}
	return r, nil
}

// Center returns the size.W by size.H region around origin.
//
// An odd dimension n extends n/2 tiles to each side of the origin. An even
// dimension extends n/2 tiles below/left and n/2-1 above/right, so the extra
// tile always lands on the lower side. Existing outputs depend on this bias.
func Center(origin tiles.Coord, size Size) Region {
	minX := origin.X - size.W/2
	minY := origin.Y - size.H/2
	return Region{
		MinX: minX,
		MaxX: minX + size.W - 1,
		MinY: minY,
		MaxY: minY + size.H - 1,
	}
}

// Resolve picks the region to render.
//
//   - neither origin nor size: the extent of m
//   - both: Center(origin, size)
//   - exactly one: the extent of m, ignoring the supplied parameter, unless
//     q.Strict is set in which case INVALID_INPUT is returned
//
// A region whose bounds would overflow int, or that has more than MaxCells
// cells, is rejected with INVALID_INPUT.
//
// Callers that want to warn about the partial case check q.Partial().
func Resolve(m tiles.Map, q Request) (Region, error) {
	if q.Size != nil && (q.Size.W < 1 || q.Size.H < 1) {
		return Region{}, errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %s", q.Size)
	}

	var (
		r   Region
		err error
	)
	switch {
	case q.Origin != nil && q.Size != nil:
		if !fits(q.Origin.X, q.Size.W) || !fits(q.Origin.Y, q.Size.H) {
			return Region{}, errors.New(errors.ErrCodeInvalidInput,
				"region of size %s around %v is out of range", q.Size, *q.Origin)
		}
		r = Center(*q.Origin, *q.Size)
	case q.Partial() && q.Strict:
		return Region{}, errors.New(errors.ErrCodeInvalidInput, "origin and size must be given together")
	default:
		if r, err = Extent(m); err != nil {
			return Region{}, err
		}
	}
	if err := checkCells(r); err != nil {
		return Region{}, err
	}
	return r, nil
}

// fits reports whether Center can place n tiles around origin on one axis
// without overflowing int.
func fits(origin, n int) bool {
	half := n / 2
	if origin < math.MinInt+half {
		return false
	}
	return origin-half <= math.MaxInt-(n-1)
}

// checkCells rejects regions with more than MaxCells cells. Spans are
// computed unsigned so that extreme tile coordinates cannot overflow.
func checkCells(r Region) error {
	spanX := uint64(r.MaxX) - uint64(r.MinX) // columns - 1
	spanY := uint64(r.MaxY) - uint64(r.MinY) // rows - 1
	if spanX >= MaxCells || spanY >= MaxCells || (spanX+1)*(spanY+1) > MaxCells {
		return errors.New(errors.ErrCodeInvalidInput,
			"region %s has more than %d cells", r, MaxCells)
	}
	return nil
}
