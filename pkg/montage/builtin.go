package montage

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"runtime"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP tiles with image.Decode
	"golang.org/x/sync/errgroup"

	cerrors "github.com/matzehuels/tilestitch/pkg/errors"
)

// BuiltinName is the Name of BuiltinCompositor.
const BuiltinName = "builtin"

// jpegQuality matches what montage produces for JPEG output by default.
const jpegQuality = 95

// BuiltinCompositor lays out the grid in process instead of running an
// external program.
//
// Every cell is as large as the largest input. Inputs are pasted centered in
// their cell without scaling on a white background, which is what montage
// does for "-geometry +0+0". The output format follows the output extension.
type BuiltinCompositor struct {
	// Workers bounds how many distinct inputs are decoded at once.
	// Zero or less means GOMAXPROCS.
	Workers int

	// Stderr receives failure messages, as an external tool would print
	// them. Defaults to os.Stderr.
	Stderr io.Writer
}

// NewBuiltinCompositor returns a BuiltinCompositor decoding with the given
// parallelism.
func NewBuiltinCompositor(workers int) *BuiltinCompositor {
	return &BuiltinCompositor{Workers: workers}
}

// Name returns BuiltinName.
func (b *BuiltinCompositor) Name() string { return BuiltinName }

// Composite decodes every input, pastes it into the grid and saves the
// output. Unreadable inputs and encoding failures report StatusFailed, the
// way an external tool would exit non-zero.
func (b *BuiltinCompositor) Composite(ctx context.Context, cmd Command) (ExitStatus, error) {
	if cmd.Columns < 1 || cmd.Rows < 1 || len(cmd.Inputs) != cmd.Columns*cmd.Rows {
		return StatusFailed, cerrors.New(cerrors.ErrCodeInternal,
			"grid %s needs %d inputs, got %d", cmd.TileArg(), cmd.Columns*cmd.Rows, len(cmd.Inputs))
	}

	images, err := b.decode(ctx, cmd.Inputs)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return StatusFailed, ctxErr
	}
	if err != nil {
		b.report(err)
		return StatusFailed, nil
	}

	cellW, cellH := 0, 0
	for _, img := range images {
		cellW = max(cellW, img.Bounds().Dx())
		cellH = max(cellH, img.Bounds().Dy())
	}

	canvas := imaging.New(cmd.Columns*cellW, cmd.Rows*cellH, color.White)
	for i, path := range cmd.Inputs {
		img := images[path]
		col, row := i%cmd.Columns, i/cmd.Columns
		pos := image.Pt(
			col*cellW+(cellW-img.Bounds().Dx())/2,
			row*cellH+(cellH-img.Bounds().Dy())/2,
		)
		canvas = imaging.Paste(canvas, img, pos)
	}

	if err := imaging.Save(canvas, cmd.Output, imaging.JPEGQuality(jpegQuality)); err != nil {
		b.report(cerrors.Wrap(cerrors.ErrCodeCompositorFailed, err, "save %s", cmd.Output))
		return StatusFailed, nil
	}
	return StatusOK, nil
}

func (b *BuiltinCompositor) report(err error) {
	w := b.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s: %v\n", BuiltinName, err)
}

// decode opens each distinct path once; the filler usually repeats.
func (b *BuiltinCompositor) decode(ctx context.Context, paths []string) (map[string]image.Image, error) {
	unique := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}

	decoded := make([]image.Image, len(unique))
	g, ctx := errgroup.WithContext(ctx)
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, p := range unique {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Open(p, imaging.AutoOrientation(true))
			if err != nil {
				return cerrors.Wrap(cerrors.ErrCodeCompositorFailed, err, "open %s", p)
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]image.Image, len(unique))
	for i, p := range unique {
		out[p] = decoded[i]
	}
	return out, nil
}

// Ensure BuiltinCompositor implements Compositor.
var _ Compositor = (*BuiltinCompositor)(nil)
