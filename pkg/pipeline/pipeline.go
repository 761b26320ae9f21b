// Package pipeline runs the tile stitching stages end to end.
//
// The pipeline consists of four stages, each a plain function of its inputs:
//
//  1. Discover: list the tile directory into a tiles.Map
//  2. Resolve: choose the region.Region to render
//  3. Build: walk the region into a montage.Command
//  4. Composite: hand the command to a montage.Compositor and wait
//
// # Usage
//
//	runner := pipeline.NewRunner(montage.NewExecCompositor("montage"), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dir:       "./s1zoom_4",
//	    OutputExt: "png",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Command.Output, result.Status)
//
// Fatal errors (unreadable directory, corrupt tile name, empty dataset,
// invalid options) abort before any command is built. A compositor that
// fails is reported through Result.Status and a warning; it becomes an
// error only with Options.CheckExit.
package pipeline

import (
	"time"

	"github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/montage"
	"github.com/matzehuels/tilestitch/pkg/region"
	"github.com/matzehuels/tilestitch/pkg/tiles"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDir is the tile directory used when none is given.
	DefaultDir = "./s1zoom_4"

	// DefaultOutputExt is the extension of the composite image.
	DefaultOutputExt = "jpg"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one stitching run.
type Options struct {
	// Discovery
	Dir       string // Tile directory; trailing separators are ignored
	SourceExt string // Tile extension, default tiles.DefaultExt

	// Region
	Origin       *tiles.Coord // Center of the requested region (optional)
	Size         *region.Size // Requested region size in tiles (optional)
	StrictRegion bool         // Reject a lone origin or size

	// Output
	OutputExt string // Composite image extension, default DefaultOutputExt
	Filler    string // Placeholder for missing tiles, default montage.DefaultFiller

	// Execution
	DryRun    bool // Build the command but do not run it
	CheckExit bool // Treat a failed compositor run as an error
}

// ValidateAndSetDefaults fills zero values with defaults and validates the
// rest. It returns INVALID_INPUT or INVALID_EXTENSION errors.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.SourceExt == "" {
		o.SourceExt = tiles.DefaultExt
	}
	if o.OutputExt == "" {
		o.OutputExt = DefaultOutputExt
	}
	if o.Filler == "" {
		o.Filler = montage.DefaultFiller
	}

	if err := errors.ValidateDirPath(o.Dir); err != nil {
		return err
	}
	if err := errors.ValidateExtension(o.SourceExt); err != nil {
		return err
	}
	if err := errors.ValidateExtension(o.OutputExt); err != nil {
		return err
	}
	if o.Size != nil && (o.Size.W < 1 || o.Size.H < 1) {
		return errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %s", o.Size)
	}
	return nil
}

// RegionRequest returns the region request described by o.
func (o Options) RegionRequest() region.Request {
	return region.Request{Origin: o.Origin, Size: o.Size, Strict: o.StrictRegion}
}

// OutputPath returns the composite image path for o.
func (o Options) OutputPath() string {
	return montage.OutputPath(o.Dir, o.OutputExt)
}

// =============================================================================
// Result
// =============================================================================

// Result describes a finished run.
type Result struct {
	RunID      string             // Unique identifier, also attached to log lines
	TileCount  int                // Tiles discovered
	Region     region.Region      // Resolved region
	Partial    bool               // Only one of origin and size was given
	Missing    int                // Cells filled with the placeholder
	Command    montage.Command    // Command handed to the compositor
	Compositor string             // Compositor name
	Executed   bool               // False for dry runs
	Status     montage.ExitStatus // Compositor exit status, meaningful if Executed
	Stats      Stats
}

// Stats records stage timings.
type Stats struct {
	DiscoverTime  time.Duration
	CompositeTime time.Duration
}
