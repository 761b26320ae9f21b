package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/montage"
	"github.com/matzehuels/tilestitch/pkg/observability"
	"github.com/matzehuels/tilestitch/pkg/region"
	"github.com/matzehuels/tilestitch/pkg/tiles"
)

// Runner executes the pipeline against a compositor.
//
// The Runner holds no per-run state; a run's data lives in its Result.
type Runner struct {
	Compositor montage.Compositor
	Logger     *log.Logger
}

// NewRunner creates a runner. A nil compositor runs the external montage
// program; a nil logger uses log.Default().
func NewRunner(c montage.Compositor, logger *log.Logger) *Runner {
	if c == nil {
		c = montage.NewExecCompositor(montage.DefaultCommand)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Compositor: c, Logger: logger}
}

// Execute runs discover → resolve → build → composite.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:      uuid.NewString(),
		Compositor: r.Compositor.Name(),
	}
	run := &Runner{Compositor: r.Compositor, Logger: r.Logger.With("run", result.RunID)}

	// Stage 1: Discover
	start := time.Now()
	m, err := run.Discover(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	result.TileCount = len(m)
	result.Stats.DiscoverTime = time.Since(start)

	// Stage 2: Resolve
	reg, err := run.Resolve(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Region = reg
	result.Partial = opts.RegionRequest().Partial()

	// Stage 3: Build
	cmd, missing := run.Build(m, reg, opts)
	result.Command = cmd
	result.Missing = missing
	observability.Pipeline().OnResolve(ctx, reg.Columns(), reg.Rows(), missing, result.Partial)

	run.Logger.Info("compositor command", "command", cmd.Line(result.Compositor))

	if opts.DryRun {
		return result, nil
	}

	// Stage 4: Composite
	start = time.Now()
	status, err := run.Composite(ctx, cmd, opts)
	result.Stats.CompositeTime = time.Since(start)
	result.Executed = true
	result.Status = status
	if err != nil {
		return result, err
	}

	run.Logger.Info("composited image",
		"output", cmd.Output,
		"grid", cmd.TileArg(),
		"duration", result.Stats.CompositeTime)
	return result, nil
}

// Discover lists opts.Dir into a tile map.
func (r *Runner) Discover(ctx context.Context, opts Options) (tiles.Map, error) {
	hooks := observability.Pipeline()
	hooks.OnDiscoverStart(ctx, opts.Dir)
	start := time.Now()

	m, err := tiles.Discover(opts.Dir, tiles.Options{Ext: opts.SourceExt})
	hooks.OnDiscoverComplete(ctx, opts.Dir, len(m), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("discovered tiles", "dir", tiles.NormalizeDir(opts.Dir), "tiles", len(m))
	return m, nil
}

// Resolve picks the region to render, warning when only one of origin and
// size was supplied and the full extent is used instead.
func (r *Runner) Resolve(ctx context.Context, m tiles.Map, opts Options) (region.Region, error) {
	req := opts.RegionRequest()
	reg, err := region.Resolve(m, req)
	if err != nil {
		return region.Region{}, err
	}

	if req.Partial() {
		r.Logger.Warn("origin and size should be given together; results may be unreliable, using full tile extent",
			"origin", req.Origin, "size", req.Size)
	}

	r.Logger.Info("grid bounds",
		"min_x", reg.MinX, "max_x", reg.MaxX,
		"min_y", reg.MinY, "max_y", reg.MaxY,
		"grid", fmt.Sprintf("%dx%d", reg.Columns(), reg.Rows()))
	return reg, nil
}

// Build walks reg over m into a compositor command and returns it with the
// number of cells that fell back to the filler.
func (r *Runner) Build(m tiles.Map, reg region.Region, opts Options) (montage.Command, int) {
	cmd := montage.Command{
		Inputs:  make([]string, 0, reg.Cells()),
		Columns: reg.Columns(),
		Rows:    reg.Rows(),
		Output:  opts.OutputPath(),
	}
	missing := 0
	montage.Walk(m, reg, opts.Filler, func(p montage.Placement) {
		if p.Filler {
			missing++
		}
		r.Logger.Debug("placing tile", "at", p.Coord, "path", p.Path, "filler", p.Filler)
		cmd.Inputs = append(cmd.Inputs, p.Path)
	})
	return cmd, missing
}

// Composite runs cmd and waits for it.
//
// Cancellation is always returned as an error. Any other failure, whether
// the tool could not be started or exited non-zero, is logged as a warning
// and only returned when opts.CheckExit is set.
func (r *Runner) Composite(ctx context.Context, cmd montage.Command, opts Options) (montage.ExitStatus, error) {
	name := r.Compositor.Name()
	hooks := observability.Pipeline()
	hooks.OnCompositeStart(ctx, name, len(cmd.Inputs))
	start := time.Now()

	status, err := r.Compositor.Composite(ctx, cmd)
	hooks.OnCompositeComplete(ctx, name, int(status), time.Since(start), err)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return status, ctxErr
	}
	if err == nil && status.OK() {
		return status, nil
	}

	if err == nil {
		err = errors.Wrap(errors.ErrCodeCompositorFailed,
			&errors.ExitError{Command: name, Status: int(status)}, "composite %s", cmd.Output)
	}
	if opts.CheckExit {
		return status, err
	}
	r.Logger.Warn("compositor failed", "compositor", name, "status", int(status), "err", errors.UserMessage(err))
	return status, nil
}
