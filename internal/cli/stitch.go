package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilestitch/pkg/observability"
	"github.com/matzehuels/tilestitch/pkg/pipeline"
)

// stitchOpts holds the command-line flags for stitching.
type stitchOpts struct {
	dir          string // -d/--dir, overrides the positional argument
	origin       string // "<x>x<y>" center of the region
	size         string // "<w>x<h>" region size in tiles
	ext          string // output image extension
	sourceExt    string // tile extension
	compositor   string // "montage" or "builtin"
	command      string // external compositor executable
	configPath   string // explicit TOML config file
	dryRun       bool   // print the command instead of running it
	strictRegion bool   // reject a lone origin or size
	checkExit    bool   // fail when the compositor fails
}

// stitchCommand creates the command that assembles a tile directory into one
// image.
func (c *CLI) stitchCommand() *cobra.Command {
	var opts stitchOpts

	cmd := &cobra.Command{
		Use:   "tilestitch [dir_path]",
		Short: "Assemble a directory of map tiles into a single image",
		Long: `tilestitch assembles tiles named tile_<x>_<y>.jpg into one composite image.

Tiles are laid out row by row, y ascending top to bottom and x ascending left
to right. Coordinates without a tile are filled with bl.png. The output is
written to <last segment of dir_path>.<ext> in the current directory.

By default the whole extent of the tiles is rendered. With --origin and --size
only a region centered on the origin is rendered; for an even size the extra
tile goes to the lower/left side. Giving only one of --origin and --size falls
back to the whole extent with a warning (or fails with --strict-region).`,
		Example: `  tilestitch ./s1zoom_4
  tilestitch -d ./s1zoom_4 -o 12x-3 -s 5x5 -e png
  tilestitch --compositor builtin --dry-run tiles/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dir == "" && len(args) == 1 {
				opts.dir = args[0]
			}
			cfg, err := c.resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runStitch(cmd.Context(), &opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "tile directory (overrides dir_path, default "+pipeline.DefaultDir+")")
	cmd.Flags().StringVarP(&opts.origin, "origin", "o", "", "region center as <x>x<y> (signed integers)")
	cmd.Flags().StringVarP(&opts.size, "size", "s", "", "region size as <w>x<h> (positive integers)")
	cmd.Flags().StringVarP(&opts.ext, "ext", "e", pipeline.DefaultOutputExt, "output image extension")
	cmd.Flags().StringVar(&opts.sourceExt, "source-ext", "", "tile file extension (default from config, else jpg)")
	cmd.Flags().StringVar(&opts.compositor, "compositor", "", "compositor: montage (default), builtin")
	cmd.Flags().StringVar(&opts.command, "command", "", "external compositor executable (default montage)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ./"+configFileName+", then ~/.config/"+appName+"/config.toml)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the compositor command without running it")
	cmd.Flags().BoolVar(&opts.strictRegion, "strict-region", false, "fail if only one of --origin and --size is given")
	cmd.Flags().BoolVar(&opts.checkExit, "check-exit", false, "fail if the compositor exits non-zero or is missing")

	return cmd
}

// resolveConfig loads the config file and lets explicitly set flags win.
func (c *CLI) resolveConfig(cmd *cobra.Command, opts *stitchOpts) (config, error) {
	logger := loggerFromContext(cmd.Context())

	cfg, used, unknown, err := loadConfig(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if used != "" {
		logger.Debug("loaded config", "path", used)
	}
	for _, k := range unknown {
		logger.Warn("unknown config key", "key", k, "path", used)
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		cfg.OutputExt = opts.ext
	}
	if flags.Changed("source-ext") {
		cfg.SourceExt = opts.sourceExt
	}
	if flags.Changed("compositor") {
		cfg.Compositor = opts.compositor
	}
	if flags.Changed("command") {
		cfg.Command = opts.command
	}
	if flags.Changed("strict-region") {
		cfg.StrictRegion = opts.strictRegion
	}
	if flags.Changed("check-exit") {
		cfg.CheckExit = opts.checkExit
	}
	return cfg, cfg.validate()
}

// runStitch parses the region flags and runs the pipeline.
func (c *CLI) runStitch(ctx context.Context, opts *stitchOpts, cfg config) error {
	logger := loggerFromContext(ctx)

	origin, err := parseOrigin(opts.origin)
	if err != nil {
		return err
	}
	size, err := parseSize(opts.size)
	if err != nil {
		return err
	}

	compositor, err := cfg.newCompositor()
	if err != nil {
		return err
	}

	if !opts.dryRun && !c.verbose() {
		observability.SetPipelineHooks(&spinnerHooks{})
		defer observability.Reset()
	}

	prog := newProgress(logger)
	runner := pipeline.NewRunner(compositor, logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Dir:          opts.dir,
		SourceExt:    cfg.SourceExt,
		OutputExt:    cfg.OutputExt,
		Origin:       origin,
		Size:         size,
		StrictRegion: cfg.StrictRegion,
		CheckExit:    cfg.CheckExit,
		DryRun:       opts.dryRun,
	})
	if err != nil {
		return err
	}

	cmd := result.Command
	if !result.Executed {
		printCommand(cmd.Line(result.Compositor))
		printStats(result.TileCount, cmd.Columns, cmd.Rows, result.Missing)
		printDetail("region %s", result.Region)
		return nil
	}

	if !result.Status.OK() {
		printWarning("%s exited with status %d; %s may be missing or incomplete", result.Compositor, result.Status, cmd.Output)
		return nil
	}

	prog.done("stitched", "output", cmd.Output, "grid", cmd.TileArg())
	printSuccess("Stitched %d tiles", result.TileCount)
	printStats(result.TileCount, cmd.Columns, cmd.Rows, result.Missing)
	printFile(cmd.Output)
	return nil
}

// spinnerHooks shows a spinner while the compositor runs.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
}

func (h *spinnerHooks) OnCompositeStart(ctx context.Context, compositor string, cells int) {
	h.spinner = newSpinner(ctx, os.Stderr, fmt.Sprintf("Compositing %d cells with %s...", cells, compositor))
	h.spinner.Start()
}

func (h *spinnerHooks) OnCompositeComplete(context.Context, string, int, time.Duration, error) {
	if h.spinner == nil {
		return
	}
	h.spinner.Stop()
	if h.spinner.Interrupted() {
		printWarning("compositing interrupted")
	}
	h.spinner = nil
}
