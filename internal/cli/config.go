package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/montage"
	"github.com/matzehuels/tilestitch/pkg/pipeline"
	"github.com/matzehuels/tilestitch/pkg/tiles"
)

// Compositor backends selectable with --compositor.
const (
	compositorExec    = "montage"
	compositorBuiltin = montage.BuiltinName
)

// defaultWorkers is the decode parallelism of the builtin compositor.
const defaultWorkers = 4

// config holds settings read from a TOML file. Flags override every field.
type config struct {
	Compositor   string `toml:"compositor"`    // "montage" or "builtin"
	Command      string `toml:"command"`       // external compositor executable
	SourceExt    string `toml:"source_ext"`    // tile extension
	OutputExt    string `toml:"output_ext"`    // composite image extension
	CheckExit    bool   `toml:"check_exit"`    // compositor failure is an error
	StrictRegion bool   `toml:"strict_region"` // lone origin/size is an error
	Workers      int    `toml:"workers"`       // builtin decode parallelism
}

// defaultConfig returns the settings used when no file sets them.
func defaultConfig() config {
	return config{
		Compositor: compositorExec,
		Command:    montage.DefaultCommand,
		SourceExt:  tiles.DefaultExt,
		OutputExt:  pipeline.DefaultOutputExt,
		Workers:    defaultWorkers,
	}
}

// configPaths returns the implicit config file locations in lookup order.
func configPaths() []string {
	paths := []string{configFileName}
	if dir, err := configDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.toml"))
	}
	return paths
}

// loadConfig reads the config file at path, or the first implicit location
// that exists when path is empty. It returns the file actually used (empty
// if none) and any keys the file set that are not recognized.
//
// An explicit path that does not exist is an error; missing implicit files
// are not.
func loadConfig(path string) (cfg config, used string, unknown []string, err error) {
	cfg = defaultConfig()

	if path == "" {
		for _, p := range configPaths() {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
				break
			}
		}
		if path == "" {
			return cfg, "", nil, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, path, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}

	if err := cfg.validate(); err != nil {
		return cfg, path, unknown, err
	}
	return cfg, path, unknown, nil
}

// validate checks the values a file may have set.
func (c config) validate() error {
	switch c.Compositor {
	case compositorExec, compositorBuiltin:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid compositor: %s (must be '%s' or '%s')", c.Compositor, compositorExec, compositorBuiltin)
	}
	if err := errors.ValidateCommandName(c.Command); err != nil {
		return err
	}
	if err := errors.ValidateExtension(c.SourceExt); err != nil {
		return err
	}
	return errors.ValidateExtension(c.OutputExt)
}

// newCompositor builds the compositor selected by c.
func (c config) newCompositor() (montage.Compositor, error) {
	switch c.Compositor {
	case compositorBuiltin:
		return montage.NewBuiltinCompositor(c.Workers), nil
	case compositorExec:
		return montage.NewExecCompositor(c.Command), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid compositor: %s", c.Compositor)
	}
}
