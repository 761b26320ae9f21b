package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/montage"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, used, unknown, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != "" {
		t.Errorf("used = %q, want none", used)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown = %v, want none", unknown)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigExplicit(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
compositor    = "builtin"
source_ext    = "webp"
output_ext    = "png"
check_exit    = true
strict_region = true
workers       = 8
`)

	cfg, used, _, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}

	want := config{
		Compositor:   compositorBuiltin,
		Command:      montage.DefaultCommand,
		SourceExt:    "webp",
		OutputExt:    "png",
		CheckExit:    true,
		StrictRegion: true,
		Workers:      8,
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigLookupOrder(t *testing.T) {
	work := t.TempDir()
	xdg := t.TempDir()
	t.Chdir(work)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if err := os.MkdirAll(filepath.Join(xdg, appName), 0755); err != nil {
		t.Fatal(err)
	}
	xdgPath := writeConfig(t, filepath.Join(xdg, appName), `output_ext = "tif"`)

	cfg, used, _, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != xdgPath || cfg.OutputExt != "tif" {
		t.Errorf("used = %q (output_ext %q), want XDG config", used, cfg.OutputExt)
	}

	if err := os.WriteFile(filepath.Join(work, configFileName), []byte(`output_ext = "png"`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, used, _, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != configFileName || cfg.OutputExt != "png" {
		t.Errorf("used = %q (output_ext %q), want working directory config", used, cfg.OutputExt)
	}
}

func TestLoadConfigUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
output_ext = "png"
filler     = "other.png"
`)

	_, _, unknown, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if len(unknown) != 1 || unknown[0] != "filler" {
		t.Errorf("unknown = %v, want [filler]", unknown)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `output_ext = `, errors.ErrCodeInvalidConfig},
		{"wrong type", `workers = "many"`, errors.ErrCodeInvalidConfig},
		{"bad compositor", `compositor = "gimp"`, errors.ErrCodeInvalidConfig},
		{"bad command", `command = "montage; rm -rf"`, errors.ErrCodeInvalidConfig},
		{"bad extension", `output_ext = "p/ng"`, errors.ErrCodeInvalidExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, _, _, err := loadConfig(path)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	_, _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}

func TestNewCompositor(t *testing.T) {
	cfg := defaultConfig()
	c, err := cfg.newCompositor()
	if err != nil {
		t.Fatalf("newCompositor() error: %v", err)
	}
	if c.Name() != montage.DefaultCommand {
		t.Errorf("Name() = %q, want %q", c.Name(), montage.DefaultCommand)
	}

	cfg.Compositor = compositorBuiltin
	c, err = cfg.newCompositor()
	if err != nil {
		t.Fatalf("newCompositor() error: %v", err)
	}
	if c.Name() != montage.BuiltinName {
		t.Errorf("Name() = %q, want %q", c.Name(), montage.BuiltinName)
	}

	cfg.Compositor = "other"
	if _, err := cfg.newCompositor(); err == nil {
		t.Error("newCompositor() should reject unknown compositor")
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-config", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}

func TestConfigDirDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".config", appName)) {
		t.Errorf("configDir() = %q, want ~/.config/%s", dir, appName)
	}
}
