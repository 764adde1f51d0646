package router_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/logrouter/router"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := router.NewConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Color)
	assert.Equal(t, 32768, cfg.MaxMessageLength)
	assert.Equal(t, 500, cfg.MaxMessageLines)
	assert.Equal(t, 4096, cfg.MaxLineLength)
	assert.Equal(t, 64, cfg.MaxHandlesPerCall)
	assert.Equal(t, 15, cfg.ColorizeBudgetMS)
	assert.Equal(t, int64(10<<20), cfg.MaxHTMLDocumentBytes)
	assert.Equal(t, 256, cfg.MaxHTMLTitleLength)
	assert.Equal(t, 200, cfg.MaxWritesPerSecond)
	assert.Equal(t, 1, cfg.ThrottleWindowSeconds)
	assert.Equal(t, int64(200<<20), cfg.MaxFileSizeBytes)

	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		mutate      func(cfg *router.Config)
		expectError bool
	}{
		"defaults":            {mutate: func(cfg *router.Config) {}},
		"uppercase level":     {mutate: func(cfg *router.Config) { cfg.Level = "DEBUG" }},
		"unknown level":       {mutate: func(cfg *router.Config) { cfg.Level = "trace" }, expectError: true},
		"zero line length":    {mutate: func(cfg *router.Config) { cfg.MaxLineLength = 0 }, expectError: true},
		"negative throttle":   {mutate: func(cfg *router.Config) { cfg.MaxWritesPerSecond = -1 }, expectError: true},
		"zero document bytes": {mutate: func(cfg *router.Config) { cfg.MaxHTMLDocumentBytes = 0 }, expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := router.NewConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.expectError {
				require.ErrorIs(t, err, router.ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := router.NewConfig()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)

	err := flags.Parse([]string{"--level=debug", "--color=false", "--max-line-length=120"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.False(t, cfg.Color)
	assert.Equal(t, 120, cfg.MaxLineLength)
	assert.Equal(t, 500, cfg.MaxMessageLines, "unset flags keep their defaults")
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	path := filepath.Join(dir, "logrouter.yaml")

	content := `level: debug
color: false
max_line_length: 100
files:
  - handle: app
    path: ` + filepath.Join(dir, "app.log") + `
html_files:
  - handle: web
    path: ` + filepath.Join(dir, "log.html") + `
    title: Service Log
    theme: light
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := router.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.False(t, cfg.Color)
	assert.Equal(t, 100, cfg.MaxLineLength)
	assert.Equal(t, 32768, cfg.MaxMessageLength, "unset keys keep their defaults")

	require.Len(t, cfg.Files, 1)
	assert.Equal(t, "app", cfg.Files[0].Handle)

	require.Len(t, cfg.HTMLFiles, 1)
	assert.Equal(t, "Service Log", cfg.HTMLFiles[0].Title)
	assert.Equal(t, "light", cfg.HTMLFiles[0].Theme)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := router.LoadConfig(filepath.Join(tempDir(t), "absent.yaml"))
	require.Error(t, err)
}

func TestConfigNewRouterRegistersDeclaredFacilities(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)

	cfg := router.NewConfig()
	cfg.Files = []router.FileConfig{
		{Handle: "app", Path: filepath.Join(dir, "app.log")},
	}
	cfg.HTMLFiles = []router.HTMLFileConfig{
		{Handle: "web", Path: filepath.Join(dir, "log.html"), Title: "Service Log"},
	}

	r, err := cfg.NewRouter()
	require.NoError(t, err)

	assert.Equal(t, []string{"console", "app", "web"}, r.Handles())
	require.FileExists(t, filepath.Join(dir, "app.log"))
	require.FileExists(t, filepath.Join(dir, "log.html"))
}

func TestConfigNewRouterPropagatesRegistrationErrors(t *testing.T) {
	t.Parallel()

	cfg := router.NewConfig()
	cfg.Files = []router.FileConfig{
		{Handle: "console", Path: filepath.Join(tempDir(t), "app.log")},
	}

	_, err := cfg.NewRouter()
	require.ErrorIs(t, err, router.ErrReservedHandle)
}
