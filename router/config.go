package router

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/logrouter/record"
)

// ErrInvalidConfig indicates a configuration value failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default limits applied by [NewConfig].
const (
	DefaultMaxMessageLength      = 32768
	DefaultMaxMessageLines       = 500
	DefaultMaxLineLength         = 4096
	DefaultMaxHandlesPerCall     = 64
	DefaultColorizeBudgetMS      = 15
	DefaultMaxHTMLDocumentBytes  = 10 << 20
	DefaultMaxHTMLTitleLength    = 256
	DefaultMaxWritesPerSecond    = 200
	DefaultThrottleWindowSeconds = 1
	DefaultMaxFileSizeBytes      = 200 << 20
)

// Flags holds CLI flag names for router configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Level                 string
	Color                 string
	MaxMessageLength      string
	MaxMessageLines       string
	MaxLineLength         string
	MaxHandlesPerCall     string
	ColorizeBudgetMS      string
	MaxHTMLDocumentBytes  string
	MaxHTMLTitleLength    string
	MaxWritesPerSecond    string
	ThrottleWindowSeconds string
	MaxFileSizeBytes      string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Level:                 strings.ToLower(string(record.LevelInfo)),
		Color:                 true,
		MaxMessageLength:      DefaultMaxMessageLength,
		MaxMessageLines:       DefaultMaxMessageLines,
		MaxLineLength:         DefaultMaxLineLength,
		MaxHandlesPerCall:     DefaultMaxHandlesPerCall,
		ColorizeBudgetMS:      DefaultColorizeBudgetMS,
		MaxHTMLDocumentBytes:  DefaultMaxHTMLDocumentBytes,
		MaxHTMLTitleLength:    DefaultMaxHTMLTitleLength,
		MaxWritesPerSecond:    DefaultMaxWritesPerSecond,
		ThrottleWindowSeconds: DefaultThrottleWindowSeconds,
		MaxFileSizeBytes:      DefaultMaxFileSizeBytes,
		Flags:                 f,
	}
}

// FileConfig declares a plain-text file facility to be registered by
// [Config.NewRouter].
type FileConfig struct {
	Handle          string `json:"handle"                      yaml:"handle"`
	Path            string `json:"path"                        yaml:"path"`
	RotateOnStart   bool   `json:"rotate_on_start,omitempty"   yaml:"rotate_on_start,omitempty"`
	RotationsToKeep int    `json:"rotations_to_keep,omitempty" yaml:"rotations_to_keep,omitempty"`
}

// HTMLFileConfig declares an HTML file facility to be registered by
// [Config.NewRouter].
type HTMLFileConfig struct {
	Handle          string `json:"handle"                      yaml:"handle"`
	Path            string `json:"path"                        yaml:"path"`
	Title           string `json:"title"                       yaml:"title"`
	Theme           string `json:"theme,omitempty"             yaml:"theme,omitempty"`
	AutoRefresh     bool   `json:"auto_refresh,omitempty"      yaml:"auto_refresh,omitempty"`
	RefreshSeconds  int    `json:"refresh_seconds,omitempty"   yaml:"refresh_seconds,omitempty"`
	RotateOnStart   bool   `json:"rotate_on_start,omitempty"   yaml:"rotate_on_start,omitempty"`
	RotationsToKeep int    `json:"rotations_to_keep,omitempty" yaml:"rotations_to_keep,omitempty"`
}

// Config holds router limits and facility declarations.
//
// Create instances with [NewConfig] or [LoadConfig] and register CLI flags
// with [Config.RegisterFlags]. Use [Config.NewRouter] to create a [Router]
// with all declared facilities registered.
type Config struct {
	Level                 string           `json:"level"                   yaml:"level"`
	Color                 bool             `json:"color"                   yaml:"color"`
	MaxMessageLength      int              `json:"max_message_length"      yaml:"max_message_length"`
	MaxMessageLines       int              `json:"max_message_lines"       yaml:"max_message_lines"`
	MaxLineLength         int              `json:"max_line_length"         yaml:"max_line_length"`
	MaxHandlesPerCall     int              `json:"max_handles_per_call"    yaml:"max_handles_per_call"`
	ColorizeBudgetMS      int              `json:"colorize_budget_ms"      yaml:"colorize_budget_ms"`
	MaxHTMLDocumentBytes  int64            `json:"max_html_document_bytes" yaml:"max_html_document_bytes"`
	MaxHTMLTitleLength    int              `json:"max_html_title_length"   yaml:"max_html_title_length"`
	MaxWritesPerSecond    int              `json:"max_writes_per_second"   yaml:"max_writes_per_second"`
	ThrottleWindowSeconds int              `json:"throttle_window_seconds" yaml:"throttle_window_seconds"`
	MaxFileSizeBytes      int64            `json:"max_file_size_bytes"     yaml:"max_file_size_bytes"`
	Files                 []FileConfig     `json:"files,omitempty"         yaml:"files,omitempty"`
	HTMLFiles             []HTMLFileConfig `json:"html_files,omitempty"    yaml:"html_files,omitempty"`
	Flags                 Flags            `json:"-"                       yaml:"-"`
}

// NewConfig returns a new [Config] with default limits and flag names.
func NewConfig() *Config {
	f := Flags{
		Level:                 "level",
		Color:                 "color",
		MaxMessageLength:      "max-message-length",
		MaxMessageLines:       "max-message-lines",
		MaxLineLength:         "max-line-length",
		MaxHandlesPerCall:     "max-handles-per-call",
		ColorizeBudgetMS:      "colorize-budget-ms",
		MaxHTMLDocumentBytes:  "max-html-document-bytes",
		MaxHTMLTitleLength:    "max-html-title-length",
		MaxWritesPerSecond:    "max-writes-per-second",
		ThrottleWindowSeconds: "throttle-window-seconds",
		MaxFileSizeBytes:      "max-file-size-bytes",
	}

	return f.NewConfig()
}

// LoadConfig reads a YAML config file on top of the defaults from
// [NewConfig].
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	return cfg, nil
}

// RegisterFlags adds router flags to the given [*pflag.FlagSet], using the
// current field values as flag defaults.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, c.Level,
		fmt.Sprintf("minimum log level, one of: %s", record.GetAllLevelStrings()))
	flags.BoolVar(&c.Color, c.Flags.Color, c.Color,
		"enable ANSI color on console output")
	flags.IntVar(&c.MaxMessageLength, c.Flags.MaxMessageLength, c.MaxMessageLength,
		"maximum message length in runes before clipping")
	flags.IntVar(&c.MaxMessageLines, c.Flags.MaxMessageLines, c.MaxMessageLines,
		"maximum lines per message before dropping the remainder")
	flags.IntVar(&c.MaxLineLength, c.Flags.MaxLineLength, c.MaxLineLength,
		"maximum line length in runes before clipping")
	flags.IntVar(&c.MaxHandlesPerCall, c.Flags.MaxHandlesPerCall, c.MaxHandlesPerCall,
		"maximum explicit facility handles per log call")
	flags.IntVar(&c.ColorizeBudgetMS, c.Flags.ColorizeBudgetMS, c.ColorizeBudgetMS,
		"wall-clock budget in milliseconds for colorizing one line")
	flags.Int64Var(&c.MaxHTMLDocumentBytes, c.Flags.MaxHTMLDocumentBytes, c.MaxHTMLDocumentBytes,
		"maximum HTML log document size in bytes")
	flags.IntVar(&c.MaxHTMLTitleLength, c.Flags.MaxHTMLTitleLength, c.MaxHTMLTitleLength,
		"maximum HTML document title length")
	flags.IntVar(&c.MaxWritesPerSecond, c.Flags.MaxWritesPerSecond, c.MaxWritesPerSecond,
		"maximum facility writes admitted per throttle window")
	flags.IntVar(&c.ThrottleWindowSeconds, c.Flags.ThrottleWindowSeconds, c.ThrottleWindowSeconds,
		"throttle window length in seconds")
	flags.Int64Var(&c.MaxFileSizeBytes, c.Flags.MaxFileSizeBytes, c.MaxFileSizeBytes,
		"maximum plain-text log file size in bytes before rotation")
}

// RegisterCompletions registers shell completions for router flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(record.GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering level completion: %w", err)
	}

	return nil
}

// Validate checks the level string and requires every limit to be positive.
func (c *Config) Validate() error {
	_, err := record.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("%w: level: %w", ErrInvalidConfig, err)
	}

	limits := []struct {
		name  string
		value int64
	}{
		{"max_message_length", int64(c.MaxMessageLength)},
		{"max_message_lines", int64(c.MaxMessageLines)},
		{"max_line_length", int64(c.MaxLineLength)},
		{"max_handles_per_call", int64(c.MaxHandlesPerCall)},
		{"colorize_budget_ms", int64(c.ColorizeBudgetMS)},
		{"max_html_document_bytes", c.MaxHTMLDocumentBytes},
		{"max_html_title_length", int64(c.MaxHTMLTitleLength)},
		{"max_writes_per_second", int64(c.MaxWritesPerSecond)},
		{"throttle_window_seconds", int64(c.ThrottleWindowSeconds)},
		{"max_file_size_bytes", c.MaxFileSizeBytes},
	}
	for _, limit := range limits {
		if limit.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0", ErrInvalidConfig, limit.name)
		}
	}

	return nil
}

// NewRouter creates a [Router] from c and registers every declared file and
// HTML facility.
func (c *Config) NewRouter(opts ...Option) (*Router, error) {
	r, err := NewRouter(c, opts...)
	if err != nil {
		return nil, err
	}

	for _, fc := range c.Files {
		_, err = r.AddLogFile(fc.Handle, fc.Path, fc.RotateOnStart, fc.RotationsToKeep)
		if err != nil {
			return nil, fmt.Errorf("registering file facility %q: %w", fc.Handle, err)
		}
	}

	for _, hc := range c.HTMLFiles {
		_, err = r.AddHTMLLogFile(hc.Handle, hc.Path, hc.Title, HTMLFileOptions{
			Theme:           hc.Theme,
			AutoRefresh:     hc.AutoRefresh,
			RefreshSeconds:  hc.RefreshSeconds,
			RotateOnStart:   hc.RotateOnStart,
			RotationsToKeep: hc.RotationsToKeep,
		})
		if err != nil {
			return nil, fmt.Errorf("registering HTML facility %q: %w", hc.Handle, err)
		}
	}

	return r, nil
}
