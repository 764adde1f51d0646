package router

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.jacobcolvin.com/logrouter/facility"
	"go.jacobcolvin.com/logrouter/pathguard"
	"go.jacobcolvin.com/logrouter/record"
	"go.jacobcolvin.com/logrouter/sanitize"
)

var (
	// ErrReservedHandle indicates an attempt to register the console handle.
	ErrReservedHandle = errors.New("reserved log handle")
	// ErrUnknownHandle indicates a log call named an unregistered facility.
	ErrUnknownHandle = errors.New("unknown log handle")
	// ErrTooManyHandles indicates a log call exceeded the per-call handle cap.
	ErrTooManyHandles = errors.New("too many log handles")
	// ErrInvalidFacilityOption indicates a bad facility registration argument.
	ErrInvalidFacilityOption = errors.New("invalid facility option")
)

// Router fans log messages out to registered facilities. A console facility
// is always present under the reserved handle "console".
//
// All methods are safe for concurrent use; a single mutex serializes
// registration, routing, reconfiguration, and stats.
//
// Create instances with [NewRouter] or [Config.NewRouter].
type Router struct {
	console      *facility.Console
	facilities   map[string]facility.Facility
	throttle     *throttle
	order        []string
	cfg          Config
	level        record.Level
	previewIndex int
	mu           sync.Mutex
}

// Option configures a [Router].
type Option func(*Router)

// WithConsoleStreams redirects console output away from os.Stdout and
// os.Stderr.
func WithConsoleStreams(out, errOut io.Writer) Option {
	return func(r *Router) {
		r.console.SetStreams(out, errOut)
	}
}

// NewRouter creates a router from cfg with only the console facility
// registered. Facility declarations in cfg are ignored here; use
// [Config.NewRouter] to register them as well.
func NewRouter(cfg *Config, opts ...Option) (*Router, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	level, err := record.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	r := &Router{
		cfg:        *cfg,
		level:      level,
		facilities: make(map[string]facility.Facility),
		throttle:   newThrottle(cfg.MaxWritesPerSecond, cfg.ThrottleWindowSeconds),
		console:    facility.NewConsole(cfg.Color, cfg.MaxLineLength, cfg.colorizeBudget()),
	}
	r.register(r.console)

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

func (c *Config) colorizeBudget() time.Duration {
	return time.Duration(c.ColorizeBudgetMS) * time.Millisecond
}

// SetLevel reconfigures the minimum level.
func (r *Router) SetLevel(level string) error {
	parsed, err := record.ParseLevel(level)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.level = parsed

	return nil
}

// SetColor toggles ANSI color on the console facility.
func (r *Router) SetColor(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.console.SetColor(enabled)
}

// AddLogFile registers a plain-text file facility. Validation failures and
// unsafe targets return an error; any other construction failure is reported
// as a console diagnostic and returns false without an error. Registering an
// existing handle replaces its facility.
func (r *Router) AddLogFile(handle, path string, rotateOnStart bool, rotationsToKeep int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := validateFacilityParams(handle, rotationsToKeep)
	if err != nil {
		return false, err
	}

	f, err := facility.NewFile(handle, path, rotateOnStart, rotationsToKeep, r.cfg.MaxFileSizeBytes)
	if err != nil {
		if errors.Is(err, facility.ErrInvalidHandle) || errors.Is(err, pathguard.ErrUnsafeTarget) {
			return false, err
		}

		r.consoleDiagnostic("Failed to initialize file facility '%s' at '%s': %v", handle, path, err)

		return false, nil
	}

	r.register(f)

	return true, nil
}

// HTMLFileOptions are the optional arguments of [Router.AddHTMLLogFile]. The
// zero value means dark theme, no auto-refresh, and no rotation.
type HTMLFileOptions struct {
	Theme           string
	RefreshSeconds  int
	RotationsToKeep int
	AutoRefresh     bool
	RotateOnStart   bool
}

// AddHTMLLogFile registers an HTML document facility. The error contract
// matches [Router.AddLogFile].
func (r *Router) AddHTMLLogFile(handle, path, title string, opts HTMLFileOptions) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := validateFacilityParams(handle, opts.RotationsToKeep)
	if err != nil {
		return false, err
	}

	theme := record.ThemeDark
	if opts.Theme != "" {
		theme, err = record.ParseTheme(opts.Theme)
		if err != nil {
			return false, err
		}
	}

	refreshSeconds := opts.RefreshSeconds
	if refreshSeconds == 0 {
		refreshSeconds = 10
	}

	if refreshSeconds < 0 {
		return false, fmt.Errorf("%w: refresh seconds must be > 0", ErrInvalidFacilityOption)
	}

	if sanitize.RuneLen(title) > r.cfg.MaxHTMLTitleLength {
		return false, fmt.Errorf("%w: title is too long (max %d chars)",
			ErrInvalidFacilityOption, r.cfg.MaxHTMLTitleLength)
	}

	f, err := facility.NewHTMLFile(handle, path, facility.HTMLOptions{
		Title:            title,
		Theme:            theme,
		AutoRefresh:      opts.AutoRefresh,
		RefreshSeconds:   refreshSeconds,
		RotateOnStart:    opts.RotateOnStart,
		RotationsToKeep:  opts.RotationsToKeep,
		MaxLineLength:    r.cfg.MaxLineLength,
		ColorizeBudget:   r.cfg.colorizeBudget(),
		MaxDocumentBytes: r.cfg.MaxHTMLDocumentBytes,
	})
	if err != nil {
		if errors.Is(err, facility.ErrInvalidHandle) || errors.Is(err, pathguard.ErrUnsafeTarget) {
			return false, err
		}

		r.consoleDiagnostic("Failed to initialize HTML facility '%s' at '%s': %v", handle, path, err)

		return false, nil
	}

	r.register(f)

	return true, nil
}

// Debug logs at DEBUG level with INFO nature. No handles means all
// facilities.
func (r *Router) Debug(message string, handles ...string) error {
	return r.Log(message, record.LevelDebug, record.NatureInfo, variadicHandles(handles))
}

// Info logs at INFO level with INFO nature.
func (r *Router) Info(message string, handles ...string) error {
	return r.Log(message, record.LevelInfo, record.NatureInfo, variadicHandles(handles))
}

// Warning logs at INFO level with WARNING nature.
func (r *Router) Warning(message string, handles ...string) error {
	return r.Log(message, record.LevelInfo, record.NatureWarning, variadicHandles(handles))
}

// Error logs at INFO level with ERROR nature.
func (r *Router) Error(message string, handles ...string) error {
	return r.Log(message, record.LevelInfo, record.NatureError, variadicHandles(handles))
}

func variadicHandles(handles []string) []string {
	if len(handles) == 0 {
		return nil
	}

	return handles
}

// Log routes message to the selected facilities. A nil handles slice selects
// every registered facility in registration order; an empty slice selects
// none. Enum and handle validation fail before any I/O; per-facility write
// failures are reported as console diagnostics and never propagate.
func (r *Router) Log(message string, level record.Level, nature record.Nature, handles []string) error {
	err := level.Validate()
	if err != nil {
		return err
	}

	err = nature.Validate()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if level.Priority() < r.level.Priority() {
		return nil
	}

	selected, err := r.resolveHandles(handles)
	if err != nil {
		return err
	}

	rec := record.Record{
		Timestamp: time.Now(),
		Message:   r.prepareMessage(message),
		Level:     level,
		Nature:    nature,
	}

	for _, handle := range selected {
		admitted, summary := r.throttle.admit(handle, time.Now())
		if summary != "" {
			r.consoleDiagnostic("%s", summary)
		}

		if !admitted {
			continue
		}

		err = r.facilities[handle].Write(rec)

		switch {
		case err == nil:
		case errors.Is(err, sanitize.ErrUnsafeHTML) || errors.Is(err, pathguard.ErrUnsafeTarget):
			r.consoleDiagnostic("Security incident in facility '%s': %v", handle, err)
		default:
			r.consoleDiagnostic("Failed to write log into facility '%s': %v", handle, err)
		}
	}

	return nil
}

// Handles returns the registered handles in registration order.
func (r *Router) Handles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles := make([]string, len(r.order))
	copy(handles, r.order)

	return handles
}

// LogAvailableFacilities logs a listing of every registered facility to all
// facilities. The listing is snapshotted under the lock before logging.
func (r *Router) LogAvailableFacilities() error {
	r.mu.Lock()

	lines := make([]string, 0, len(r.order))
	for _, handle := range r.order {
		lines = append(lines, "- "+r.facilities[handle].Describe())
	}

	r.mu.Unlock()

	return r.Info("Available logging facilities:\n" + strings.Join(lines, "\n"))
}

// ThrottleStats returns a copy of the throttle drop counters.
func (r *Router) ThrottleStats() ThrottleStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	byHandle := make(map[string]int, len(r.throttle.droppedByHandle))
	for handle, dropped := range r.throttle.droppedByHandle {
		byHandle[handle] = dropped
	}

	return ThrottleStats{
		DroppedTotal:    r.throttle.droppedTotal,
		DroppedByHandle: byHandle,
	}
}

func (r *Router) register(f facility.Facility) {
	handle := f.Handle()

	if _, ok := r.facilities[handle]; !ok {
		r.order = append(r.order, handle)
	}

	r.facilities[handle] = f
}

func (r *Router) resolveHandles(handles []string) ([]string, error) {
	if handles == nil {
		selected := make([]string, len(r.order))
		copy(selected, r.order)

		return selected, nil
	}

	if len(handles) > r.cfg.MaxHandlesPerCall {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyHandles, len(handles), r.cfg.MaxHandlesPerCall)
	}

	var unknown []string

	for _, handle := range handles {
		if _, ok := r.facilities[handle]; !ok {
			unknown = append(unknown, handle)
		}
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, strings.Join(unknown, ", "))
	}

	return handles, nil
}

// prepareMessage normalizes newlines and applies the total, line-count, and
// per-line clip limits, each with its explicit marker.
func (r *Router) prepareMessage(message string) string {
	normalized := sanitize.NormalizeNewlines(message)
	if sanitize.RuneLen(normalized) > r.cfg.MaxMessageLength {
		normalized = fmt.Sprintf("%s ...[message clipped at %d chars]",
			sanitize.ClipRunes(normalized, r.cfg.MaxMessageLength), r.cfg.MaxMessageLength)
	}

	lines := sanitize.SplitLines(normalized)
	if len(lines) > r.cfg.MaxMessageLines {
		dropped := len(lines) - r.cfg.MaxMessageLines
		lines = lines[:r.cfg.MaxMessageLines]
		lines = append(lines, fmt.Sprintf("...[dropped %d line(s)]", dropped))
	}

	for i, line := range lines {
		if sanitize.RuneLen(line) > r.cfg.MaxLineLength {
			lines[i] = fmt.Sprintf("%s ...[line clipped at %d chars]",
				sanitize.ClipRunes(line, r.cfg.MaxLineLength), r.cfg.MaxLineLength)
		}
	}

	return strings.Join(lines, "\n")
}

// consoleDiagnostic writes straight to the console facility, bypassing
// routing. Callers hold the router mutex.
func (r *Router) consoleDiagnostic(format string, args ...any) {
	rec := record.Record{
		Timestamp: time.Now(),
		Message:   fmt.Sprintf(format, args...),
		Level:     record.LevelInfo,
		Nature:    record.NatureError,
	}

	_ = r.console.Write(rec)
}

func validateFacilityParams(handle string, rotationsToKeep int) error {
	if handle == facility.HandleConsole {
		return fmt.Errorf("%w: %q", ErrReservedHandle, handle)
	}

	err := facility.ValidateHandle(handle)
	if err != nil {
		return err
	}

	if rotationsToKeep < 0 {
		return fmt.Errorf("%w: rotations to keep must be >= 0", ErrInvalidFacilityOption)
	}

	return nil
}
