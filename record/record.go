package record

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrUnknownLevel indicates an unrecognized log level string.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownNature indicates an unrecognized log nature string.
	ErrUnknownNature = errors.New("unknown log nature")
	// ErrUnknownTheme indicates an unrecognized HTML theme string.
	ErrUnknownTheme = errors.New("unknown HTML theme")
)

// Level is the verbosity gate controlling delivery to any facility.
type Level string

const (
	// LevelDebug marks diagnostic messages suppressed at the default level.
	LevelDebug Level = "DEBUG"
	// LevelInfo marks regular messages and is the default minimum level.
	LevelInfo Level = "INFO"
)

// ParseLevel parses a level string, ignoring case and surrounding whitespace.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	}

	return "", ErrUnknownLevel
}

// Validate reports whether l is a member of the closed level enumeration.
func (l Level) Validate() error {
	switch l {
	case LevelDebug, LevelInfo:
		return nil
	}

	return ErrUnknownLevel
}

// Priority returns the numeric ordering of l. Higher values pass stricter
// minimum-level gates.
func (l Level) Priority() int {
	if l == LevelDebug {
		return 10
	}

	return 20
}

// GetAllLevelStrings returns all valid level strings, for CLI help and
// completions.
func GetAllLevelStrings() []string {
	return []string{string(LevelDebug), string(LevelInfo)}
}

// Nature categorizes a message independently of its level.
type Nature string

const (
	// NatureInfo marks a regular informational message.
	NatureInfo Nature = "INFO"
	// NatureWarning marks a message that needs attention.
	NatureWarning Nature = "WARNING"
	// NatureError marks a failure; consoles route these to standard error.
	NatureError Nature = "ERROR"
)

// ParseNature parses a nature string, ignoring case and surrounding
// whitespace.
func ParseNature(nature string) (Nature, error) {
	switch strings.ToUpper(strings.TrimSpace(nature)) {
	case "INFO":
		return NatureInfo, nil
	case "WARNING":
		return NatureWarning, nil
	case "ERROR":
		return NatureError, nil
	}

	return "", ErrUnknownNature
}

// Validate reports whether n is a member of the closed nature enumeration.
func (n Nature) Validate() error {
	switch n {
	case NatureInfo, NatureWarning, NatureError:
		return nil
	}

	return ErrUnknownNature
}

// GetAllNatureStrings returns all valid nature strings.
func GetAllNatureStrings() []string {
	return []string{string(NatureInfo), string(NatureWarning), string(NatureError)}
}

// Theme selects the embedded stylesheet variant of an HTML log document.
type Theme string

const (
	// ThemeDark is the default dark document theme.
	ThemeDark Theme = "dark"
	// ThemeLight is the light document theme.
	ThemeLight Theme = "light"
)

// ParseTheme parses a theme string, ignoring case and surrounding whitespace.
func ParseTheme(theme string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "dark":
		return ThemeDark, nil
	case "light":
		return ThemeLight, nil
	}

	return "", ErrUnknownTheme
}

// Validate reports whether t is a member of the closed theme enumeration.
func (t Theme) Validate() error {
	switch t {
	case ThemeDark, ThemeLight:
		return nil
	}

	return ErrUnknownTheme
}

// Record is one routed log event. It is built once per call and shared
// read-only across every selected facility.
type Record struct {
	Timestamp time.Time
	Message   string
	Level     Level
	Nature    Nature
}
