package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/logrouter/record"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    record.Level
		expectError bool
	}{
		"debug level": {
			input:    "debug",
			expected: record.LevelDebug,
		},
		"info level": {
			input:    "info",
			expected: record.LevelInfo,
		},
		"case insensitive": {
			input:    "DEBUG",
			expected: record.LevelDebug,
		},
		"surrounding whitespace": {
			input:    "  info  ",
			expected: record.LevelInfo,
		},
		"unknown level": {
			input:       "trace",
			expectError: true,
		},
		"empty": {
			input:       "",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := record.ParseLevel(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, record.ErrUnknownLevel)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, lvl)
			}
		})
	}
}

func TestParseNature(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    record.Nature
		expectError bool
	}{
		"info nature": {
			input:    "info",
			expected: record.NatureInfo,
		},
		"warning nature": {
			input:    "warning",
			expected: record.NatureWarning,
		},
		"error nature": {
			input:    "ERROR",
			expected: record.NatureError,
		},
		"unknown nature": {
			input:       "fatal",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			nat, err := record.ParseNature(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, record.ErrUnknownNature)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, nat)
			}
		})
	}
}

func TestParseTheme(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    record.Theme
		expectError bool
	}{
		"dark theme": {
			input:    "dark",
			expected: record.ThemeDark,
		},
		"light theme": {
			input:    "Light",
			expected: record.ThemeLight,
		},
		"unknown theme": {
			input:       "neon",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			theme, err := record.ParseTheme(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, record.ErrUnknownTheme)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, theme)
			}
		})
	}
}

func TestLevelPriority(t *testing.T) {
	t.Parallel()

	assert.Less(t, record.LevelDebug.Priority(), record.LevelInfo.Priority())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, record.LevelDebug.Validate())
	require.NoError(t, record.NatureWarning.Validate())
	require.NoError(t, record.ThemeLight.Validate())

	require.ErrorIs(t, record.Level("VERBOSE").Validate(), record.ErrUnknownLevel)
	require.ErrorIs(t, record.Nature("NOTICE").Validate(), record.ErrUnknownNature)
	require.ErrorIs(t, record.Theme("sepia").Validate(), record.ErrUnknownTheme)
}
