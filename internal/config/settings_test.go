package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Duration("window", DefaultWindow, "")
	fs.Int("botched-margin", DefaultBotchedMargin, "")
	fs.Bool("abilities-only", false, "")
	fs.String("output", DefaultOutput, "")
	return fs
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := LoadSettings("", nil)
	require.NoError(t, err)

	assert.Equal(t, time.Second, s.Window)
	assert.Equal(t, 0, s.BotchedMargin)
	assert.False(t, s.AbilitiesOnly)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, "table", s.Output)
	assert.Equal(t, "time", s.Sort)
	assert.Empty(t, s.Catalog)
}

func TestLoadSettingsPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: 2s\nbotched_margin: 5\noutput: csv\n"), 0o644))

	t.Run("file over defaults", func(t *testing.T) {
		s, err := LoadSettings(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, s.Window)
		assert.Equal(t, 5, s.BotchedMargin)
		assert.Equal(t, "csv", s.Output)
		assert.Equal(t, "time", s.Sort)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("PULLCONDENSER_BOTCHED_MARGIN", "7")
		s, err := LoadSettings(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, 7, s.BotchedMargin)
	})

	t.Run("changed flag over everything", func(t *testing.T) {
		t.Setenv("PULLCONDENSER_WINDOW", "3s")
		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--window", "1500ms", "--output", "JSON"}))

		s, err := LoadSettings(path, fs)
		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, s.Window)
		assert.Equal(t, "json", s.Output)
	})
}

func TestLoadSettingsErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"zero window", "window: 0s\n", ErrInvalidWindow},
		{"sub-millisecond window", "window: 500us\n", ErrInvalidWindow},
		{"margin too large", "botched_margin: 101\n", ErrInvalidBotchedMargin},
		{"unknown output", "output: xml\n", ErrInvalidOutput},
		{"unknown sort", "sort: alphabetical\n", ErrInvalidSort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadSettings(path, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("explicit file missing", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(dir, "absent.yaml"), nil)
		assert.Error(t, err)
	})
}
