package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	type TestCase struct {
		description string
		level       string
		want        zerolog.Level
		wantErr     bool
	}

	testCases := []TestCase{
		{description: "debug", level: "debug", want: zerolog.DebugLevel},
		{description: "warn", level: "warn", want: zerolog.WarnLevel},
		{description: "empty falls back to info", level: "", want: zerolog.InfoLevel},
		{description: "unknown level", level: "loud", wantErr: true},
	}

	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			closer, err := Setup(testCase.level, "")
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, closer())
			assert.Equal(t, testCase.want, zerolog.GlobalLevel())
		})
	}
}

func TestWritersFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "bot.log")

	w, closer := writers(&console, path)
	logger := zerolog.New(w)
	logger.Info().Str("command", "stats").Msg("command executed")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command":"stats"`)
	assert.Contains(t, console.String(), "command executed")
}
