package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReachesEverySink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "piano.log")
	var console bytes.Buffer

	l, err := New(Options{Level: "info", File: path, Console: &console})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	l.Log("press 12")
	zl := l.Zerolog()
	zl.Warn().Int("key", 99).Msg("key index out of range")

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "press 12")
	assert.Contains(t, lines[1], "key index out of range")
	assert.Contains(t, lines[1], "key=99")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "press 12")
	assert.Contains(t, console.String(), "key index out of range")
}

func TestLevelFilters(t *testing.T) {
	l, err := New(Options{Level: "warn"})
	require.NoError(t, err)

	zl := l.Zerolog()
	zl.Debug().Msg("hidden")
	zl.Info().Msg("hidden too")
	zl.Error().Msg("shown")

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestHistoryIsBounded(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	for i := 0; i < maxLines+20; i++ {
		l.Log("line")
	}
	assert.Len(t, l.Lines(), maxLines)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("TRACE"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("Error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestWriterLogsWholeLines(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	w := l.Writer()

	_, _ = w.Write([]byte("0: key_base_white01\n1: key_"))
	require.Len(t, l.Lines(), 1)
	_, _ = w.Write([]byte("hammer\n"))

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "0: key_base_white01")
	assert.Contains(t, lines[1], "1: key_hammer")
}
