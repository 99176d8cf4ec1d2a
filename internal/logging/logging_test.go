package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetDefaults restores the global logger, which charmbracelet/log shares
// across the process.
func resetDefaults(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetOutput(os.Stderr)
		log.SetFormatter(log.TextFormatter)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{" INFO ", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, "parse log level")
}

func TestSetup_WriterAndPrefix(t *testing.T) {
	resetDefaults(t)

	var buf bytes.Buffer
	closer, err := Setup(Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	New("session").Debug("dialing", "endpoint", "ws://localhost:4000/view-log-ws")

	out := buf.String()
	assert.Contains(t, out, "session")
	assert.Contains(t, out, "dialing")
	assert.Contains(t, out, "ws://localhost:4000/view-log-ws")
}

func TestSetup_LevelFilters(t *testing.T) {
	resetDefaults(t)

	var buf bytes.Buffer
	_, err := Setup(Options{Level: "error", Writer: &buf})
	require.NoError(t, err)

	New("x").Info("hidden")
	assert.Empty(t, buf.String())
}

func TestSetup_FileOutput(t *testing.T) {
	resetDefaults(t)

	path := filepath.Join(t.TempDir(), "nested", "viewlog.log")
	closer, err := Setup(Options{File: path})
	require.NoError(t, err)

	New("app").Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
}

func TestSetup_BadLevel(t *testing.T) {
	resetDefaults(t)

	closer, err := Setup(Options{Level: "nope"})
	assert.Error(t, err)
	assert.NotNil(t, closer)
}
