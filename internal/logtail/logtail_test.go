package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead(t *testing.T) {
	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	logPath := writeLog(t, content.String())

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, all},
		{"read all (negative)", -1, all},
		{"read partial (5)", 5, all[5:]},
		{"read exactly all (10)", 10, all},
		{"read more than exists (20)", 20, all},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, offset, err := Read(logPath, tt.maxLines)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, int64(content.Len()), offset)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, offset, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	require.NoError(t, err)
	assert.Nil(t, lines)
	assert.Zero(t, offset)
}

func TestRead_LeavesPartialLineAndTrimsCRLF(t *testing.T) {
	logPath := writeLog(t, "one\r\ntwo\nthr")

	got, offset, err := Read(logPath, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
	assert.Equal(t, int64(len("one\r\ntwo\n")), offset, "offset stops before the partial line")
}

func TestRead_EmptyFile(t *testing.T) {
	got, offset, err := Read(writeLog(t, ""), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, offset)
}
