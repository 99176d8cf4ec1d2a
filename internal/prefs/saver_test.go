package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualDebouncer holds the latest scheduled func until run is called.
type manualDebouncer struct {
	pending func()
}

func (d *manualDebouncer) debounce(f func()) { d.pending = f }

func (d *manualDebouncer) run() {
	if d.pending != nil {
		f := d.pending
		d.pending = nil
		f()
	}
}

func TestSaver_WritesLatestValueOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	d := &manualDebouncer{}
	s := &Saver{path: path, debounce: d.debounce}

	s.Schedule(Prefs{Theme: "Kanagawa"})
	s.Schedule(Prefs{Theme: "Slate"})

	p, _ := Load(path)
	assert.Equal(t, defaultTheme, p.Theme, "nothing written before changes settle")

	d.run()
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)
}

func TestSaver_FlushWritesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	d := &manualDebouncer{}
	s := &Saver{path: path, debounce: d.debounce}

	require.NoError(t, s.Flush(), "nothing pending")

	s.Schedule(Prefs{Theme: "Kanagawa"})
	require.NoError(t, s.Flush())
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", p.Theme)

	// The timer fires later with nothing left to write.
	d.run()
}

func TestSaver_ReportsWriteErrors(t *testing.T) {
	// A path whose parent is a file cannot be created.
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, Save(blocker, Default()))

	var got error
	d := &manualDebouncer{}
	s := &Saver{
		path:     filepath.Join(blocker, "prefs.toml"),
		debounce: d.debounce,
		onError:  func(err error) { got = err },
	}
	s.Schedule(Default())
	d.run()
	assert.Error(t, got)
}

func TestNewSaver_DefaultsDelay(t *testing.T) {
	s := NewSaver(filepath.Join(t.TempDir(), "prefs.toml"), 0, nil)
	assert.NotNil(t, s.debounce)
}
