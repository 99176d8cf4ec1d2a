package logtail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultPollInterval is how often Follow checks the file for growth.
const DefaultPollInterval = 250 * time.Millisecond

// Follow polls path from offset and passes each batch of newly completed
// lines to emit, in file order. A partial trailing line is held until its
// newline arrives. When the file shrinks (truncation or rotation) reading
// restarts from the beginning. Follow returns when ctx is done or emit fails.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, emit func(lines []string) error) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t := &follower{path: path, offset: offset}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		lines, err := t.poll()
		if err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := emit(lines); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type follower struct {
	path    string
	offset  int64
	partial strings.Builder
}

func (f *follower) poll() ([]string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.reset()
			return nil, nil
		}
		return nil, fmt.Errorf("stat log: %w", err)
	}
	size := info.Size()
	if size < f.offset {
		f.reset()
	}
	if size == f.offset {
		return nil, nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.reset()
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek log: %w", err)
	}
	chunk, err := io.ReadAll(io.LimitReader(file, size-f.offset))
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	f.offset += int64(len(chunk))
	return f.split(string(chunk)), nil
}

// split completes any held partial line and keeps the new remainder.
func (f *follower) split(chunk string) []string {
	var lines []string
	for {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			f.partial.WriteString(chunk)
			return lines
		}
		f.partial.WriteString(chunk[:i+1])
		lines = append(lines, trimEOL(f.partial.String()))
		f.partial.Reset()
		chunk = chunk[i+1:]
	}
}

func (f *follower) reset() {
	f.offset = 0
	f.partial.Reset()
}
