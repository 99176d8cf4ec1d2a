package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const readBufferSize = 64 * 1024

// Read returns at most maxLines complete lines from the end of the file at
// path, plus the byte offset just past the last complete line. maxLines <= 0
// returns every line. A trailing line without a newline is left for Follow.
func Read(path string, maxLines int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var (
		all    []string
		ring   []string
		count  int
		idx    int
		offset int64
	)
	if maxLines > 0 {
		ring = make([]string, maxLines)
	}

	reader := bufio.NewReaderSize(file, readBufferSize)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("read log: %w", err)
		}
		offset += int64(len(line))
		line = trimEOL(line)

		if ring == nil {
			all = append(all, line)
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}

	if ring == nil {
		return all, offset, nil
	}
	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, offset, nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
