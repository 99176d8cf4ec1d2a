// Package logtail reads and follows plain-text log files.
//
// # Overview
//
// Read extracts the last N lines of a file in a single pass using a ring
// buffer, so memory stays O(N) regardless of file size. It also reports the
// byte offset just past the last complete line, which is where Follow
// should start.
//
//	lines, offset, err := logtail.Read("/var/log/app.log", 200)
//	if err != nil {
//		return err
//	}
//	err = logtail.Follow(ctx, "/var/log/app.log", offset, 0, func(batch []string) error {
//		return send(batch)
//	})
//
// # Ring Buffer Algorithm
//
//	1. Allocate ring buffer of size maxLines
//	2. For each complete line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. If total < maxLines:
//	   - Return first 'count' entries from buffer
//	4. If total >= maxLines:
//	   - Return buffer starting from current index (oldest line)
//
// maxLines <= 0 skips the ring and returns every line.
//
// # Following
//
// Follow polls the file at a fixed interval (default 250ms). Growth is read
// from the saved offset; a trailing fragment without a newline is held and
// joined with the rest of the line on a later poll. A file that shrinks or
// disappears resets the offset to zero, which covers truncation and
// copy-truncate rotation. CRLF endings are trimmed.
//
// # Error Handling
//
// Read returns no lines and no error for a missing file. Other errors
// (permission denied, I/O errors) are returned wrapped. Follow returns
// ctx.Err() on cancellation and passes through errors from emit unchanged.
package logtail
