package speech

import (
	"bytes"
	"context"
)

// ChunkSource yields recorded audio chunks. Chunks returns nil when the
// source is drained.
type ChunkSource interface {
	Chunks() <-chan []byte
}

// Capture accumulates audio chunks until the source closes, the stop signal
// fires or the context is canceled, and returns everything gathered so far.
// A stop mid-recording is not an error: whatever was captured is returned.
func Capture(ctx context.Context, src ChunkSource, stop <-chan struct{}) ([]byte, error) {
	var buf bytes.Buffer
	chunks := src.Chunks()
	for {
		select {
		case <-ctx.Done():
			return buf.Bytes(), ctx.Err()
		case <-stop:
			return buf.Bytes(), nil
		case chunk, ok := <-chunks:
			if !ok {
				return buf.Bytes(), nil
			}
			buf.Write(chunk)
		}
	}
}
