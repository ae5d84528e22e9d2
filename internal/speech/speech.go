// Package speech holds the voice interaction ports: synthesizing spoken
// question output and recognizing spoken answers. The model-backed
// recognizer lives in the gateway package; this package defines the
// contracts and the console fallbacks.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// UnrecognizedSentinel is delivered in place of a transcript when
// recognition fails, so the interview loop can keep moving.
const UnrecognizedSentinel = "[Unrecognized Speech]"

// Synthesizer speaks a line of interview output.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Recognizer converts recorded audio into text.
type Recognizer interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// ConsoleSynthesizer writes spoken lines to a writer instead of an audio
// device. It is the default when no TTS backend is configured.
type ConsoleSynthesizer struct {
	W io.Writer
}

func (c *ConsoleSynthesizer) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.W, text)
	return err
}

// TranscribeOrSentinel runs the recognizer and maps any failure or empty
// transcript to the sentinel. Recognition problems are logged, never fatal.
func TranscribeOrSentinel(ctx context.Context, r Recognizer, logger *slog.Logger, audio []byte, mimeType string) string {
	text, err := r.Transcribe(ctx, audio, mimeType)
	if err != nil {
		logger.Warn("speech recognition failed", "error", err)
		return UnrecognizedSentinel
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return UnrecognizedSentinel
	}
	return text
}
