package speech_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/kairos-interview/backend/internal/speech"
)

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return f.text, f.err
}

func TestTranscribeOrSentinel(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	cases := []struct {
		name string
		rec  *fakeRecognizer
		want string
	}{
		{"recognized", &fakeRecognizer{text: "my answer"}, "my answer"},
		{"trims whitespace", &fakeRecognizer{text: "  my answer \n"}, "my answer"},
		{"failure", &fakeRecognizer{err: errors.New("model unreachable")}, speech.UnrecognizedSentinel},
		{"empty transcript", &fakeRecognizer{text: "   "}, speech.UnrecognizedSentinel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := speech.TranscribeOrSentinel(context.Background(), tc.rec, logger, []byte{1}, "audio/wav")
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConsoleSynthesizer(t *testing.T) {
	var out bytes.Buffer
	s := &speech.ConsoleSynthesizer{W: &out}
	if err := s.Speak(context.Background(), "What is a goroutine?"); err != nil {
		t.Fatalf("speak failed: %v", err)
	}
	if out.String() != "What is a goroutine?\n" {
		t.Errorf("output = %q", out.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Speak(ctx, "ignored"); err == nil {
		t.Error("expected error on canceled context")
	}
}

type chanSource struct{ ch chan []byte }

func (c *chanSource) Chunks() <-chan []byte { return c.ch }

func TestCapture_DrainsSource(t *testing.T) {
	src := &chanSource{ch: make(chan []byte, 3)}
	src.ch <- []byte("one ")
	src.ch <- []byte("two ")
	src.ch <- []byte("three")
	close(src.ch)

	got, err := speech.Capture(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if string(got) != "one two three" {
		t.Errorf("captured %q", got)
	}
}

func TestCapture_StopReturnsPartial(t *testing.T) {
	src := &chanSource{ch: make(chan []byte, 1)}
	src.ch <- []byte("partial")

	stop := make(chan struct{})
	done := make(chan struct{})
	var got []byte
	var err error
	go func() {
		got, err = speech.Capture(context.Background(), src, stop)
		close(done)
	}()

	// Let the buffered chunk land before stopping.
	time.Sleep(10 * time.Millisecond)
	close(stop)
	<-done

	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if string(got) != "partial" {
		t.Errorf("captured %q, want partial recording", got)
	}
}

func TestCapture_ContextCancel(t *testing.T) {
	src := &chanSource{ch: make(chan []byte)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := speech.Capture(ctx, src, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
