package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGateway calls the Gemini API. It also serves the multimodal needs of
// the system: image OCR for resume ingestion and audio transcription for
// spoken answers.
type GeminiGateway struct {
	apiKey string
	model  string
}

var _ Gateway = (*GeminiGateway)(nil)

const geminiRetries = 3

// NewGeminiGateway creates a Gemini-backed gateway.
func NewGeminiGateway(apiKey, model string) *GeminiGateway {
	return &GeminiGateway{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

// Chat sends a single system+user exchange and returns the first candidate's
// text. Transient failures are retried with a short backoff.
func (g *GeminiGateway) Chat(ctx context.Context, system, user string) (string, error) {
	return g.generate(ctx, system, genai.Text(user))
}

// Transcribe asks the model to transcribe an audio recording verbatim.
func (g *GeminiGateway) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	return g.generate(ctx,
		"Transcribe the spoken audio verbatim. Return only the transcription, no commentary.",
		genai.Text("Transcribe this recording."),
		&genai.Blob{MIMEType: mime, Data: audio},
	)
}

// ExtractText performs OCR on an image via the multimodal model.
func (g *GeminiGateway) ExtractText(ctx context.Context, image []byte, mime string) (string, error) {
	return g.generate(ctx,
		"Extract all text from the image exactly as written. Return only the extracted text.",
		genai.Text("Extract the text from this document image."),
		&genai.Blob{MIMEType: mime, Data: image},
	)
}

func (g *GeminiGateway) generate(ctx context.Context, system string, parts ...genai.Part) (string, error) {
	if g.apiKey == "" {
		return "", &CallError{Reason: "GEMINI_API_KEY is empty"}
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", &CallError{Reason: "failed to create client", Wrapped: err}
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}
	if system != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	// Retry on transient 5xx-style failures.
	var lastErr error
	for attempt := 1; attempt <= geminiRetries; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return "", &CallError{Reason: "context cancelled", Wrapped: ctx.Err()}
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return "", &CallError{Reason: "model returned empty content"}
		}
		return txt, nil
	}
	return "", &CallError{Reason: "request failed after retries", Wrapped: lastErr}
}

// firstText returns the text of the first candidate, if any.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return strings.TrimSpace(string(t))
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
