// Package resume validates uploaded resume files, extracts their text and
// structures it into a profile that grounds resume-based interview questions.
package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadSize is the default upload ceiling.
const MaxUploadSize = 5 << 20

var (
	ErrPayloadTooLarge  = errors.New("resume file exceeds the size limit")
	ErrUnsupportedType  = errors.New("unsupported resume file type")
	ErrNoExtractableText = errors.New("no text could be extracted from the resume")
)

// supported maps accepted file extensions to their MIME type for OCR.
var supported = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// TextReader recognizes printed text in an image.
type TextReader interface {
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Chatter is the model call used to structure raw resume text.
type Chatter interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// Profile is the structured view of one resume.
type Profile struct {
	RawText        string   `json:"rawText"`
	Skills         []string `json:"skills"`
	Experience     []string `json:"experience"`
	Education      []string `json:"education"`
	Certifications []string `json:"certifications"`
	Projects       []string `json:"projects"`
}

// ContextString renders the profile as the background block embedded into
// resume-based question prompts.
func (p *Profile) ContextString() string {
	var sb strings.Builder
	writeSection := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(heading)
		sb.WriteString(":\n")
		for _, item := range items {
			sb.WriteString("- ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
	}
	writeSection("Skills", p.Skills)
	writeSection("Experience", p.Experience)
	writeSection("Education", p.Education)
	writeSection("Certifications", p.Certifications)
	writeSection("Projects", p.Projects)
	if sb.Len() == 0 {
		return p.RawText
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Validate checks the filename's extension against the allowlist and the
// declared size against the limit. It runs before any bytes are read so an
// oversize or unsupported upload is rejected without extraction work.
func Validate(filename string, size int64, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	if size > maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrPayloadTooLarge, size, maxSize)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := supported[ext]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return nil
}

// Extractor turns validated resume uploads into plain text.
type Extractor struct {
	ocr TextReader
}

func NewExtractor(ocr TextReader) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract returns the plain text of the upload. PDFs are parsed locally;
// images go through the OCR model.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, ok := supported[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	var text string
	var err error
	if ext == ".pdf" {
		text, err = extractPDF(data)
	} else {
		if e.ocr == nil {
			return "", errors.New("image extraction is not configured")
		}
		text, err = e.ocr.ExtractText(ctx, data, mimeType)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func readAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrPayloadTooLarge
	}
	return data, nil
}

// ReadUpload drains the upload into memory, enforcing the size limit even
// when the declared size was wrong.
func ReadUpload(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	return readAll(r, maxSize)
}
