package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Extractor turns raw document bytes into plain text
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ContentExtractor sniffs the payload and dispatches on its content type:
// PDF, HTML (converted to markdown) and any text/plain descendant.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// UnsupportedTypeError reports a payload whose content type has no extractor
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported document type: %s", e.MIME)
}

func (e *ContentExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("document is empty")
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/pdf"):
		return extractPDF(data)
	case mt.Is("text/html"):
		return extractHTML(data)
	case isText(mt):
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text document is not valid UTF-8")
		}
		return string(data), nil
	default:
		return "", &UnsupportedTypeError{MIME: mt.String()}
	}
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractHTML(data []byte) (string, error) {
	md, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(md), nil
}
