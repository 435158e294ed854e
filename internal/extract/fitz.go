package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// FitzExtractor extracts page text through MuPDF.
type FitzExtractor struct {
	logger *zap.Logger
}

func NewFitzExtractor(logger *zap.Logger) *FitzExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FitzExtractor{logger: logger}
}

// PageText returns the concatenated text of every page in the document.
// Staged documents are single-page, but nothing here depends on that.
func (e *FitzExtractor) PageText(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open document %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			// Missing text layer: treat as an empty page.
			e.logger.Warn("page text extraction failed, using empty text",
				zap.String("path", path), zap.Int("page", i), zap.Error(err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
