package extract

import "context"

// TextExtractor reads the text layer of a staged page document.
// A document without a text layer yields an empty string, not an error.
type TextExtractor interface {
	PageText(ctx context.Context, path string) (string, error)
}
