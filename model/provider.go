package model

import "context"

// Recognizer extracts printed text from an image. Implementations live in the
// ocr package.
type Recognizer interface {
	ExtractText(ctx context.Context, img *Image) (string, error)
	Name() string
}

// Analyzer sends the text of a turn to the analysis service and returns the
// description it produced. An empty description is not an error.
type Analyzer interface {
	Analyze(ctx context.Context, text, sessionID string) (string, error)
}
