// Package extract converts uploaded documents to plain text, cascading
// from direct decoding to format parsers to OCR.
package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/clarify/constants"
)

// UploadedDocument is the immutable input to extraction. It is created at
// request time and discarded once extraction completes or fails.
type UploadedDocument struct {
	Filename string
	Data     []byte
}

// Size returns the byte size of the uploaded content.
func (d UploadedDocument) Size() int64 { return int64(len(d.Data)) }

// Result is a successful extraction. Text is never empty on success; a
// candidate with empty text is escalated to the next fallback or to failure.
type Result struct {
	Text       string
	Method     constants.Method
	Confidence float32
	Pages      int
	Duration   time.Duration
	Warnings   []string
}

// Recognizer is the OCR fallback chain, consumed by the orchestrator for
// image uploads and for PDFs whose direct extraction yields nothing.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte, mimeType string) (Result, error)
}
