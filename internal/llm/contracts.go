// Package llm is the narrow boundary to the generation service:
// structured request in, schema-validated structured response out,
// failing closed on malformed output.
package llm

import "context"

// Message is one chat turn. Content is a string for text-only turns, or a
// slice of content parts for multimodal turns (vision OCR).
type Message struct {
	Role    string
	Content any
}

// ChatRequest is a single chat-completion call.
type ChatRequest struct {
	Model       string // empty = client default text model
	Temperature float32
	Messages    []Message
	ForceJSON   bool // ask the backend for a JSON object response
}

// Generator is the interface the analyzer, verifier, and vision OCR
// backend depend on. Implementations are stateless across calls.
type Generator interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// TextPart builds a text content part for a multimodal message.
func TextPart(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

// ImagePart builds an image content part from a data URL.
func ImagePart(dataURL string) map[string]any {
	return map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL}}
}
