package ocr

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/joseph-ayodele/clarify/internal/llm"
)

const visionSystemPrompt = "You are a document transcription engine. " +
	"Extract ALL text from the provided document exactly as written. " +
	"Preserve the document structure: paragraphs, headers, lists, and tables. " +
	"Do not summarize, interpret, or add anything that is not in the document. " +
	"Return the extracted text only, with no commentary."

// Low sampling temperature to minimize fabrication during transcription.
const visionTemperature = 0.1

// VisionBackend is the primary OCR backend: a vision-capable generation
// model asked to transcribe the document.
type VisionBackend struct {
	gen    llm.Generator
	model  string
	logger *slog.Logger
}

func NewVisionBackend(gen llm.Generator, model string, logger *slog.Logger) *VisionBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisionBackend{gen: gen, model: model, logger: logger}
}

func (b *VisionBackend) Name() string { return "vision" }

func (b *VisionBackend) Recognize(ctx context.Context, data []byte, mimeType string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)

	b.logger.Debug("ocr.vision_request", "mime", mimeType, "bytes", len(data))
	return b.gen.Complete(ctx, llm.ChatRequest{
		Model:       b.model,
		Temperature: visionTemperature,
		Messages: []llm.Message{
			{Role: "system", Content: visionSystemPrompt},
			{Role: "user", Content: []any{
				llm.TextPart("Extract the text from this document."),
				llm.ImagePart(dataURL),
			}},
		},
	})
}
