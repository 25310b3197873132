package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/clarify/constants"
	"github.com/joseph-ayodele/clarify/internal/common"
	"github.com/joseph-ayodele/clarify/internal/detect"
)

// Config holds extraction limits.
type Config struct {
	MaxFileBytes int64 // default 10 MiB
}

// Orchestrator sequences format detection, format-specific extraction,
// and the OCR fallback chain into one normalized result.
type Orchestrator struct {
	cfg    Config
	ocr    Recognizer
	logger *slog.Logger
}

func NewOrchestrator(cfg Config, ocr Recognizer, logger *slog.Logger) *Orchestrator {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 10 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, ocr: ocr, logger: logger}
}

// Extract converts an uploaded document to plain text. Failure modes:
// ErrFileTooLarge, ErrUnsupportedFormat, ErrEmptyExtraction,
// ErrExtractionFailed (wrapping ErrOCRFailed when the chain is exhausted).
func (o *Orchestrator) Extract(ctx context.Context, doc UploadedDocument) (Result, error) {
	start := time.Now()

	// Size gate before any content inspection.
	if doc.Size() > o.cfg.MaxFileBytes {
		return Result{}, fmt.Errorf("%w: %d bytes (max %d)",
			common.ErrFileTooLarge, doc.Size(), o.cfg.MaxFileBytes)
	}

	det, err := detect.Detect(doc.Data, doc.Filename)
	if err != nil {
		return Result{}, err
	}
	o.logger.Debug("extract.detected",
		"filename", doc.Filename, "format", det.Format, "mime", det.MIME, "bytes", doc.Size())

	var res Result
	switch det.Format {
	case constants.FormatText:
		res, err = o.extractText(doc)
	case constants.FormatPDF:
		res, err = o.extractPDF(ctx, doc)
	case constants.FormatDocx:
		res, err = o.extractDocx(doc)
	case constants.FormatImage:
		res, err = o.recognize(ctx, doc.Data, det.MIME)
	default:
		return Result{}, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, det.Format)
	}
	if err != nil {
		o.logger.Error("extract.failed",
			"filename", doc.Filename, "format", det.Format, "error", err)
		return Result{}, err
	}

	res.Text = Normalize(res.Text)
	if res.Text == "" {
		// Success is never surfaced with empty text.
		return Result{}, fmt.Errorf("%w: %s produced no text", common.ErrEmptyExtraction, res.Method)
	}
	res.Duration = time.Since(start)

	o.logger.Info("extract.ok",
		"filename", doc.Filename,
		"format", det.Format,
		"method", res.Method,
		"confidence", res.Confidence,
		"pages", res.Pages,
		"text_bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (o *Orchestrator) extractText(doc UploadedDocument) (Result, error) {
	text := decodeText(doc.Data)
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: file contains no text", common.ErrEmptyExtraction)
	}
	return Result{
		Text:       text,
		Method:     constants.MethodDirectText,
		Confidence: constants.ConfidenceDirectText,
	}, nil
}

// extractPDF always tries direct extraction first. Any non-empty text,
// however short, is accepted; quality is not second-guessed. Only zero
// characters or a parser error passes the ORIGINAL bytes to the OCR chain.
func (o *Orchestrator) extractPDF(ctx context.Context, doc UploadedDocument) (Result, error) {
	text, pages, err := extractPDFText(doc.Data)
	if err == nil && strings.TrimSpace(text) != "" {
		return Result{
			Text:       text,
			Method:     constants.MethodPDFParse,
			Confidence: constants.ConfidencePDFParse,
			Pages:      pages,
		}, nil
	}
	if err != nil {
		o.logger.Warn("extract.pdf_direct_failed", "filename", doc.Filename, "error", err)
	} else {
		o.logger.Info("extract.pdf_no_text_layer", "filename", doc.Filename, "pages", pages)
	}
	return o.recognize(ctx, doc.Data, "application/pdf")
}

// extractDocx is a single raw-text attempt. Word-processor files are not
// image-based, so there is no OCR fallback: empty or failing is terminal.
func (o *Orchestrator) extractDocx(doc UploadedDocument) (Result, error) {
	text, err := extractDocxText(doc.Data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: docx: %v", common.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: docx contains no text", common.ErrExtractionFailed)
	}
	return Result{
		Text:       text,
		Method:     constants.MethodDocxParse,
		Confidence: constants.ConfidenceDocxParse,
	}, nil
}

func (o *Orchestrator) recognize(ctx context.Context, data []byte, mimeType string) (Result, error) {
	if o.ocr == nil {
		return Result{}, fmt.Errorf("%w: no ocr chain configured", common.ErrExtractionFailed)
	}
	res, err := o.ocr.Recognize(ctx, data, mimeType)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}
	return res, nil
}
