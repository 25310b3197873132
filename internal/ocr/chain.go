// Package ocr is the vision-based text-recognition fallback chain: a
// primary vision-capable generation backend, then an optional dedicated
// OCR subprocess, each attempt bounded by an independent timeout.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/clarify/constants"
	"github.com/joseph-ayodele/clarify/internal/common"
	"github.com/joseph-ayodele/clarify/internal/extract"
)

// Backend is one swappable recognition engine.
type Backend interface {
	Name() string
	Recognize(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Chain tries backends strictly in order: primary first, then secondary
// when configured. A timeout is treated identically to a backend failure.
type Chain struct {
	primary   Backend
	secondary Backend // nil when not configured
	timeout   time.Duration
	logger    *slog.Logger
}

func NewChain(primary, secondary Backend, timeout time.Duration, logger *slog.Logger) *Chain {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{primary: primary, secondary: secondary, timeout: timeout, logger: logger}
}

type attempt struct {
	backend    Backend
	method     constants.Method
	confidence float32
}

// Recognize runs the chain. It fails with ErrOCRFailed only when every
// configured backend fails or times out; empty text is never a success.
func (c *Chain) Recognize(ctx context.Context, data []byte, mimeType string) (extract.Result, error) {
	attempts := []attempt{
		{c.primary, constants.MethodOCRPrimary, constants.ConfidenceOCRPrimary},
	}
	if c.secondary != nil {
		attempts = append(attempts, attempt{c.secondary, constants.MethodOCRSecondary, constants.ConfidenceOCRSecondary})
	}

	var reasons []string
	for _, a := range attempts {
		if a.backend == nil {
			reasons = append(reasons, "primary backend not configured")
			continue
		}
		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, err := a.backend.Recognize(attemptCtx, data, mimeType)
		cancel()

		switch {
		case err != nil:
			reasons = append(reasons, fmt.Sprintf("%s: %v", a.backend.Name(), err))
			c.logger.Warn("ocr.backend_failed",
				"backend", a.backend.Name(),
				"error", err,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		case strings.TrimSpace(text) == "":
			reasons = append(reasons, fmt.Sprintf("%s: returned no text", a.backend.Name()))
			c.logger.Warn("ocr.backend_empty", "backend", a.backend.Name())
		default:
			c.logger.Info("ocr.ok",
				"backend", a.backend.Name(),
				"method", a.method,
				"text_bytes", len(text),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return extract.Result{
				Text:       text,
				Method:     a.method,
				Confidence: a.confidence,
			}, nil
		}

		// The caller abandoned the request; stop burning backends.
		if ctx.Err() != nil {
			return extract.Result{}, fmt.Errorf("%w: %w", common.ErrOCRFailed, ctx.Err())
		}
	}

	return extract.Result{}, fmt.Errorf("%w: %s", common.ErrOCRFailed, strings.Join(reasons, "; "))
}
