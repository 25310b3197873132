package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

// TesseractConfig configures the secondary OCR backend.
type TesseractConfig struct {
	Tesseract string // binary name or absolute path
	Pdftoppm  string // rasterizer for scanned PDFs; default "pdftoppm"
	Lang      string // default "eng"

	TessdataDir string
	DPI         int // rasterization DPI for scanned PDFs, default 300
	MaxPages    int // 0 = no limit
}

// TesseractBackend is the secondary, lower-fidelity fallback: a dedicated
// OCR subprocess returning raw detected text without structural hints.
type TesseractBackend struct {
	cfg    TesseractConfig
	runner Runner
}

func NewTesseractBackend(cfg TesseractConfig) *TesseractBackend {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &TesseractBackend{cfg: cfg, runner: execRunner{}}
}

func (b *TesseractBackend) Name() string { return "tesseract" }

func (b *TesseractBackend) Recognize(ctx context.Context, data []byte, mimeType string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "clarify-ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	in := filepath.Join(tmpDir, "input"+extForMime(mimeType))
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return "", err
	}

	if mimeType == "application/pdf" {
		return b.recognizePDF(ctx, tmpDir, in)
	}
	return b.runTesseract(ctx, in)
}

// recognizePDF rasterizes pages with pdftoppm and OCRs each image.
func (b *TesseractBackend) recognizePDF(ctx context.Context, tmpDir, in string) (string, error) {
	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := b.runner.Run(ctx, b.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", b.cfg.DPI), "-png", in, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if b.cfg.MaxPages > 0 && len(matches) > b.cfg.MaxPages {
		matches = matches[:b.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var sb strings.Builder
	for _, img := range matches {
		txt, err := b.runTesseract(ctx, img)
		if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\f\n") // page break marker
		}
		sb.WriteString(txt)
	}
	return sb.String(), nil
}

func (b *TesseractBackend) runTesseract(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", b.cfg.Lang}
	if b.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", b.cfg.TessdataDir)
	}
	out, errb, err := b.runner.Run(ctx, b.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return reBoxNoise.ReplaceAllString(string(out), ""), nil
}

func extForMime(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
