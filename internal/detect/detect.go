// Package detect decides a concrete handling path for uploaded bytes.
package detect

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/joseph-ayodele/clarify/constants"
	"github.com/joseph-ayodele/clarify/internal/common"
)

// Result is the outcome of format detection. Derived once per upload,
// immutable afterwards.
type Result struct {
	Format constants.Format
	MIME   string
	Ext    string // normalized extension from the declared filename, may be ""
}

// Detect inspects byte-level signatures first and falls back to the
// declared filename extension when the bytes are inconclusive. It is pure
// and deterministic: the same input always yields the same Result.
func Detect(data []byte, filename string) (Result, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))

	mt := sniffMIME(data)
	if f, ok := formatForMIME(mt, ext); ok {
		return Result{Format: f, MIME: mt, Ext: ext}, nil
	}

	// Bytes inconclusive: trust the declared extension.
	if f := constants.MapExtToFormat(ext); f != "" {
		return Result{Format: f, MIME: mimeForExt(ext), Ext: ext}, nil
	}

	return Result{}, fmt.Errorf("%w: %q (supported: %s)",
		common.ErrUnsupportedFormat, displayType(mt, ext),
		strings.Join(constants.SupportedExtensions(), ", "))
}

// sniffMIME uses stdlib detection first and falls back to the broader
// mimetype library when ambiguous. Matches on the first 512 bytes.
func sniffMIME(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	mt := http.DetectContentType(data)
	if base(mt) != "application/octet-stream" && base(mt) != "application/zip" {
		return base(mt)
	}
	return mimetype.Detect(data).String()
}

// formatForMIME maps a sniffed MIME type to a handling path. The declared
// extension disambiguates container types (docx is a zip).
func formatForMIME(mt, ext string) (constants.Format, bool) {
	switch base(mt) {
	case "application/pdf":
		return constants.FormatPDF, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return constants.FormatDocx, true
	case "application/zip":
		if ext == "docx" {
			return constants.FormatDocx, true
		}
		return "", false
	case "text/plain":
		return constants.FormatText, true
	case "image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff", "image/webp",
		"image/x-ms-bmp":
		return constants.FormatImage, true
	}
	// Sniffers report richer text types (html, csv, ...) for content we
	// still treat as plain text when the caller declared .txt.
	if strings.HasPrefix(base(mt), "text/") && ext == "txt" {
		return constants.FormatText, true
	}
	return "", false
}

func mimeForExt(ext string) string {
	switch constants.MapExtToFormat(ext) {
	case constants.FormatText:
		return "text/plain"
	case constants.FormatPDF:
		return "application/pdf"
	case constants.FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case constants.FormatImage:
		return constants.MimeForImageExt(ext)
	default:
		return "application/octet-stream"
	}
}

func displayType(mt, ext string) string {
	if ext != "" {
		return "." + ext
	}
	return base(mt)
}

// base strips any parameters from a MIME type ("text/plain; charset=utf-8").
func base(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}
