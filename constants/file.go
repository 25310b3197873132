package constants

import "strings"

// Format is the concrete handling path chosen for an uploaded document.
type Format string

const (
	FormatText  Format = "TEXT"
	FormatPDF   Format = "PDF"
	FormatDocx  Format = "DOCX"
	FormatImage Format = "IMAGE"
)

// AllowedExtensions maps every accepted file extension to its format.
var AllowedExtensions = map[string]Format{
	"txt":  FormatText,
	"pdf":  FormatPDF,
	"docx": FormatDocx,
	"jpg":  FormatImage,
	"jpeg": FormatImage,
	"png":  FormatImage,
	"gif":  FormatImage,
	"bmp":  FormatImage,
	"tiff": FormatImage,
	"tif":  FormatImage,
	"webp": FormatImage,
}

// SupportedExtensions returns the accepted extensions in a stable order,
// for user-facing error messages.
func SupportedExtensions() []string {
	return []string{"txt", "pdf", "docx", "jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif", "webp"}
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for an extension, or "" if unsupported.
func MapExtToFormat(ext string) Format {
	return AllowedExtensions[NormalizeExt(ext)]
}

// MimeForImageExt returns the MIME type for an accepted image extension.
func MimeForImageExt(ext string) string {
	switch NormalizeExt(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff", "tif":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
