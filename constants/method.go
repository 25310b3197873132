package constants

// Method identifies which technique produced plain text from a source file.
type Method string

const (
	MethodDirectText   Method = "direct-text"
	MethodPDFParse     Method = "pdf-parse"
	MethodDocxParse    Method = "docx-parse"
	MethodOCRPrimary   Method = "ocr-vision"
	MethodOCRSecondary Method = "ocr-tesseract"
)

// Fixed per-method confidence heuristics. These inform the caller's UI
// only and never gate success or failure.
const (
	ConfidenceDirectText   float32 = 1.0
	ConfidencePDFParse     float32 = 0.99
	ConfidenceDocxParse    float32 = 0.99
	ConfidenceOCRPrimary   float32 = 0.95
	ConfidenceOCRSecondary float32 = 0.90
)
