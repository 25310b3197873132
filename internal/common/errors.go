package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the extraction and analysis pipeline. Wrap with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyExtraction   = errors.New("empty extraction")
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrOCRFailed         = errors.New("ocr failed")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrCountMismatch     = errors.New("count mismatch")
)

// AppError carries a stable code and a user-facing message alongside the cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// HTTPStatus maps pipeline errors to boundary status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrEmptyExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrOCRFailed),
		errors.Is(err, ErrGenerationFailed),
		errors.Is(err, ErrSchemaMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage renders a plain-language cause plus a suggested remedy for
// every terminal pipeline error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "The file is too large. Upload a smaller file or split the document."
	case errors.Is(err, ErrUnsupportedFormat):
		return "This file type is not supported. Upload a txt, pdf, docx, or image file."
	case errors.Is(err, ErrEmptyExtraction):
		return "No readable text was found in the document. If it is a scan, make sure the pages are legible."
	case errors.Is(err, ErrOCRFailed):
		return "Text recognition failed for this document. Try a clearer scan or a text-based copy."
	case errors.Is(err, ErrGenerationFailed), errors.Is(err, ErrSchemaMismatch):
		return "The analysis service is temporarily unavailable. Please try again in a moment."
	default:
		return "Something went wrong while processing the document. Please try again."
	}
}
