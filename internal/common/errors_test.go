package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"too large", ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported", ErrUnsupportedFormat, http.StatusUnsupportedMediaType},
		{"empty", ErrEmptyExtraction, http.StatusUnprocessableEntity},
		{"ocr", ErrOCRFailed, http.StatusBadGateway},
		{"generation", ErrGenerationFailed, http.StatusBadGateway},
		{"schema", ErrSchemaMismatch, http.StatusBadGateway},
		{"wrapped twice", fmt.Errorf("%w: %w", ErrExtractionFailed, ErrOCRFailed), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserMessageAlwaysSet(t *testing.T) {
	for _, err := range []error{
		ErrFileTooLarge, ErrUnsupportedFormat, ErrEmptyExtraction,
		ErrOCRFailed, ErrGenerationFailed, ErrSchemaMismatch,
		errors.New("boom"),
	} {
		if UserMessage(err) == "" {
			t.Errorf("UserMessage(%v) is empty", err)
		}
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("%w: 12MB", ErrFileTooLarge)
	appErr := NewAppError("UPLOAD_REJECTED", "file too big", cause)

	if !errors.Is(appErr, ErrFileTooLarge) {
		t.Error("AppError does not unwrap to its cause")
	}
	var target *AppError
	if !errors.As(error(appErr), &target) || target.Code != "UPLOAD_REJECTED" {
		t.Errorf("errors.As failed or wrong code: %+v", target)
	}
}
