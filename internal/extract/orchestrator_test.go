package extract

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/joseph-ayodele/clarify/constants"
	"github.com/joseph-ayodele/clarify/internal/common"
)

// fakeRecognizer counts invocations and records what it was handed.
type fakeRecognizer struct {
	calls    int
	lastData []byte
	lastMIME string
	result   Result
	err      error
}

func (f *fakeRecognizer) Recognize(_ context.Context, data []byte, mimeType string) (Result, error) {
	f.calls++
	f.lastData = data
	f.lastMIME = mimeType
	return f.result, f.err
}

func TestExtractTextFile(t *testing.T) {
	o := NewOrchestrator(Config{}, &fakeRecognizer{}, nil)
	doc := UploadedDocument{
		Filename: "lease.txt",
		Data:     []byte("The tenant shall pay rent on the first of each month.\r\n"),
	}
	res, err := o.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != constants.MethodDirectText {
		t.Errorf("method = %q, want %q", res.Method, constants.MethodDirectText)
	}
	if res.Confidence != constants.ConfidenceDirectText {
		t.Errorf("confidence = %v, want %v", res.Confidence, constants.ConfidenceDirectText)
	}
	if bytes.Contains([]byte(res.Text), []byte("\r")) {
		t.Errorf("text not normalized: %q", res.Text)
	}
}

func TestExtractSizeGate(t *testing.T) {
	rec := &fakeRecognizer{}
	o := NewOrchestrator(Config{MaxFileBytes: 16}, rec, nil)
	doc := UploadedDocument{Filename: "big.txt", Data: bytes.Repeat([]byte("a"), 17)}

	_, err := o.Extract(context.Background(), doc)
	if !errors.Is(err, common.ErrFileTooLarge) {
		t.Fatalf("Extract() error = %v, want ErrFileTooLarge", err)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times before the size gate", rec.calls)
	}
}

func TestExtractEmptyTextFile(t *testing.T) {
	o := NewOrchestrator(Config{}, &fakeRecognizer{}, nil)
	doc := UploadedDocument{Filename: "blank.txt", Data: []byte("   \n\t\n")}
	_, err := o.Extract(context.Background(), doc)
	if !errors.Is(err, common.ErrEmptyExtraction) {
		t.Fatalf("Extract() error = %v, want ErrEmptyExtraction", err)
	}
}

func TestExtractUnsupported(t *testing.T) {
	o := NewOrchestrator(Config{}, &fakeRecognizer{}, nil)
	doc := UploadedDocument{Filename: "app.bin", Data: []byte{0x00, 0x01, 0x02, 0x03}}
	_, err := o.Extract(context.Background(), doc)
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("Extract() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	// Valid PDF magic, unparseable body: direct extraction fails and the
	// ORIGINAL bytes go to the recognizer exactly once.
	data := []byte("%PDF-1.7\nthis is not a real pdf body")
	rec := &fakeRecognizer{result: Result{
		Text:       "Recognized page text.",
		Method:     constants.MethodOCRPrimary,
		Confidence: constants.ConfidenceOCRPrimary,
	}}
	o := NewOrchestrator(Config{}, rec, nil)

	res, err := o.Extract(context.Background(), UploadedDocument{Filename: "scan.pdf", Data: data})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer calls = %d, want 1", rec.calls)
	}
	if !bytes.Equal(rec.lastData, data) {
		t.Error("recognizer did not receive the original upload bytes")
	}
	if rec.lastMIME != "application/pdf" {
		t.Errorf("recognizer mime = %q, want application/pdf", rec.lastMIME)
	}
	if res.Method != constants.MethodOCRPrimary {
		t.Errorf("method = %q, want %q", res.Method, constants.MethodOCRPrimary)
	}
}

func TestExtractPDFOCRExhausted(t *testing.T) {
	rec := &fakeRecognizer{err: common.ErrOCRFailed}
	o := NewOrchestrator(Config{}, rec, nil)
	data := []byte("%PDF-1.7\ngarbage")

	_, err := o.Extract(context.Background(), UploadedDocument{Filename: "scan.pdf", Data: data})
	if !errors.Is(err, common.ErrExtractionFailed) {
		t.Fatalf("Extract() error = %v, want ErrExtractionFailed", err)
	}
	if !errors.Is(err, common.ErrOCRFailed) {
		t.Fatalf("Extract() error = %v, want ErrOCRFailed in the chain", err)
	}
}

func TestExtractDocxFailureIsTerminal(t *testing.T) {
	// Zip magic with a docx extension but no word/document.xml inside:
	// docx extraction fails without touching the OCR chain.
	rec := &fakeRecognizer{result: Result{Text: "should not be used"}}
	o := NewOrchestrator(Config{}, rec, nil)
	data := []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}

	_, err := o.Extract(context.Background(), UploadedDocument{Filename: "lease.docx", Data: data})
	if !errors.Is(err, common.ErrExtractionFailed) {
		t.Fatalf("Extract() error = %v, want ErrExtractionFailed", err)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times for a docx failure", rec.calls)
	}
}

func TestExtractImageRoutesToRecognizer(t *testing.T) {
	rec := &fakeRecognizer{result: Result{
		Text:       "Sign here.",
		Method:     constants.MethodOCRPrimary,
		Confidence: constants.ConfidenceOCRPrimary,
	}}
	o := NewOrchestrator(Config{}, rec, nil)
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

	res, err := o.Extract(context.Background(), UploadedDocument{Filename: "page.png", Data: png})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer calls = %d, want 1", rec.calls)
	}
	if rec.lastMIME != "image/png" {
		t.Errorf("recognizer mime = %q, want image/png", rec.lastMIME)
	}
	if res.Text != "Sign here." {
		t.Errorf("text = %q", res.Text)
	}
}

func TestExtractRecognizerEmptyText(t *testing.T) {
	// A recognizer that "succeeds" with empty text is still a failure.
	rec := &fakeRecognizer{result: Result{Method: constants.MethodOCRPrimary}}
	o := NewOrchestrator(Config{}, rec, nil)
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	_, err := o.Extract(context.Background(), UploadedDocument{Filename: "page.png", Data: png})
	if !errors.Is(err, common.ErrEmptyExtraction) {
		t.Fatalf("Extract() error = %v, want ErrEmptyExtraction", err)
	}
}
