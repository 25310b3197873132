package detect

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/clarify/constants"
	"github.com/joseph-ayodele/clarify/internal/common"
)

var (
	pdfHeader  = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
	zipHeader  = []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		want     constants.Format
	}{
		{"pdf magic", pdfHeader, "contract.pdf", constants.FormatPDF},
		{"pdf magic wrong extension", pdfHeader, "contract.txt", constants.FormatPDF},
		{"png magic", pngHeader, "scan.png", constants.FormatImage},
		{"jpeg magic", jpegHeader, "scan.jpg", constants.FormatImage},
		{"gif magic", gifHeader, "scan.gif", constants.FormatImage},
		{"zip with docx extension", zipHeader, "lease.docx", constants.FormatDocx},
		{"plain ascii text", []byte("This agreement is made between the parties."), "lease.txt", constants.FormatText},
		{"utf8 text with bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello clause")...), "notes.txt", constants.FormatText},
		{"empty data txt extension", nil, "empty.txt", constants.FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.data, tt.filename)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got.Format != tt.want {
				t.Errorf("Detect() format = %q, want %q", got.Format, tt.want)
			}
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
	}{
		{"unknown binary unknown extension", []byte{0x00, 0x01, 0x02, 0x03}, "firmware.bin"},
		{"zip without docx extension", zipHeader, "archive.zip"},
		{"no data no extension", nil, "README"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect(tt.data, tt.filename)
			if !errors.Is(err, common.ErrUnsupportedFormat) {
				t.Fatalf("Detect() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestDetectDeterministic(t *testing.T) {
	first, err := Detect(pdfHeader, "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := Detect(pdfHeader, "a.pdf")
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("Detect() not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestDetectExtensionFallback(t *testing.T) {
	// Bytes are inconclusive; the declared extension decides.
	got, err := Detect(nil, "photo.JPEG")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got.Format != constants.FormatImage {
		t.Errorf("format = %q, want %q", got.Format, constants.FormatImage)
	}
	if got.Ext != "jpeg" {
		t.Errorf("ext = %q, want %q", got.Ext, "jpeg")
	}
}
