package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Extract.MaxFileBytes != 10<<20 {
		t.Errorf("MaxFileBytes = %d, want %d", cfg.Extract.MaxFileBytes, 10<<20)
	}
	if cfg.OCR.Timeout != 120*time.Second {
		t.Errorf("OCR.Timeout = %v, want 120s", cfg.OCR.Timeout)
	}
	if cfg.Analysis.MaxRetries != 1 {
		t.Errorf("Analysis.MaxRetries = %d, want 1", cfg.Analysis.MaxRetries)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MAX_FILE_BYTES", "1048576")
	t.Setenv("ANALYSIS_MAX_RETRIES", "3")
	t.Setenv("OCR_TIMEOUT", "30s")
	t.Setenv("TESSERACT_BIN", "/usr/bin/tesseract")

	cfg := LoadConfig()
	if cfg.Extract.MaxFileBytes != 1<<20 {
		t.Errorf("MaxFileBytes = %d, want %d", cfg.Extract.MaxFileBytes, 1<<20)
	}
	if cfg.Analysis.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Analysis.MaxRetries)
	}
	if cfg.OCR.Timeout != 30*time.Second {
		t.Errorf("OCR.Timeout = %v, want 30s", cfg.OCR.Timeout)
	}
	if cfg.OCR.Tesseract != "/usr/bin/tesseract" {
		t.Errorf("Tesseract = %q", cfg.OCR.Tesseract)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		return LoadConfig()
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg = valid()
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted a missing API key")
	}

	cfg = valid()
	cfg.Extract.MaxFileBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted a zero size limit")
	}

	cfg = valid()
	cfg.Analysis.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted negative retries")
	}
}
