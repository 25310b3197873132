package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Extract  ExtractConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
	DB       DBConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string
	MaxConcurrent   int // cap on simultaneous extract/explain requests
	ShutdownTimeout time.Duration
}

// ExtractConfig holds extraction limits.
type ExtractConfig struct {
	MaxFileBytes int64 // reject uploads larger than this before processing
}

// OCRConfig holds OCR fallback chain configuration.
type OCRConfig struct {
	Timeout       time.Duration // per-backend attempt budget
	Tesseract     string        // binary name or absolute path; empty disables the secondary backend
	Pdftoppm      string        // rasterizer for scanned PDFs, default "pdftoppm"
	TesseractLang string        // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
}

// LLMConfig holds generation-service configuration.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string // text model for analyzer/verifier calls
	VisionModel string // vision-capable model for the primary OCR backend
	Temperature float32
	Timeout     time.Duration // per text call
	MaxAttempts int           // transient retry budget for a single HTTP call
}

// AnalysisConfig holds the analyzer/verifier loop configuration.
type AnalysisConfig struct {
	MaxRetries int // additional attempts after the first; 1 = 2 attempts total
}

// DBConfig holds the job audit log location.
type DBConfig struct {
	Path string // sqlite file path; empty disables the audit log
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			MaxConcurrent:   getEnvAsInt("MAX_CONCURRENT_REQUESTS", 4),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Extract: ExtractConfig{
			MaxFileBytes: getEnvAsInt64("MAX_FILE_BYTES", 10<<20),
		},
		OCR: OCRConfig{
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 120*time.Second),
			Tesseract:     getEnv("TESSERACT_BIN", ""),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_PDF_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_PDF_MAX_PAGES", 0),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			VisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxAttempts: getEnvAsInt("OPENAI_MAX_ATTEMPTS", 3),
		},
		Analysis: AnalysisConfig{
			MaxRetries: getEnvAsInt("ANALYSIS_MAX_RETRIES", 1),
		},
		DB: DBConfig{
			Path: getEnv("DB_PATH", "clarify.db"),
		},
	}
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", nil)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", nil)
	}
	if c.Extract.MaxFileBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_FILE_BYTES must be positive", nil)
	}
	if c.Analysis.MaxRetries < 0 {
		return NewAppError("CONFIG_ERROR", "ANALYSIS_MAX_RETRIES must be >= 0", nil)
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
