package server

import "github.com/joseph-ayodele/clarify/internal/analysis"

type extractionMetadata struct {
	FileType         string  `json:"file_type,omitempty"`
	FileSize         int64   `json:"file_size"`
	ExtractionMethod string  `json:"extraction_method"`
	Confidence       float32 `json:"confidence,omitempty"`
	Pages            int     `json:"pages,omitempty"`
	Error            string  `json:"error,omitempty"`
}

type extractionEnvelope struct {
	Text     string             `json:"text"`
	Metadata extractionMetadata `json:"metadata"`
}

type explainResponse struct {
	JobID    string                       `json:"job_id"`
	Verified bool                         `json:"verified"`
	Attempts int                          `json:"attempts"`
	Clauses  []analysis.ClauseExplanation `json:"clauses"`
	Metadata extractionMetadata           `json:"metadata"`
}

type jobResponse struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	Format      string  `json:"format,omitempty"`
	Method      string  `json:"method,omitempty"`
	Confidence  float32 `json:"confidence,omitempty"`
	Pages       int     `json:"pages,omitempty"`
	ClauseCount int     `json:"clause_count,omitempty"`
	Status      string  `json:"status"`
	Error       string  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}
