package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/clarify/internal/common"
	"github.com/joseph-ayodele/clarify/internal/llm"
)

// Analyzer produces plain-language explanations for a batch of clauses in
// one generation call. Stateless across calls.
type Analyzer struct {
	gen         llm.Generator
	temperature float32
	logger      *slog.Logger
}

func NewAnalyzer(gen llm.Generator, temperature float32, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{gen: gen, temperature: temperature, logger: logger}
}

// Explain issues ONE batched request for all clauses (never one per
// clause). Fails with ErrGenerationFailed, ErrSchemaMismatch, or
// ErrCountMismatch. Output order mirrors input clause order.
func (a *Analyzer) Explain(ctx context.Context, clauses []Clause, role, language string, feedback []VerificationFeedback) ([]ClauseExplanation, error) {
	start := time.Now()
	schema := explanationSchema()

	content, err := a.gen.Complete(ctx, llm.ChatRequest{
		Temperature: a.temperature,
		ForceJSON:   true,
		Messages: []llm.Message{
			{Role: "system", Content: analyzerSystemPrompt(role, language)},
			{Role: "system", Content: "JSON Schema:\n" + mustJSON(schema)},
			{Role: "user", Content: analyzerUserPrompt(clauses, feedback)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrGenerationFailed, err)
	}

	raw := []byte(content)
	if err := llm.ValidateJSONAgainstSchema(schema, raw); err != nil {
		a.logger.Error("analyzer.schema_validation_failed", "error", err, "content_bytes", len(raw))
		return nil, fmt.Errorf("%w: %w", common.ErrSchemaMismatch, err)
	}

	var envelope struct {
		Explanations []ClauseExplanation `json:"explanations"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode explanations: %w", common.ErrSchemaMismatch, err)
	}
	if len(envelope.Explanations) != len(clauses) {
		a.logger.Error("analyzer.count_mismatch",
			"want", len(clauses), "got", len(envelope.Explanations))
		return nil, fmt.Errorf("%w: got %d explanations for %d clauses",
			common.ErrCountMismatch, len(envelope.Explanations), len(clauses))
	}

	a.logger.Info("analyzer.ok",
		"clauses", len(clauses),
		"with_feedback", len(feedback) > 0,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return envelope.Explanations, nil
}

func analyzerSystemPrompt(role, language string) string {
	if role == "" {
		role = "a non-expert reader"
	}
	if language == "" {
		language = "English"
	}
	parts := []string{
		"You are a legal document explainer. For each clause you receive, write a plain-language explanation a non-expert can understand.",
		"The reader is " + role + ". Write explanations in " + language + ".",
		"Ground every explanation SOLELY in its source clause. Never add facts, consequences, or obligations the clause does not state.",
		"For each clause, list the jargon terms it contains with short definitions; use an empty list when there is none.",
		"Return ONLY JSON matching the provided schema, with exactly one entry per input clause, in the same order as the input.",
		"Set each entry's original_text to the clause text it explains.",
	}
	return strings.Join(parts, " ")
}

func analyzerUserPrompt(clauses []Clause, feedback []VerificationFeedback) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Explain the following %d clauses.\n", len(clauses)))
	for _, c := range clauses {
		b.WriteString(fmt.Sprintf("\nClause %d:\n%s\n", c.Index+1, c.Text))
	}

	if len(feedback) > 0 {
		b.WriteString("\nA previous attempt failed verification. Regenerate ONLY the explanations for the clauses identified below and keep every other explanation verbatim:\n")
		for _, f := range feedback {
			if f.ClauseFingerprint != "" {
				b.WriteString(fmt.Sprintf("- clause containing %q: %s\n", f.ClauseFingerprint, f.Reason))
			} else {
				b.WriteString(fmt.Sprintf("- %s\n", f.Reason))
			}
		}
	}
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
