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

// Verifier checks that each explanation is grounded solely in its source
// clause. Stateless across calls.
type Verifier struct {
	gen    llm.Generator
	logger *slog.Logger
}

func NewVerifier(gen llm.Generator, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{gen: gen, logger: logger}
}

// Verify issues one batched request covering all clause/explanation
// pairs. A structural length mismatch is caught locally and returns a
// synthetic all-failed feedback set without spending a backend call.
func (v *Verifier) Verify(ctx context.Context, clauses []Clause, explanations []ClauseExplanation) (VerificationResult, error) {
	if len(clauses) != len(explanations) {
		v.logger.Warn("verifier.length_mismatch",
			"clauses", len(clauses), "explanations", len(explanations))
		feedback := make([]VerificationFeedback, 0, len(clauses))
		for _, c := range clauses {
			feedback = append(feedback, VerificationFeedback{
				ClauseFingerprint: Fingerprint(c.Text),
				Reason: fmt.Sprintf("explanation count mismatch: %d explanations for %d clauses",
					len(explanations), len(clauses)),
			})
		}
		return VerificationResult{AllVerified: false, Feedback: feedback}, nil
	}

	start := time.Now()
	schema := verificationSchema()

	content, err := v.gen.Complete(ctx, llm.ChatRequest{
		Temperature: 0,
		ForceJSON:   true,
		Messages: []llm.Message{
			{Role: "system", Content: verifierSystemPrompt()},
			{Role: "system", Content: "JSON Schema:\n" + mustJSON(schema)},
			{Role: "user", Content: verifierUserPrompt(clauses, explanations)},
		},
	})
	if err != nil {
		return VerificationResult{}, fmt.Errorf("%w: %w", common.ErrGenerationFailed, err)
	}

	raw := []byte(content)
	if err := llm.ValidateJSONAgainstSchema(schema, raw); err != nil {
		v.logger.Error("verifier.schema_validation_failed", "error", err, "content_bytes", len(raw))
		return VerificationResult{}, fmt.Errorf("%w: %w", common.ErrSchemaMismatch, err)
	}

	var verdict struct {
		AllVerified bool `json:"all_verified"`
		Failures    []struct {
			ClauseQuote string `json:"clause_quote"`
			Reason      string `json:"reason"`
		} `json:"failures"`
	}
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return VerificationResult{}, fmt.Errorf("%w: decode verdict: %w", common.ErrSchemaMismatch, err)
	}

	res := VerificationResult{AllVerified: verdict.AllVerified && len(verdict.Failures) == 0}
	for _, f := range verdict.Failures {
		res.Feedback = append(res.Feedback, VerificationFeedback{
			ClauseFingerprint: f.ClauseQuote,
			Reason:            f.Reason,
		})
	}

	v.logger.Info("verifier.ok",
		"pairs", len(clauses),
		"all_verified", res.AllVerified,
		"failures", len(res.Feedback),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func verifierSystemPrompt() string {
	parts := []string{
		"You are a fact-grounding verifier for legal clause explanations.",
		"For each clause/explanation pair, decide whether the explanation is grounded SOLELY in its source clause.",
		"An explanation is INVALID if it introduces facts absent from the clause or misrepresents the clause. It is VALID otherwise.",
		"For every invalid pair, quote a short unique substring of the offending CLAUSE (not the explanation, not its position) in clause_quote, and state the reason briefly.",
		"Set all_verified to true only when every pair is valid, and return ONLY JSON matching the provided schema.",
	}
	return strings.Join(parts, " ")
}

func verifierUserPrompt(clauses []Clause, explanations []ClauseExplanation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Verify the following %d clause/explanation pairs.\n", len(clauses)))
	for i, c := range clauses {
		b.WriteString(fmt.Sprintf("\nPair %d\nClause:\n%s\nExplanation:\n%s\n",
			i+1, c.Text, explanations[i].PlainExplanation))
	}
	return b.String()
}
