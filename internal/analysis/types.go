// Package analysis turns clause text into plain-language explanations
// that are checked for factual grounding before being returned.
package analysis

import (
	"strings"
)

// Clause is one contiguous text span from the source document. Position
// matters for traceability, not for correctness of explanation.
type Clause struct {
	Index int
	Text  string
}

// JargonTerm defines one term used in a clause, owned by exactly one
// ClauseExplanation.
type JargonTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// ClauseExplanation is the analyzer's output for one clause.
type ClauseExplanation struct {
	OriginalText     string       `json:"original_text"`
	PlainExplanation string       `json:"plain_english_explanation"`
	JargonTerms      []JargonTerm `json:"jargon_terms"`
}

// VerificationFeedback identifies a failed clause by a quoted substring
// rather than an index, so it stays meaningful even if clause ordering is
// perturbed in a later attempt. Exists only during one retry cycle.
type VerificationFeedback struct {
	ClauseFingerprint string
	Reason            string
}

// VerificationResult is the verifier's verdict for one explanation batch.
type VerificationResult struct {
	AllVerified bool
	Feedback    []VerificationFeedback
}

// fingerprintRunes is long enough to be unique within a document in
// practice while staying quotable in a prompt.
const fingerprintRunes = 48

// Fingerprint derives a short unique substring from clause text, used to
// correlate verifier feedback across retries.
func Fingerprint(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= fingerprintRunes {
		return string(r)
	}
	return string(r[:fingerprintRunes])
}
