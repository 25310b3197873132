package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joseph-ayodele/clarify/internal/common"
)

func explanationsFor(clauses []Clause) []ClauseExplanation {
	out := make([]ClauseExplanation, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, ClauseExplanation{
			OriginalText:     c.Text,
			PlainExplanation: "plain version of: " + c.Text,
			JargonTerms:      []JargonTerm{},
		})
	}
	return out
}

func TestVerifierAllVerified(t *testing.T) {
	gen := &fakeGenerator{content: `{"all_verified": true, "failures": []}`}
	v := NewVerifier(gen, nil)

	res, err := v.Verify(context.Background(), testClauses, explanationsFor(testClauses))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !res.AllVerified {
		t.Error("AllVerified = false, want true")
	}
	if len(res.Feedback) != 0 {
		t.Errorf("feedback = %#v, want none", res.Feedback)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1 batched call", gen.calls)
	}
}

func TestVerifierFailures(t *testing.T) {
	gen := &fakeGenerator{content: `{
  "all_verified": false,
  "failures": [
    {"clause_quote": "late fee of $50", "reason": "explanation invents a grace period"}
  ]
}`}
	v := NewVerifier(gen, nil)

	res, err := v.Verify(context.Background(), testClauses, explanationsFor(testClauses))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if res.AllVerified {
		t.Error("AllVerified = true with failures present")
	}
	if len(res.Feedback) != 1 {
		t.Fatalf("feedback = %#v, want 1 entry", res.Feedback)
	}
	if res.Feedback[0].ClauseFingerprint != "late fee of $50" {
		t.Errorf("fingerprint = %q", res.Feedback[0].ClauseFingerprint)
	}
}

func TestVerifierInconsistentVerdict(t *testing.T) {
	// all_verified true alongside failures: failures win.
	gen := &fakeGenerator{content: `{
  "all_verified": true,
  "failures": [{"clause_quote": "late fee", "reason": "ungrounded"}]
}`}
	v := NewVerifier(gen, nil)

	res, err := v.Verify(context.Background(), testClauses, explanationsFor(testClauses))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if res.AllVerified {
		t.Error("AllVerified = true despite reported failures")
	}
}

func TestVerifierLengthMismatchIsLocal(t *testing.T) {
	// A structural mismatch never spends a backend call; every clause gets
	// synthetic feedback carrying its fingerprint.
	gen := &fakeGenerator{content: `{"all_verified": true, "failures": []}`}
	v := NewVerifier(gen, nil)

	res, err := v.Verify(context.Background(), testClauses, explanationsFor(testClauses)[:1])
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator calls = %d, want 0 for a local mismatch", gen.calls)
	}
	if res.AllVerified {
		t.Error("AllVerified = true for mismatched lengths")
	}
	if len(res.Feedback) != len(testClauses) {
		t.Fatalf("feedback entries = %d, want one per clause", len(res.Feedback))
	}
	for i, f := range res.Feedback {
		if f.ClauseFingerprint != Fingerprint(testClauses[i].Text) {
			t.Errorf("feedback %d fingerprint = %q", i, f.ClauseFingerprint)
		}
		if !strings.Contains(f.Reason, "mismatch") {
			t.Errorf("feedback %d reason = %q", i, f.Reason)
		}
	}
}

func TestVerifierSchemaMismatch(t *testing.T) {
	gen := &fakeGenerator{content: `{"verdict": "looks fine"}`}
	v := NewVerifier(gen, nil)

	_, err := v.Verify(context.Background(), testClauses, explanationsFor(testClauses))
	if !errors.Is(err, common.ErrSchemaMismatch) {
		t.Fatalf("Verify() error = %v, want ErrSchemaMismatch", err)
	}
}

func TestVerifierGenerationFailed(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream timeout")}
	v := NewVerifier(gen, nil)

	_, err := v.Verify(context.Background(), testClauses, explanationsFor(testClauses))
	if !errors.Is(err, common.ErrGenerationFailed) {
		t.Fatalf("Verify() error = %v, want ErrGenerationFailed", err)
	}
}

func TestFingerprint(t *testing.T) {
	long := strings.Repeat("The tenant shall pay rent. ", 10)
	fp := Fingerprint(long)
	if got := len([]rune(fp)); got != 48 {
		t.Errorf("fingerprint length = %d runes, want 48", got)
	}
	if !strings.Contains(strings.Join(strings.Fields(long), " "), fp) {
		t.Error("fingerprint is not a substring of the collapsed clause text")
	}
	if short := Fingerprint("short clause"); short != "short clause" {
		t.Errorf("Fingerprint(short) = %q", short)
	}
	if collapsed := Fingerprint("a\n\tb   c"); collapsed != "a b c" {
		t.Errorf("Fingerprint did not collapse whitespace: %q", collapsed)
	}
}
