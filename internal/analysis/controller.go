package analysis

import (
	"context"
	"log/slog"
)

// Explainer and GroundingVerifier are the agents the controller drives;
// Analyzer and Verifier implement them.
type Explainer interface {
	Explain(ctx context.Context, clauses []Clause, role, language string, feedback []VerificationFeedback) ([]ClauseExplanation, error)
}

type GroundingVerifier interface {
	Verify(ctx context.Context, clauses []Clause, explanations []ClauseExplanation) (VerificationResult, error)
}

// loopState is the controller's explicit state machine:
// Generating → Verifying → {Done | Retrying} → Generating … → Exhausted.
type loopState int

const (
	stateGenerating loopState = iota
	stateVerifying
	stateRetrying
	stateDone
	stateExhausted
)

// attemptState is per retry-cycle scratch state, owned exclusively by the
// controller and destroyed when the cycle ends.
type attemptState struct {
	attempt          int
	lastExplanations []ClauseExplanation
	pendingFeedback  []VerificationFeedback
}

// Outcome is the controller's terminal result. On exhaustion the last
// explanation set obtained is returned, flagged unverified; the
// controller never silently claims success.
type Outcome struct {
	Explanations []ClauseExplanation
	Verified     bool
	Attempts     int
	Feedback     []VerificationFeedback // open feedback when unverified
}

// Controller drives the analyzer↔verifier loop up to a bounded number of
// attempts. MaxRetries is the number of ADDITIONAL attempts after the
// first; the default 1 means 2 attempts total.
type Controller struct {
	analyzer   Explainer
	verifier   GroundingVerifier
	maxRetries int
	logger     *slog.Logger
}

func NewController(analyzer Explainer, verifier GroundingVerifier, maxRetries int, logger *slog.Logger) *Controller {
	if maxRetries < 0 {
		maxRetries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{analyzer: analyzer, verifier: verifier, maxRetries: maxRetries, logger: logger}
}

// Run executes the loop for one explanation request. It makes at most
// maxRetries+1 analyzer calls and an equal number of verifier calls, and
// always returns exactly one explanation per input clause.
func (c *Controller) Run(ctx context.Context, clauses []Clause, role, language string) (Outcome, error) {
	if len(clauses) == 0 {
		return Outcome{Verified: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	st := attemptState{}
	state := stateGenerating

	for {
		switch state {
		case stateGenerating:
			explanations, err := c.analyzer.Explain(ctx, clauses, role, language, st.pendingFeedback)
			if err != nil {
				if ctx.Err() != nil {
					return Outcome{}, ctx.Err()
				}
				// Analyzer failure counts as a failed verification for
				// loop control; the raw error rides along as feedback.
				c.logger.Warn("controller.analyzer_failed", "attempt", st.attempt, "error", err)
				st.pendingFeedback = []VerificationFeedback{{Reason: err.Error()}}
				state = stateRetrying
				continue
			}
			st.lastExplanations = explanations
			state = stateVerifying

		case stateVerifying:
			res, err := c.verifier.Verify(ctx, clauses, st.lastExplanations)
			if err != nil {
				if ctx.Err() != nil {
					return Outcome{}, ctx.Err()
				}
				c.logger.Warn("controller.verifier_failed", "attempt", st.attempt, "error", err)
				st.pendingFeedback = []VerificationFeedback{{Reason: err.Error()}}
				state = stateRetrying
				continue
			}
			if res.AllVerified {
				state = stateDone
				continue
			}
			st.pendingFeedback = res.Feedback
			state = stateRetrying

		case stateRetrying:
			if st.attempt < c.maxRetries {
				st.attempt++
				c.logger.Info("controller.retrying",
					"attempt", st.attempt, "feedback", len(st.pendingFeedback))
				state = stateGenerating
				continue
			}
			state = stateExhausted

		case stateDone:
			c.logger.Info("controller.verified", "attempts", st.attempt+1, "clauses", len(clauses))
			return Outcome{
				Explanations: st.lastExplanations,
				Verified:     true,
				Attempts:     st.attempt + 1,
			}, nil

		case stateExhausted:
			c.logger.Warn("controller.exhausted",
				"attempts", st.attempt+1, "feedback", len(st.pendingFeedback))
			explanations := st.lastExplanations
			if explanations == nil {
				// No explanation was ever obtained: synthesize one per
				// clause so a non-empty clause list never yields an
				// empty result.
				explanations = syntheticExplanations(clauses, st.pendingFeedback)
			}
			return Outcome{
				Explanations: explanations,
				Verified:     false,
				Attempts:     st.attempt + 1,
				Feedback:     st.pendingFeedback,
			}, nil
		}
	}
}

func syntheticExplanations(clauses []Clause, feedback []VerificationFeedback) []ClauseExplanation {
	reason := "the analysis service did not return a result"
	if len(feedback) > 0 && feedback[0].Reason != "" {
		reason = feedback[0].Reason
	}
	out := make([]ClauseExplanation, 0, len(clauses))
	for _, cl := range clauses {
		out = append(out, ClauseExplanation{
			OriginalText:     cl.Text,
			PlainExplanation: "We could not generate a verified explanation for this clause: " + reason,
			JargonTerms:      []JargonTerm{},
		})
	}
	return out
}
