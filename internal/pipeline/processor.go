// Package pipeline coordinates extraction, clause splitting, and the
// analyzer/verifier loop for one uploaded document.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/clarify/constants"
	"github.com/joseph-ayodele/clarify/internal/analysis"
	"github.com/joseph-ayodele/clarify/internal/clause"
	"github.com/joseph-ayodele/clarify/internal/detect"
	"github.com/joseph-ayodele/clarify/internal/extract"
	"github.com/joseph-ayodele/clarify/internal/store"
)

// ExtractOutput pairs an extraction result with its audit job id.
type ExtractOutput struct {
	JobID  uuid.UUID
	Result extract.Result
	Format constants.Format
}

// ExplainOutput is the full pipeline result for one document.
type ExplainOutput struct {
	JobID      uuid.UUID
	Extraction extract.Result
	Outcome    analysis.Outcome
}

// Processor owns no cross-request state; every run is request-scoped.
type Processor struct {
	extractor  *extract.Orchestrator
	controller *analysis.Controller
	jobs       *store.Store // nil disables the audit log
	logger     *slog.Logger
}

func NewProcessor(extractor *extract.Orchestrator, controller *analysis.Controller, jobs *store.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, controller: controller, jobs: jobs, logger: logger}
}

// Extract runs the extraction stage only.
func (p *Processor) Extract(ctx context.Context, doc extract.UploadedDocument) (ExtractOutput, error) {
	jobID := uuid.New()
	p.startJob(ctx, jobID, doc.Filename)

	res, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		p.failJob(ctx, jobID, err)
		return ExtractOutput{JobID: jobID}, err
	}

	var format constants.Format
	if det, derr := detect.Detect(doc.Data, doc.Filename); derr == nil {
		format = det.Format
	}
	if p.jobs != nil {
		if serr := p.jobs.FinishExtract(ctx, jobID, format, res.Method, res.Confidence, res.Pages); serr != nil {
			p.logger.Warn("pipeline.audit_write_failed", "job_id", jobID, "error", serr)
		}
	}
	return ExtractOutput{JobID: jobID, Result: res, Format: format}, nil
}

// Explain runs the full pipeline: extract, split into clauses, then the
// analyzer/verifier loop. On retry exhaustion the result is returned
// best-effort with Outcome.Verified = false, not an error.
func (p *Processor) Explain(ctx context.Context, doc extract.UploadedDocument, role, language string) (ExplainOutput, error) {
	jobID := uuid.New()
	p.startJob(ctx, jobID, doc.Filename)

	res, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		p.failJob(ctx, jobID, err)
		return ExplainOutput{JobID: jobID}, err
	}

	parts := clause.Split(res.Text)
	clauses := make([]analysis.Clause, 0, len(parts))
	for i, text := range parts {
		clauses = append(clauses, analysis.Clause{Index: i, Text: text})
	}
	p.logger.Info("pipeline.clauses_split", "job_id", jobID, "clauses", len(clauses))

	outcome, err := p.controller.Run(ctx, clauses, role, language)
	if err != nil {
		// Only context cancellation escapes the controller.
		p.failJob(ctx, jobID, err)
		return ExplainOutput{JobID: jobID}, err
	}

	if p.jobs != nil {
		if serr := p.jobs.FinishAnalysis(ctx, jobID, len(clauses), outcome.Verified); serr != nil {
			p.logger.Warn("pipeline.audit_write_failed", "job_id", jobID, "error", serr)
		}
	}
	return ExplainOutput{JobID: jobID, Extraction: res, Outcome: outcome}, nil
}

// Job exposes the audit row for a request id.
func (p *Processor) Job(ctx context.Context, id uuid.UUID) (store.Job, error) {
	if p.jobs == nil {
		return store.Job{}, store.ErrNotFound
	}
	return p.jobs.Get(ctx, id)
}

func (p *Processor) startJob(ctx context.Context, id uuid.UUID, filename string) {
	if p.jobs == nil {
		return
	}
	if err := p.jobs.Start(ctx, id, filename); err != nil {
		p.logger.Warn("pipeline.audit_write_failed", "job_id", id, "error", err)
	}
}

func (p *Processor) failJob(ctx context.Context, id uuid.UUID, cause error) {
	if p.jobs == nil {
		return
	}
	// Audit writes must survive a canceled request context.
	if err := p.jobs.Fail(context.WithoutCancel(ctx), id, cause.Error()); err != nil {
		p.logger.Warn("pipeline.audit_write_failed", "job_id", id, "error", err)
	}
}
