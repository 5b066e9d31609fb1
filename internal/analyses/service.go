package analyses

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"internship-ats/internal/extract"
	"internship-ats/internal/llm"
	"internship-ats/internal/resumes"
	"internship-ats/internal/shared/metrics"
	"internship-ats/internal/shared/storage/object"
	"internship-ats/internal/shared/telemetry"
)

// Service runs the résumé evaluation pipeline: extract, prompt, complete,
// interpret and persist. It holds no per-request state.
type Service struct {
	LLM           llm.Client
	Repo          resumes.Repo
	Store         object.ObjectStore
	Collection    string
	PromptVersion string
	Now           func() time.Time
}

// AnalyzeInput is one uploaded résumé plus the job description to score it against.
type AnalyzeInput struct {
	FileName       string
	Data           []byte
	JobDescription string
}

// AnalyzeResult is the outcome of a full analysis.
type AnalyzeResult struct {
	RecordID   string
	ResumeText string
	Evaluation Evaluation
}

// Extract returns the text of an uploaded PDF.
func (s *Service) Extract(ctx context.Context, fileName string, data []byte) (extract.Document, error) {
	doc, err := extract.FromBytes(ctx, data)
	if err != nil {
		return extract.Document{}, fmt.Errorf("extract %s: %w", fileName, err)
	}
	if doc.SkippedPages > 0 {
		telemetry.Info("resume.extract.skipped_pages", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"file_name":  fileName,
			"pages":      doc.PageCount,
			"skipped":    doc.SkippedPages,
		})
	}
	return doc, nil
}

// Evaluate scores resumeText against jobDescription. Model failures are
// returned wrapped in ErrModelUnavailable; unparseable output is not an error.
func (s *Service) Evaluate(ctx context.Context, resumeText, jobDescription string) (Evaluation, error) {
	if s.LLM == nil {
		return Evaluation{}, fmt.Errorf("%w: no client", ErrModelUnavailable)
	}
	tmpl, ok := llm.PromptTemplate(s.PromptVersion)
	if !ok {
		telemetry.Warn("llm.prompt.unknown_version", map[string]any{
			"prompt_version": s.PromptVersion,
			"fallback":       llm.DefaultPromptVersion,
		})
	}
	prompt := llm.BuildPrompt(tmpl, resumeText, jobDescription)
	promptHash := llm.PromptHash(prompt)

	started := s.now()
	raw, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		telemetry.Error("llm.complete.failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"prompt_hash": promptHash,
			"error":       err,
		})
		return Evaluation{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	eval := Interpret(raw)
	fields := map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"prompt_hash":  promptHash,
		"duration_ms":  s.now().Sub(started).Milliseconds(),
		"parse_failed": eval.Failed(),
	}
	if eval.Failed() {
		metrics.IncEvaluationParseFailed()
		fields["raw_len"] = len(raw)
		telemetry.Warn("llm.response.unparsed", fields)
	} else {
		telemetry.Info("llm.response.parsed", fields)
	}
	return eval, nil
}

// Analyze extracts, evaluates and records one résumé. The raw upload is
// archived when an object store is configured.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResult, error) {
	started := s.now()
	metrics.IncAnalysisStarted()

	res, err := s.analyze(ctx, in)
	metrics.ObserveAnalysisDuration(s.now().Sub(started))
	fields := map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"file_name":   in.FileName,
		"duration_ms": s.now().Sub(started).Milliseconds(),
	}
	if err != nil {
		metrics.IncAnalysisFailed()
		fields["error"] = err
		telemetry.Error("analysis.failed", fields)
		return AnalyzeResult{}, err
	}
	metrics.IncAnalysisCompleted()
	fields["record_id"] = res.RecordID
	fields["parse_failed"] = res.Evaluation.Failed()
	telemetry.Info("analysis.completed", fields)
	return res, nil
}

func (s *Service) analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResult, error) {
	if in.FileName == "" {
		return AnalyzeResult{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	doc, err := s.Extract(ctx, in.FileName, in.Data)
	if err != nil {
		return AnalyzeResult{}, err
	}

	eval, err := s.Evaluate(ctx, doc.Text, in.JobDescription)
	if err != nil {
		return AnalyzeResult{}, err
	}

	rec := resumes.Record{
		ID:         uuid.NewString(),
		Collection: s.Collection,
		FileName:   in.FileName,
		Text:       doc.Text,
		StorageKey: s.archive(ctx, in),
		UploadedAt: s.now().UTC(),
	}
	if err := s.Repo.Insert(ctx, rec); err != nil {
		return AnalyzeResult{}, fmt.Errorf("%w: insert record %s: %w", ErrPersistence, rec.ID, err)
	}

	return AnalyzeResult{
		RecordID:   rec.ID,
		ResumeText: doc.Text,
		Evaluation: eval,
	}, nil
}

// archive stores the raw upload and returns its key. Archive failures are
// logged and leave the record without a storage key.
func (s *Service) archive(ctx context.Context, in AnalyzeInput) string {
	if s.Store == nil {
		return ""
	}
	obj, err := s.Store.Save(ctx, s.Collection, in.FileName, bytes.NewReader(in.Data))
	if err != nil {
		telemetry.Warn("resume.archive.failed", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"file_name":  in.FileName,
			"error":      err,
		})
		return ""
	}
	return obj.Key
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
