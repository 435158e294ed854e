package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/payroll-tools/payslip-mailer/internal/common"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
	"github.com/payroll-tools/payslip-mailer/internal/extract"
)

// Splitter stages one single-page document per source page.
type Splitter interface {
	Split(ctx context.Context, srcPath, month, year string) ([]entity.PageDocument, error)
	Purge(month, year string)
}

// RecordDispatcher delivers the resolved records.
type RecordDispatcher interface {
	Dispatch(ctx context.Context, runID uuid.UUID, creds entity.Credentials, subject string, records []entity.EmployeeRecord) (int, []entity.EmployeeRecord, error)
}

// RunRecorder persists run-level audit rows.
type RunRecorder interface {
	BeginRun(ctx context.Context, runID uuid.UUID, month, year string) error
	FinishRun(ctx context.Context, runID uuid.UUID, totalPages, emailsSent int) error
}

// RunRequest carries everything the operator supplies for one run.
type RunRequest struct {
	Credentials entity.Credentials
	SourcePath  string // multi-page payslip document
	RosterPath  string // employee workbook
	Subject     string
	Month       string
	Year        string
}

// Orchestrator sequences one run: roster, split, resolve, dispatch, purge.
// Runs are strictly sequential; the staging area belongs to the current run
// and is reclaimed whether or not the run succeeds.
type Orchestrator struct {
	LoadRoster func(path string) (RosterLookup, error)
	Splitter   Splitter
	Extractor  extract.TextExtractor
	Matcher    *extract.Matcher
	Dispatcher RecordDispatcher
	Audit      RunRecorder // optional
	Logger     *zap.Logger
}

// Run executes the pipeline. Failures come back as tagged errors
// (common.ErrRosterLoad, ErrSourceDocument, ErrStaging, ErrAuthFailed)
// rather than panics; on authentication failure the resolved records are
// still returned so the operator sees the table with zero sent.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (res entity.RunResult, err error) {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("run panicked", zap.Any("panic", r))
			res = entity.RunResult{RunID: res.RunID}
			err = common.NewAppError("RUN_PANIC", fmt.Sprintf("%v", r), common.ErrInternal)
		}
	}()

	res.RunID = uuid.New()
	if o.Audit != nil {
		if aerr := o.Audit.BeginRun(ctx, res.RunID, req.Month, req.Year); aerr != nil {
			log.Warn("audit begin failed", zap.Error(aerr))
		}
	}

	log.Info("loading roster", zap.String("path", req.RosterPath))
	index, lerr := o.LoadRoster(req.RosterPath)
	if lerr != nil {
		return entity.RunResult{RunID: res.RunID}, fmt.Errorf("%w: %w", common.ErrRosterLoad, lerr)
	}

	// Staging is reclaimed no matter how far the run gets from here on.
	defer o.Splitter.Purge(req.Month, req.Year)

	pages, serr := o.Splitter.Split(ctx, req.SourcePath, req.Month, req.Year)
	if serr != nil {
		return entity.RunResult{RunID: res.RunID}, fmt.Errorf("%w: %w", common.ErrSourceDocument, serr)
	}
	res.TotalPages = len(pages)

	resolver := NewResolver(o.Extractor, o.Matcher, index, log)
	for _, page := range pages {
		rec, unmatched, rerr := resolver.Resolve(ctx, page)
		if rerr != nil {
			return entity.RunResult{RunID: res.RunID}, fmt.Errorf("%w: %w", common.ErrStaging, rerr)
		}
		if rec != nil {
			res.Records = append(res.Records, *rec)
		} else {
			res.Unmatched = append(res.Unmatched, *unmatched)
		}
	}
	log.Info("pages resolved",
		zap.Int("pages", res.TotalPages),
		zap.Int("records", len(res.Records)),
		zap.Int("unmatched", len(res.Unmatched)))

	sent, records, derr := o.Dispatcher.Dispatch(ctx, res.RunID, req.Credentials, req.Subject, res.Records)
	res.Records = records
	res.EmailsSent = sent

	if o.Audit != nil {
		if aerr := o.Audit.FinishRun(ctx, res.RunID, res.TotalPages, res.EmailsSent); aerr != nil {
			log.Warn("audit finish failed", zap.Error(aerr))
		}
	}
	if derr != nil {
		return res, derr
	}

	log.Info("run complete",
		zap.Int("pages", res.TotalPages), zap.Int("emails_sent", res.EmailsSent))
	return res, nil
}
