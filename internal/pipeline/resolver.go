package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/payroll-tools/payslip-mailer/constants"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
	"github.com/payroll-tools/payslip-mailer/internal/extract"
)

// RosterLookup is the resolver's view of the roster index.
type RosterLookup interface {
	Lookup(code string) (entity.RosterEntry, bool)
}

// Resolver classifies one staged page at a time: extract text, match the
// identifier and amount, join against the roster, and either produce an
// EmployeeRecord or report the page as unmatched.
type Resolver struct {
	Extractor extract.TextExtractor
	Matcher   *extract.Matcher
	Roster    RosterLookup
	Logger    *zap.Logger
}

func NewResolver(extractor extract.TextExtractor, matcher *extract.Matcher, roster RosterLookup, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Extractor: extractor, Matcher: matcher, Roster: roster, Logger: logger}
}

// Resolve returns exactly one of record or unmatched on success. A record
// that is ready to send has its staged file renamed to the operator-legible
// attachment name; only filesystem or document-open failures are errors.
func (r *Resolver) Resolve(ctx context.Context, page entity.PageDocument) (*entity.EmployeeRecord, *entity.UnmatchedPage, error) {
	text, err := r.Extractor.PageText(ctx, page.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("page %d text: %w", page.Index, err)
	}

	code, amount := r.Matcher.Match(text)
	if code == "" || amount == "" {
		r.Logger.Info("page has no extractable fields", zap.Int("page", page.Index))
		return nil, &entity.UnmatchedPage{Index: page.Index, Reason: entity.ReasonNoFields}, nil
	}

	entry, ok := r.Roster.Lookup(code)
	if !ok {
		r.Logger.Info("employee code not in roster",
			zap.Int("page", page.Index), zap.String("code", code))
		return nil, &entity.UnmatchedPage{Index: page.Index, Code: code, Reason: entity.ReasonNotInRoster}, nil
	}

	if entry.Email == "" {
		return &entity.EmployeeRecord{
			Code:   code,
			Name:   entry.Name,
			Amount: amount,
			Status: constants.StatusNoEmailFound,
		}, nil, nil
	}

	dest := filepath.Join(filepath.Dir(page.Path), constants.AttachmentFileName(code, entry.Name))
	if err := os.Rename(page.Path, dest); err != nil {
		return nil, nil, fmt.Errorf("rename page %d attachment: %w", page.Index, err)
	}
	return &entity.EmployeeRecord{
		Code:           code,
		Name:           entry.Name,
		Email:          entry.Email,
		Amount:         amount,
		AttachmentPath: dest,
		Status:         constants.StatusReadyToSend,
	}, nil, nil
}
