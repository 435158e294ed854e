package split

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/payroll-tools/payslip-mailer/constants"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

// Splitter stages one single-page PDF per page of the source document in a
// run-scoped directory. The directory is exclusively owned by the current run
// and must be reclaimed with Purge when the run ends.
type Splitter struct {
	root   string
	logger *zap.Logger
}

func NewSplitter(root string, logger *zap.Logger) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Splitter{root: root, logger: logger}
}

// StagingDir returns the staging directory for a month/year label.
func (s *Splitter) StagingDir(month, year string) string {
	return filepath.Join(s.root, constants.StagingDirName(month, year))
}

// Split writes pages 0..P-1 of the source document into the staging
// directory, clearing any leftovers from a previous run with the same label.
func (s *Splitter) Split(ctx context.Context, srcPath, month, year string) ([]entity.PageDocument, error) {
	dir := s.StagingDir(month, year)
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clear staging dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", dir, err)
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}
	pageCount, err := api.PageCount(bytes.NewReader(src), nil)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	pages := make([]entity.PageDocument, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		outPath := filepath.Join(dir, constants.PageFileName(i))
		out, err := os.Create(outPath)
		if err != nil {
			return nil, fmt.Errorf("create page file %s: %w", outPath, err)
		}
		// Page selections are 1-based; staged file names are 0-based.
		err = api.Trim(bytes.NewReader(src), out, []string{strconv.Itoa(i + 1)}, nil)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, entity.PageDocument{Index: i, Path: outPath})
	}

	s.logger.Info("source document split",
		zap.String("dir", dir), zap.Int("pages", pageCount))
	return pages, nil
}

// Purge removes the staging directory and everything in it. Purge is safe to
// call whether or not Split succeeded.
func (s *Splitter) Purge(month, year string) {
	dir := s.StagingDir(month, year)
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("staging purge failed", zap.String("dir", dir), zap.Error(err))
		return
	}
	s.logger.Info("staging purged", zap.String("dir", dir))
}
