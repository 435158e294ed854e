package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/payroll-tools/payslip-mailer/internal/common"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

// Index maps employee code to roster entries. Duplicate codes keep the first
// row seen.
type Index struct {
	entries map[string]entity.RosterEntry
}

// Load reads the first sheet of the roster workbook and builds the index.
// Column headers are matched after trimming surrounding whitespace.
func Load(path string, cfg common.RosterConfig) (*Index, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("roster workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read roster rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("roster workbook has no header row")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		header = strings.TrimSpace(header)
		if _, seen := cols[header]; !seen {
			cols[header] = i
		}
	}
	codeCol, ok := cols[cfg.CodeHeader]
	if !ok {
		return nil, fmt.Errorf("roster missing %q column", cfg.CodeHeader)
	}
	nameCol, ok := cols[cfg.NameHeader]
	if !ok {
		return nil, fmt.Errorf("roster missing %q column", cfg.NameHeader)
	}
	emailCol, ok := cols[cfg.EmailHeader]
	if !ok {
		return nil, fmt.Errorf("roster missing %q column", cfg.EmailHeader)
	}

	idx := &Index{entries: make(map[string]entity.RosterEntry, len(rows)-1)}
	for _, row := range rows[1:] {
		code := strings.TrimSpace(cell(row, codeCol))
		if code == "" {
			continue
		}
		if _, dup := idx.entries[code]; dup {
			continue // first match wins
		}
		idx.entries[code] = entity.RosterEntry{
			Code:  code,
			Name:  strings.TrimSpace(cell(row, nameCol)),
			Email: strings.TrimSpace(cell(row, emailCol)),
		}
	}
	return idx, nil
}

// Lookup returns the entry for an employee code by exact string match.
func (ix *Index) Lookup(code string) (entity.RosterEntry, bool) {
	entry, ok := ix.entries[code]
	return entry, ok
}

// Len reports how many distinct codes the roster carries.
func (ix *Index) Len() int { return len(ix.entries) }

func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}
