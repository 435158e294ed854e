package report

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

// Build renders the run's record table as an XLSX workbook (as bytes),
// one row per employee record plus a sheet for unmatched pages.
func Build(result entity.RunResult) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Payslips"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Employee ID",
		"Employee Name",
		"Email Address",
		"Net Amount",
		"Attachment",
		"Status",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range result.Records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Code)
		write(2, r.Name)
		write(3, r.Email)
		write(4, r.Amount)
		write(5, r.AttachmentPath)
		write(6, r.Status.String())
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "C", 32)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "E", 48)
	_ = f.SetColWidth(sheet, "F", "F", 16)

	if len(result.Unmatched) > 0 {
		const skipped = "Unmatched Pages"
		if _, err := f.NewSheet(skipped); err != nil {
			return nil, err
		}
		_ = f.SetCellValue(skipped, "A1", "Page")
		_ = f.SetCellValue(skipped, "B1", "Employee ID")
		_ = f.SetCellValue(skipped, "C1", "Reason")
		for i, u := range result.Unmatched {
			_ = f.SetCellValue(skipped, fmt.Sprintf("A%d", i+2), u.Index)
			_ = f.SetCellValue(skipped, fmt.Sprintf("B%d", i+2), u.Code)
			_ = f.SetCellValue(skipped, fmt.Sprintf("C%d", i+2), u.Reason)
		}
		_ = f.SetColWidth(skipped, "C", "C", 28)
	}

	// Drop the default sheet excelize creates.
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write materializes the workbook at path.
func Write(result entity.RunResult, path string) error {
	data, err := Build(result)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
