package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/payroll-tools/payslip-mailer/constants"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

func sampleResult() entity.RunResult {
	return entity.RunResult{
		EmailsSent: 1,
		TotalPages: 3,
		Records: []entity.EmployeeRecord{
			{
				Code: "11", Name: "Asha Verma", Email: "asha@example.com",
				Amount: "1,000.00", AttachmentPath: "May-2026/11-Asha Verma Payslip.pdf",
				Status: constants.StatusSent,
			},
			{
				Code: "22", Name: "Dev Nair", Amount: "2,000.00",
				Status: constants.StatusNoEmailFound,
			},
		},
		Unmatched: []entity.UnmatchedPage{
			{Index: 2, Reason: entity.ReasonNoFields},
		},
	}
}

func TestBuildRecordTable(t *testing.T) {
	data, err := Build(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payslips")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, []string{
		"11", "Asha Verma", "asha@example.com", "1,000.00",
		"May-2026/11-Asha Verma Payslip.pdf", "SENT",
	}, rows[1])
	assert.Equal(t, "NO_EMAIL_FOUND", rows[2][5])
}

func TestBuildUnmatchedSheet(t *testing.T) {
	data, err := Build(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Unmatched Pages")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, entity.ReasonNoFields, rows[1][2])
}

func TestBuildOmitsUnmatchedSheetWhenEmpty(t *testing.T) {
	result := sampleResult()
	result.Unmatched = nil

	data, err := Build(result)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	_, err = f.GetRows("Unmatched Pages")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(sampleResult(), path))
	assert.FileExists(t, path)
}
