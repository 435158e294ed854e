package constants

import "fmt"

// PageFileName names a freshly split page inside the staging directory.
func PageFileName(index int) string {
	return fmt.Sprintf("%d.pdf", index)
}

// AttachmentFileName is the operator-legible name a staged page is renamed to
// once its employee is known.
func AttachmentFileName(code, name string) string {
	return fmt.Sprintf("%s-%s Payslip.pdf", code, name)
}

// StagingDirName names the run-scoped staging directory from the free-text
// month/year labels. The labels are not validated beyond this.
func StagingDirName(month, year string) string {
	return fmt.Sprintf("%s-%s", month, year)
}
