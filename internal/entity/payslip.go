package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/payroll-tools/payslip-mailer/constants"
)

// RosterEntry is one employee row from the uploaded roster workbook.
// Built once per run and immutable thereafter.
type RosterEntry struct {
	Code  string
	Name  string
	Email string // blank means no contact address on file
}

// PageDocument is a single split page of the source document while a run
// executes. Path points into the run-scoped staging directory.
type PageDocument struct {
	Index int
	Path  string
}

// Credentials identify the sending account. Address doubles as the From identity.
type Credentials struct {
	Address string
	Secret  string
}

// EmployeeRecord is the unit the dispatch phase operates on. Records are
// values; a status transition produces a new record, never an in-place edit
// of the resolver's output.
type EmployeeRecord struct {
	Code           string
	Name           string
	Email          string
	Amount         string // net payable as extracted, display string only
	AttachmentPath string // set only when ready to send
	Status         constants.DeliveryStatus
}

// Reasons a page produced no EmployeeRecord.
const (
	ReasonNoFields    = "NO_EXTRACTABLE_FIELDS"
	ReasonNotInRoster = "CODE_NOT_IN_ROSTER"
)

// UnmatchedPage records a page that was dropped before dispatch, so the
// operator can see why the record table is shorter than the page count.
type UnmatchedPage struct {
	Index  int
	Code   string // empty when no identifier was extracted
	Reason string
}

// RunResult is returned once per run. Records keeps page processing order.
type RunResult struct {
	RunID      uuid.UUID
	EmailsSent int
	TotalPages int
	Records    []EmployeeRecord
	Unmatched  []UnmatchedPage
}

// DeliveryAttempt is one audited delivery attempt, as read back from the store.
type DeliveryAttempt struct {
	RunID     uuid.UUID
	Code      string
	Recipient string
	Attempt   int
	Delivered bool
	Error     string
	CreatedAt time.Time
}
