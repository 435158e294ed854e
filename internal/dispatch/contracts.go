package dispatch

import (
	"context"

	"github.com/google/uuid"

	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

// Message is one outbound notification with an optional file attachment.
type Message struct {
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// Sender is the outbound delivery port. Authenticate performs a login-only
// round trip so bad credentials are caught before anything is sent.
type Sender interface {
	Authenticate(ctx context.Context, creds entity.Credentials) error
	Send(ctx context.Context, creds entity.Credentials, msg Message) error
}

// DelayPolicy owns every wait the dispatcher takes. Production waits are real
// sleeps; tests substitute a policy that only counts calls.
type DelayPolicy interface {
	// RetryWait runs after a failed delivery attempt.
	RetryWait()
	// RecordWait runs after a record's final attempt, success or failure.
	RecordWait()
	// BatchWait is the cooling-off pause after a full batch of successful sends.
	BatchWait()
}

// FailureLog is the append-only side channel for delivery failures.
type FailureLog interface {
	Failure(recipient string, attempt int, cause error)
}

// AttemptRecorder persists the outcome of individual delivery attempts.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, runID uuid.UUID, code, recipient string, attempt int, delivered bool, cause error) error
}
