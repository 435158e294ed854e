package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/payroll-tools/payslip-mailer/constants"
	"github.com/payroll-tools/payslip-mailer/internal/common"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

const salutationTemplate = `Dear %s,

Please find attached your payslip for this month.

If you have any questions, feel free to reach out.

Best Regards,
`

// Dispatcher walks resolved records strictly in input order and delivers the
// sendable ones with bounded retries. It never mutates its input: the caller
// gets back a new slice with the post-delivery statuses.
type Dispatcher struct {
	Sender   Sender
	Delay    DelayPolicy
	Failures FailureLog
	Audit    AttemptRecorder // optional
	Logger   *zap.Logger

	Retries   int
	BatchSize int
}

func NewDispatcher(sender Sender, delay DelayPolicy, failures FailureLog, audit AttemptRecorder, cfg common.DispatchConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Sender:    sender,
		Delay:     delay,
		Failures:  failures,
		Audit:     audit,
		Logger:    logger,
		Retries:   cfg.Retries,
		BatchSize: cfg.BatchSize,
	}
}

// Dispatch authenticates once, then processes every READY_TO_SEND record.
// On authentication failure nothing is sent and the records come back with
// their statuses untouched, tagged with common.ErrAuthFailed.
func (d *Dispatcher) Dispatch(ctx context.Context, runID uuid.UUID, creds entity.Credentials, subject string, records []entity.EmployeeRecord) (int, []entity.EmployeeRecord, error) {
	out := make([]entity.EmployeeRecord, len(records))
	copy(out, records)

	if err := d.Sender.Authenticate(ctx, creds); err != nil {
		d.Logger.Error("sender authentication failed", zap.Error(err))
		return 0, out, fmt.Errorf("%w: %w", common.ErrAuthFailed, err)
	}
	d.Logger.Info("sender authenticated", zap.String("from", creds.Address))

	sent := 0
	batch := 0
	for i := range out {
		if out[i].Status != constants.StatusReadyToSend {
			continue
		}
		msg := Message{
			From:           creds.Address,
			To:             out[i].Email,
			Subject:        subject,
			Body:           fmt.Sprintf(salutationTemplate, out[i].Name),
			AttachmentPath: out[i].AttachmentPath,
		}
		if d.deliver(ctx, runID, creds, out[i].Code, msg) {
			out[i].Status = constants.StatusSent
			sent++
			batch++
		} else {
			out[i].Status = constants.StatusNotSent
		}
		d.Delay.RecordWait()

		// The batch counter tracks successful sends only.
		if batch == d.BatchSize {
			d.Logger.Info("cooling off before next batch", zap.Int("sent_so_far", sent))
			d.Delay.BatchWait()
			batch = 0
		}
	}
	return sent, out, nil
}

// deliver attempts one record up to the retry ceiling. Every kind of failure
// is treated as retryable; one record's failure never aborts the run.
func (d *Dispatcher) deliver(ctx context.Context, runID uuid.UUID, creds entity.Credentials, code string, msg Message) bool {
	for attempt := 1; attempt <= d.Retries; attempt++ {
		err := d.Sender.Send(ctx, creds, msg)
		if err == nil {
			d.recordAttempt(ctx, runID, code, msg.To, attempt, true, nil)
			d.Logger.Info("email sent", zap.String("to", msg.To), zap.Int("attempt", attempt))
			return true
		}
		d.Logger.Warn("delivery attempt failed",
			zap.String("to", msg.To),
			zap.Int("attempt", attempt),
			zap.Int("retries", d.Retries),
			zap.Error(err))
		if d.Failures != nil {
			d.Failures.Failure(msg.To, attempt, err)
		}
		d.recordAttempt(ctx, runID, code, msg.To, attempt, false, err)
		d.Delay.RetryWait()
	}
	d.Logger.Error("delivery abandoned after retries",
		zap.String("to", msg.To), zap.Int("retries", d.Retries))
	return false
}

func (d *Dispatcher) recordAttempt(ctx context.Context, runID uuid.UUID, code, to string, attempt int, delivered bool, cause error) {
	if d.Audit == nil {
		return
	}
	if err := d.Audit.RecordAttempt(ctx, runID, code, to, attempt, delivered, cause); err != nil {
		d.Logger.Warn("audit write failed", zap.Error(err))
	}
}
