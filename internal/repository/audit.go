package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

// AuditStore keeps a durable trail of runs and every delivery attempt made
// within them. Use ":memory:" as the path for throwaway stores.
type AuditStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewAuditStore(path string, logger *zap.Logger) (*AuditStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	s := &AuditStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit schema: %w", err)
	}
	return s, nil
}

func (s *AuditStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		month TEXT NOT NULL,
		year TEXT NOT NULL,
		total_pages INTEGER NOT NULL DEFAULT 0,
		emails_sent INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS delivery_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		employee_code TEXT NOT NULL,
		recipient TEXT NOT NULL,
		attempt INTEGER NOT NULL,
		delivered INTEGER NOT NULL,
		error TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_run ON delivery_attempts(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginRun opens the audit row for a run.
func (s *AuditStore) BeginRun(ctx context.Context, runID uuid.UUID, month, year string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, month, year, started_at) VALUES (?, ?, ?, ?)`,
		runID.String(), month, year, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// RecordAttempt appends one delivery attempt, delivered or not.
func (s *AuditStore) RecordAttempt(ctx context.Context, runID uuid.UUID, code, recipient string, attempt int, delivered bool, cause error) error {
	var errText sql.NullString
	if cause != nil {
		errText = sql.NullString{String: cause.Error(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO delivery_attempts (run_id, employee_code, recipient, attempt, delivered, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID.String(), code, recipient, attempt, delivered, errText, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// FinishRun closes the audit row with the final counts.
func (s *AuditStore) FinishRun(ctx context.Context, runID uuid.UUID, totalPages, emailsSent int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET total_pages = ?, emails_sent = ?, finished_at = ? WHERE id = ?`,
		totalPages, emailsSent, time.Now().UTC().Format(time.RFC3339Nano), runID.String())
	return err
}

// AttemptsForRun returns a run's delivery attempts in insertion order.
func (s *AuditStore) AttemptsForRun(ctx context.Context, runID uuid.UUID) ([]entity.DeliveryAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_code, recipient, attempt, delivered, COALESCE(error, ''), created_at
		 FROM delivery_attempts WHERE run_id = ? ORDER BY id`,
		runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.DeliveryAttempt
	for rows.Next() {
		a := entity.DeliveryAttempt{RunID: runID}
		var created string
		if err := rows.Scan(&a.Code, &a.Recipient, &a.Attempt, &a.Delivered, &a.Error, &created); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			a.CreatedAt = ts
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *AuditStore) Close() error {
	return s.db.Close()
}
