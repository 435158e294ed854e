package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration. Per-run inputs (credentials,
// files, subject, month/year labels) are supplied on the command line and do
// not live here.
type Config struct {
	SMTP     SMTPConfig
	Roster   RosterConfig
	Dispatch DispatchConfig
	Staging  StagingConfig
	Audit    AuditConfig
}

// SMTPConfig holds the sending endpoint. Implicit TLS is assumed.
type SMTPConfig struct {
	Host string
	Port int
}

// RosterConfig holds the expected roster column headers. Headers are matched
// after trimming surrounding whitespace.
type RosterConfig struct {
	CodeHeader  string
	NameHeader  string
	EmailHeader string
}

// DispatchConfig holds the throttle and retry tuning.
type DispatchConfig struct {
	Retries        int
	RetryDelay     time.Duration
	RecordDelayMin time.Duration
	RecordDelayMax time.Duration
	BatchSize      int
	BatchPause     time.Duration
}

// StagingConfig holds where run-scoped staging directories are created.
type StagingConfig struct {
	Root string
}

// AuditConfig holds the audit trail and failure log locations.
type AuditConfig struct {
	DBPath         string
	FailureLogPath string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port: getEnvAsInt("SMTP_PORT", 465),
		},
		Roster: RosterConfig{
			CodeHeader:  getEnv("ROSTER_CODE_HEADER", "Emp Code."),
			NameHeader:  getEnv("ROSTER_NAME_HEADER", "Employee Name"),
			EmailHeader: getEnv("ROSTER_EMAIL_HEADER", "Email Address"),
		},
		Dispatch: DispatchConfig{
			Retries:        getEnvAsInt("DISPATCH_RETRIES", 3),
			RetryDelay:     getEnvAsDuration("DISPATCH_RETRY_DELAY", 5*time.Second),
			RecordDelayMin: getEnvAsDuration("DISPATCH_RECORD_DELAY_MIN", 2*time.Second),
			RecordDelayMax: getEnvAsDuration("DISPATCH_RECORD_DELAY_MAX", 5*time.Second),
			BatchSize:      getEnvAsInt("DISPATCH_BATCH_SIZE", 50),
			BatchPause:     getEnvAsDuration("DISPATCH_BATCH_PAUSE", 2*time.Minute),
		},
		Staging: StagingConfig{
			Root: getEnv("STAGING_ROOT", "."),
		},
		Audit: AuditConfig{
			DBPath:         getEnv("AUDIT_DB_PATH", "payslip-audit.db"),
			FailureLogPath: getEnv("FAILURE_LOG_PATH", "email_errors.log"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.SMTP.Host == "" {
		return NewAppError("CONFIG_ERROR", "SMTP_HOST is required", ErrInvalidInput)
	}
	if c.SMTP.Port <= 0 {
		return NewAppError("CONFIG_ERROR", "SMTP_PORT must be positive", ErrInvalidInput)
	}
	if c.Dispatch.Retries < 1 {
		return NewAppError("CONFIG_ERROR", "DISPATCH_RETRIES must be at least 1", ErrInvalidInput)
	}
	if c.Dispatch.RecordDelayMax < c.Dispatch.RecordDelayMin {
		return NewAppError("CONFIG_ERROR", "DISPATCH_RECORD_DELAY_MAX below minimum", ErrInvalidInput)
	}
	if c.Roster.CodeHeader == "" || c.Roster.NameHeader == "" || c.Roster.EmailHeader == "" {
		return NewAppError("CONFIG_ERROR", "roster column headers must not be empty", ErrInvalidInput)
	}
	return nil
}
