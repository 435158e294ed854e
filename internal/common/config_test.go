package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SMTP_HOST", "SMTP_PORT", "ROSTER_CODE_HEADER", "DISPATCH_RETRIES",
		"DISPATCH_RETRY_DELAY", "DISPATCH_RECORD_DELAY_MIN", "DISPATCH_RECORD_DELAY_MAX",
		"DISPATCH_BATCH_SIZE", "DISPATCH_BATCH_PAUSE", "FAILURE_LOG_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "Emp Code.", cfg.Roster.CodeHeader)
	assert.Equal(t, 3, cfg.Dispatch.Retries)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.RetryDelay)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.RecordDelayMin)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.RecordDelayMax)
	assert.Equal(t, 50, cfg.Dispatch.BatchSize)
	assert.Equal(t, 2*time.Minute, cfg.Dispatch.BatchPause)
	assert.Equal(t, "email_errors.log", cfg.Audit.FailureLogPath)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "2465")
	t.Setenv("DISPATCH_RETRIES", "5")
	t.Setenv("DISPATCH_BATCH_PAUSE", "30s")
	t.Setenv("ROSTER_CODE_HEADER", "Staff ID")

	cfg := LoadConfig()
	assert.Equal(t, "mail.internal", cfg.SMTP.Host)
	assert.Equal(t, 2465, cfg.SMTP.Port)
	assert.Equal(t, 5, cfg.Dispatch.Retries)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.BatchPause)
	assert.Equal(t, "Staff ID", cfg.Roster.CodeHeader)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.Dispatch.Retries = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Dispatch.RecordDelayMin = 10 * time.Second
	cfg.Dispatch.RecordDelayMax = time.Second
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Roster.EmailHeader = ""
	assert.Error(t, cfg.Validate())
}
