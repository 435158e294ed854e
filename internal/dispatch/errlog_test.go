package dispatch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_errors.log")

	l, err := OpenFailureLog(path)
	require.NoError(t, err)
	l.Failure("one@example.com", 1, errors.New("timeout"))
	l.Failure("one@example.com", 2, errors.New("timeout"))
	require.NoError(t, l.Close())

	// Reopening must append, not truncate.
	l, err = OpenFailureLog(path)
	require.NoError(t, err)
	l.Failure("two@example.com", 1, errors.New("rejected"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "one@example.com on attempt 1")
	assert.Contains(t, lines[1], "one@example.com on attempt 2")
	assert.Contains(t, lines[2], "two@example.com on attempt 1")
	assert.Contains(t, lines[2], "rejected")
}

func TestFailureLogWriter(t *testing.T) {
	var sb strings.Builder
	l := NewFailureLogWriter(&sb)
	l.Failure("x@example.com", 3, errors.New("boom"))
	assert.Contains(t, sb.String(), "Failed to send email to x@example.com on attempt 3")
	require.NoError(t, l.Close())
}
