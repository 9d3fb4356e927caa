package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestAddWriter will test the Logger.AddWriter function to ensure that writers are added exactly once and that
// log output actually reaches them.
func TestAddWriter(t *testing.T) {
	// Create a base logger with no writers
	logger := NewLogger(zerolog.InfoLevel, false)
	assert.Empty(t, logger.writers)

	// Add a writer and then try to add it a second time
	var buf bytes.Buffer
	logger.AddWriter(&buf, STRUCTURED)
	logger.AddWriter(&buf, STRUCTURED)

	// Duplicate writers must not be registered twice
	assert.Equal(t, 1, len(logger.writers))

	// Log a message and ensure it reached the writer
	logger.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

// TestSubLoggerContext ensures that sub-loggers attach their key-value context to emitted logs.
func TestSubLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)

	subLogger := logger.NewSubLogger("module", BINDGEN_SERVICE)
	subLogger.Warn("cyclic imports detected")

	out := buf.String()
	assert.True(t, strings.Contains(out, "bindgen"))
	assert.True(t, strings.Contains(out, "cyclic imports detected"))
}
