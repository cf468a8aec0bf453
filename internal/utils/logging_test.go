package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Format: LogFormatText})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	// Unknown levels fall back to info.
	logger = NewLogger(LoggerConfig{Level: "bogus", Format: LogFormatText})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Format: LogFormatJSON,
		Output: &buf,
	})

	logger.WithComponent("parser").Info("parsed file")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed file", entry["msg"])
	assert.Equal(t, "parser", entry["component"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Format: LogFormatText,
		Output: &buf,
	})

	logger.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("nonsense"))
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, LogFormatText, ParseLogFormat("text"))
	assert.Equal(t, LogFormatText, ParseLogFormat(""))
}
