package logger

import (
	"strings"
	"testing"

	"github.com/amoskalev/notepanel/config"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(config.Warn)
	require.NoError(t, err)
	assert.Equal(t, logging.WARNING, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestGetLogsFiltersBySeverity(t *testing.T) {
	Debug("debug line")
	Warningf("warning %d", 1)
	Errorf("error %d", 2)

	logs := GetLogs(10, "WARNING")
	require.GreaterOrEqual(t, len(logs), 2)
	assert.True(t, strings.HasSuffix(logs[0], "error 2"))
	assert.True(t, strings.HasSuffix(logs[1], "warning 1"))
	for _, l := range logs {
		assert.NotContains(t, l, "debug line")
	}
}
