package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smartnote/core/internal/infrastructure/config"
)

func TestNew_RejectsInvalidLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New(config.LoggerConfig{Level: "debug", Format: format, Output: "stderr"})
		require.NoError(t, err, format)
		assert.NotNil(t, l.SugaredLogger)
	}
}

func TestLogSecurityEvent_Fields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).WithComponent("users")

	l.LogSecurityEvent("invalid_credentials", "", "10.0.0.1", map[string]interface{}{"email": "a@b.io"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Security event", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "invalid_credentials", fields["security_event"])
	assert.Equal(t, "users", fields["component"])
	assert.Equal(t, "a@b.io", fields["email"])
}
