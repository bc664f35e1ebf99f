package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("console format", func(t *testing.T) {
		l, err := New(&Config{Level: "debug", Format: "console", Output: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("json format", func(t *testing.T) {
		l, err := New(&Config{Level: "error", Format: "json", Output: "stderr"})
		require.NoError(t, err)
		require.NotNil(t, l)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		l, err := NewForEnvironment(env)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, gormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, gormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, gormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, gormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel("unknown"))
}
