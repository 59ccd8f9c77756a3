package util

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLevel(t *testing.T) {
	tests := []struct {
		in   LogLevel
		want zerolog.Level
	}{
		{TraceLevel, zerolog.TraceLevel},
		{DebugLevel, zerolog.DebugLevel},
		{InfoLevel, zerolog.InfoLevel},
		{WarnLevel, zerolog.WarnLevel},
		{ErrorLevel, zerolog.ErrorLevel},
		{42, zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZerologLevel(tt.in))
	}
}

func TestGetLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	InitializeLoggerTo(&buf, InfoLevel)

	logger := GetLogger("Tester")
	logger.Info().Str("path", "vfs://a").Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "Tester")
	assert.Contains(t, out, "vfs://a")
}

func TestNewLogLogger_RoutesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	InitializeLoggerTo(&buf, InfoLevel)

	NewLogLogger("Bridge").Print("from stdlog")

	assert.Contains(t, buf.String(), "from stdlog")
	assert.Contains(t, buf.String(), "Bridge")
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, *Pointer(3))
	assert.Equal(t, "x", ValueOrDefault[string](nil, "x"))
	assert.Equal(t, "y", ValueOrDefault(Pointer("y"), "x"))
	assert.Equal(t, 1, Clamp(0, 1, 5))
	assert.Equal(t, 5, Clamp(100, 1, 5))
	assert.Equal(t, 3, Clamp(3, 1, 5))
}
