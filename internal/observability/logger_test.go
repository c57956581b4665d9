package observability

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// TestParseLogLevel verifies LOG_LEVEL strings map to zap levels, with INFO
// as the fallback.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zap.AtomicLevel
	}{
		{"DEBUG", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{" warn ", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"ERROR", zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{"INFO", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"bogus", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got.Level() != tt.want.Level() {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got.Level(), tt.want.Level())
		}
	}
}

// TestNewLogger_Default verifies the stderr logger builds.
func TestNewLogger_Default(t *testing.T) {
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "DEBUG")

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("logger does not enable DEBUG with LOG_LEVEL=DEBUG")
	}
}

// TestNewLogger_File verifies the rotated file sink builds and writes.
func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "")

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()
}

// TestEnvInt verifies tuning vars fall back on absent or invalid values.
func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "")
	if got := envInt("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("envInt(unset) = %d, want 7", got)
	}
	t.Setenv("TEST_ENV_INT", "12")
	if got := envInt("TEST_ENV_INT", 7); got != 12 {
		t.Errorf("envInt(12) = %d, want 12", got)
	}
	t.Setenv("TEST_ENV_INT", "-3")
	if got := envInt("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("envInt(-3) = %d, want fallback 7", got)
	}
	t.Setenv("TEST_ENV_INT", "xyz")
	if got := envInt("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("envInt(xyz) = %d, want fallback 7", got)
	}
}
