package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewReturnsLogger(t *testing.T) {
	if New() == nil {
		t.Fatal("expected logger instance")
	}
}

func TestNewCriticalCreatesDirAndWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	crit, err := NewCritical(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	crit.Error("both alert channels failed", "message", "boom")

	data, err := os.ReadFile(filepath.Join(dir, "critical-errors.log"))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log content")
	}
}
