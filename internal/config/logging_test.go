package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{" WARN ", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	var sb strings.Builder
	logger := NewLogger(&sb, "test")

	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(sb.String(), "hidden") {
		t.Error("Expected info to be filtered at warn level")
	}
	if !strings.Contains(sb.String(), "shown") {
		t.Errorf("Expected warn message in output, got %q", sb.String())
	}
}

func TestOpenLogFile(t *testing.T) {
	w, closeFn, err := OpenLogFile("")
	if err != nil || w == nil {
		t.Fatalf("Expected a discarding writer for an empty path, got err %v", err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("Expected no error closing discard writer, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "game.log")
	w, closeFn, err = OpenLogFile(path)
	if err != nil {
		t.Fatalf("OpenLogFile failed: %v", err)
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello\n" {
		t.Errorf("Expected log file to contain the written line, got %q (err %v)", data, err)
	}
}
