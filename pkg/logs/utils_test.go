package logs

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestLoggerPrefixesOwner(t *testing.T) {
	logger := NewLogger("owner")
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	logger.Info("hello")
	if !strings.Contains(buf.String(), "[owner] hello") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSetLevelAppliesToExistingLoggers(t *testing.T) {
	defer SetLevel(log.InfoLevel)

	logger := NewLogger("levels")
	SetLevel(log.WarnLevel)
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("existing logger level = %s, want warning", logger.GetLevel())
	}
	if NewLogger("later").GetLevel() != log.WarnLevel {
		t.Error("new logger did not pick up the level")
	}
	if err := ParseLevel("debug"); err != nil {
		t.Errorf("ParseLevel(debug) failed: %s", err)
	}
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %s after ParseLevel(debug)", logger.GetLevel())
	}
	if err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel should reject unknown levels")
	}
}

func TestNewLoggerIsSharedPerOwner(t *testing.T) {
	if NewLogger("shared") != NewLogger("shared") {
		t.Error("same owner should get the same logger")
	}
	if NewLogger("shared") == NewLogger("other") {
		t.Error("different owners should not share a logger")
	}
	mu.Lock()
	n := len(loggers)
	mu.Unlock()
	for i := 0; i < 100; i++ {
		NewLogger("shared")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(loggers) != n {
		t.Errorf("registry grew from %d to %d for a known owner", n, len(loggers))
	}
}
