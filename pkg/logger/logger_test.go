package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStandardLoggerPrefixes(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewStandardLogger(log.New(buf, "", 0))

	l.Info("tick %s", "10ms")
	l.Warning("slow")
	l.Error("boom %d", 1)

	out := buf.String()
	for _, want := range []string{"[INFO] tick 10ms", "[WARNING] slow", "[ERROR] boom 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got: %s", want, out)
		}
	}
}

func TestNewStandardLoggerDefault(t *testing.T) {
	if NewStandardLogger(nil).logger != log.Default() {
		t.Error("Expected nil logger to fall back to log.Default()")
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Info("ignored")
	l.Warning("ignored")
	l.Error("ignored")
}
