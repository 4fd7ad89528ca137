package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"kap/internal/protocol"
)

func TestConsolePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := consolePrinter{w: &buf}

	p.Println("hello")
	p.Clear()

	if buf.String() != "hello\n\x1bc" {
		t.Errorf("Expected %q, got %q", "hello\n\x1bc", buf.String())
	}
}

func TestFormatOutcome(t *testing.T) {
	started := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	o := protocol.OutcomePayload{
		Sequence: "hotkey",
		State:    "Fail",
		Record:   [][]string{{"Meta", "LShift", "A"}, {"B"}},
		Started:  started,
		Finished: started.Add(1500 * time.Millisecond),
	}

	got := formatOutcome(o)
	expected := "15:04:06 hotkey Fail [Meta+LShift+A B] 1.5s"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestFormatStatus(t *testing.T) {
	st := protocol.StatusResponsePayload{Sequences: []protocol.SequenceStatus{
		{Name: "hotkey", Enabled: true, Loop: true, LastOutcome: &protocol.OutcomePayload{State: "Next"}},
		{Name: "digits"},
	}}

	got := formatStatus(st)
	for _, want := range []string{"2 sequence(s)", "hotkey (enabled, loop) last: Next", "digits (disabled)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected status to contain %q, got %q", want, got)
		}
	}
}
