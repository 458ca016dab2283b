package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": DebugLevel,
		"INFO":  InfoLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
		"":      InfoLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(WarnLevel), WithWriter(&buf))
	l.Info("dropped")
	l.Warn("kept", Str("k", "v"))

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info should be gated: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "k=v") {
		t.Fatalf("missing warn output: %q", out)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithWriter(&buf)).With(Component("sched"))
	l.Info("msg")
	if !strings.Contains(buf.String(), "component=sched") {
		t.Fatalf("missing component field: %q", buf.String())
	}
}
