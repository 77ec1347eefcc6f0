package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"DEBUG":   LevelDebug,
		"warn":    LevelWarn,
		"WARNING": LevelWarn,
		"Error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestLogger_filtersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatal("expected Info to be filtered out below LevelWarn")
	}
	if !strings.Contains(out, "should appear") {
		t.Fatal("expected Warn line to be logged")
	}
}

func TestLogger_fieldsRenderSortedAndQuoted(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.Info("task failed", "task_id", "t1", "reason", "no failure marker")

	out := buf.String()
	if !strings.Contains(out, `reason="no failure marker"`) {
		t.Fatalf("expected spaced value quoted, got %q", out)
	}
	if !strings.Contains(out, "task_id=t1") {
		t.Fatalf("expected unquoted simple value, got %q", out)
	}
	// reason sorts before task_id alphabetically.
	if strings.Index(out, "reason=") > strings.Index(out, "task_id=") {
		t.Fatalf("expected fields in sorted key order, got %q", out)
	}
}

func TestLogger_withMergesFieldsWithoutMutatingReceiver(t *testing.T) {
	var buf bytes.Buffer
	base := New()
	base.SetOutput(&buf)

	child := base.With("session_id", "s1")
	child.Info("hello")
	base.Info("world")

	out := buf.String()
	if !strings.Contains(out, "session_id=s1") {
		t.Fatalf("expected child logger to carry session_id field, got %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if strings.Contains(lines[1], "session_id") {
		t.Fatal("expected base logger unaffected by With on child")
	}
}

func TestLogger_errorValueFormatsMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.Error("worker failed", "err", errSample{})

	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected error message rendered, got %q", buf.String())
	}
}

type errSample struct{}

func (errSample) Error() string { return "boom" }
