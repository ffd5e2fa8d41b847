package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func handleOne(t *testing.T, h slog.Handler, level slog.Level, msg string, attrs ...slog.Attr) {
	t.Helper()
	r := slog.NewRecord(time.Date(2026, 3, 2, 9, 15, 30, 250000000, time.UTC), level, msg, 0)
	r.AddAttrs(attrs...)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
}

func TestTerminalHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	handleOne(t, h, slog.LevelInfo, "model loaded", slog.Int("trees", 100))

	out := buf.String()
	for _, want := range []string{"09:15:30.250", "INF", "model loaded", "trees=", "100"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline")
	}
}

func TestTerminalHandler_Levels(t *testing.T) {
	tests := map[slog.Level]string{
		slog.LevelDebug: "DBG",
		slog.LevelInfo:  "INF",
		slog.LevelWarn:  "WRN",
		slog.LevelError: "ERR",
	}
	for level, label := range tests {
		var buf bytes.Buffer
		h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		handleOne(t, h, level, "msg")
		if !strings.Contains(buf.String(), label) {
			t.Errorf("expected %s in output, got: %s", label, buf.String())
		}
	}
}

func TestTerminalHandler_ErrorIsRed(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, nil)
	handleOne(t, h, slog.LevelError, "training failed")

	if !strings.Contains(buf.String(), colorRed) {
		t.Error("expected red colour for ERROR level")
	}
}

func TestTerminalHandler_DefaultLevelIsInfo(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, nil)

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("DEBUG should be disabled by default")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("INFO should be enabled by default")
	}
}

func TestTerminalHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := base.WithAttrs([]slog.Attr{slog.String("component", "api")}).WithGroup("http")
	handleOne(t, h, slog.LevelInfo, "request", slog.String("method", "POST"))

	out := buf.String()
	if !strings.Contains(out, "component=") {
		t.Errorf("expected component attr, got: %s", out)
	}
	if !strings.Contains(out, "http.method=") {
		t.Errorf("expected grouped attr http.method, got: %s", out)
	}
	if strings.Contains(out, "http.component") {
		t.Errorf("attrs added before the group must not be qualified: %s", out)
	}
}

func TestTerminalHandler_NestedGroupAttr(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, nil)
	handleOne(t, h, slog.LevelInfo, "metrics", slog.Group("eval", slog.Float64("r2", 0.5)))

	if !strings.Contains(buf.String(), "eval.r2=") {
		t.Errorf("expected eval.r2 attr, got: %s", buf.String())
	}
}

func TestTerminalHandler_QuotesStrings(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, nil)
	handleOne(t, h, slog.LevelInfo, "msg", slog.String("error", "file not found"))

	if !strings.Contains(buf.String(), `"file not found"`) {
		t.Errorf("expected quoted string value, got: %s", buf.String())
	}
}
