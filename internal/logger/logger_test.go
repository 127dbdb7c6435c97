package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func plain(buf *bytes.Buffer, level slog.Level) *PrettyHandler {
	return NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}).WithoutColor()
}

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.With("backend", "cpu").Info("session created", "session", "1234")

	output := buf.String()
	for _, want := range []string{`"msg":"session created"`, `"backend":"cpu"`, `"session":"1234"`, `"level":"INFO"`} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %s in output, got: %s", want, output)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"json", "text", "pretty"} {
		var buf bytes.Buffer
		log := ForFormat(format, &buf, slog.LevelWarn)
		log.Info("should not appear")
		log.Debug("also should not appear")
		if buf.Len() > 0 {
			t.Fatalf("%s: expected no output below warn, got: %s", format, buf.String())
		}
		log.Warn("should appear")
		if !strings.Contains(buf.String(), "should appear") {
			t.Fatalf("%s: expected warn message, got: %s", format, buf.String())
		}
	}
}

func TestForFormat(t *testing.T) {
	t.Parallel()
	var js, txt bytes.Buffer
	ForFormat("json", &js, slog.LevelInfo).Info("m", "k", "v")
	ForFormat("text", &txt, slog.LevelInfo).Info("m", "k", "v")

	if !strings.HasPrefix(js.String(), "{") {
		t.Fatalf("json format should emit JSON, got: %s", js.String())
	}
	if !strings.Contains(txt.String(), "k=v") || strings.HasPrefix(txt.String(), "{") {
		t.Fatalf("text format should emit key=value, got: %s", txt.String())
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	log.With("a", 1).WithGroup("g").Error("dropped")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), Text(&buf, slog.LevelInfo))
	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Fatalf("expected logger from context to be used, got: %s", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without a logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPrettyLayout(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := plain(&buf, slog.LevelDebug)
	r := slog.NewRecord(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), slog.LevelWarn, "blas call failed", 0)
	r.AddAttrs(slog.String("op", "axpy"), slog.Int("n", 3), slog.Duration("took", 2*time.Millisecond))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	want := "[2026-03-04 05:06:07] WARN  blas call failed op=axpy n=3 took=2ms\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestPrettyHighlightsDomainAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	h.noColor = false
	log := New(h)
	log.Info("done", "status", "success", "backend", "cpu")
	log.Info("failed", "status", "invalid value")

	out := buf.String()
	if !strings.Contains(out, colorGreen+"success") {
		t.Fatalf("success status should be green: %q", out)
	}
	if !strings.Contains(out, colorRed+`"invalid value"`) {
		t.Fatalf("failure status should be red: %q", out)
	}
	if !strings.Contains(out, colorBold+"cpu") {
		t.Fatalf("backend should be bold: %q", out)
	}
}

func TestPrettyShortensSession(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	New(plain(&buf, slog.LevelInfo)).Info("created", "session", "0f8fad5b-d9cb-469f-a165-70867728950e")
	if !strings.Contains(buf.String(), "session=0f8fad5b ") && !strings.HasSuffix(strings.TrimSpace(buf.String()), "session=0f8fad5b") {
		t.Fatalf("session should be shortened: %q", buf.String())
	}
	if strings.Contains(buf.String(), "d9cb") {
		t.Fatalf("session tail should be dropped: %q", buf.String())
	}
}

func TestPrettyGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(plain(&buf, slog.LevelInfo))
	log.With("backend", "cpu").WithGroup("dev").With("name", "host").WithGroup("mem").Info("info", "total", 42)

	out := buf.String()
	for _, want := range []string{"backend=cpu", "dev.name=host", "dev.mem.total=42"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	h := plain(&buf, slog.LevelInfo)
	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("empty group should return the same handler")
	}
}

func TestPrettyGroupValue(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	New(plain(&buf, slog.LevelInfo)).Info("info", slog.Group("mode", "pointer", "device", "atomics", "allowed"))
	if !strings.Contains(buf.String(), "mode={pointer=device atomics=allowed}") {
		t.Fatalf("unexpected group rendering: %q", buf.String())
	}
}

func TestPrettySource(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{AddSource: true}).WithoutColor()
	New(h).Info("here")
	if !strings.Contains(buf.String(), "(logger.go:") {
		t.Fatalf("expected source location, got: %q", buf.String())
	}
}

func TestPrettyEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be disabled by default")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be enabled by default")
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()
	tests := map[string]bool{
		"cpu":           false,
		"not supported": true,
		"a=b":           true,
		`say "hi"`:      true,
		"":              true,
		"line\nbreak":   true,
	}
	for in, want := range tests {
		if got := needsQuoting(in); got != want {
			t.Fatalf("needsQuoting(%q) = %v, want %v", in, got, want)
		}
	}
}
