package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("parsed", "blocks", 12)

	out := buf.String()
	if !strings.Contains(out, `"msg":"parsed"`) || !strings.Contains(out, `"blocks":12`) {
		t.Fatalf("unexpected JSON record: %s", out)
	}
	if strings.Contains(out, `"source"`) {
		t.Fatalf("source attached above debug level: %s", out)
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("unfinished block", "offset", 40)
	if !strings.Contains(buf.String(), "unfinished block") {
		t.Fatalf("warn record missing: %s", buf.String())
	}
}

func TestPrettyPlain(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelDebug, false)
	log.Debug("resync", "offset", 81, "parent", 20)

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour codes with colour disabled: %q", out)
	}
	if !strings.Contains(out, "DEBUG resync offset=81 parent=20") {
		t.Fatalf("unexpected pretty line: %q", out)
	}
}

func TestPrettyColored(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelInfo, true)
	log.Warn("depth limit")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected colour codes: %q", buf.String())
	}
}

func TestPrettyAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("WithGroup with empty name should return the handler itself")
	}
	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("file", "my session.ptf")}).WithGroup("a").WithGroup("b"))
	log.Info("describe", "key", "val", "empty", "")

	out := buf.String()
	for _, want := range []string{`file="my session.ptf"`, "a.b.key=val", `a.b.empty=""`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %q", want, out)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &PrettyOptions{Level: slog.LevelWarn})
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelWarn) || !h.Enabled(ctx, slog.LevelError) {
		t.Error("warn and error should be enabled at warn level")
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format, level string
		want          string
		wantErr       bool
	}{
		{format: "json", level: "info", want: `"msg":"hello"`},
		{format: "text", level: "warning", want: ""},
		{format: "", level: "", want: "INFO  hello"},
		{format: "xml", level: "info", wantErr: true},
		{format: "json", level: "loud", wantErr: true},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		log, err := Open(&buf, tc.format, tc.level, false)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Open(%q, %q): expected error", tc.format, tc.level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Open(%q, %q): %v", tc.format, tc.level, err)
		}
		log.Info("hello")
		if tc.want == "" && buf.Len() != 0 {
			t.Fatalf("Open(%q, %q): unexpected output %q", tc.format, tc.level, buf.String())
		}
		if !strings.Contains(buf.String(), tc.want) {
			t.Fatalf("Open(%q, %q): got %q want %q", tc.format, tc.level, buf.String(), tc.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))
	FromContext(ctx).With("component", "api").Info("roundtrip")
	if !strings.Contains(buf.String(), `"component":"api"`) {
		t.Fatalf("expected context logger output, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}
	Discard().Error("dropped")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{" warning ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.input)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q): err %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q): got %v want %v", tc.input, got, tc.want)
		}
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"simple":      "simple",
		"has space":   `"has space"`,
		"a=b":         `"a=b"`,
		`has"quote`:   `"has\"quote"`,
		"":            `""`,
		"0x0410-list": "0x0410-list",
	}
	for in, want := range tests {
		if got := quoteIfNeeded(in); got != want {
			t.Errorf("quoteIfNeeded(%q): got %s want %s", in, got, want)
		}
	}
}
