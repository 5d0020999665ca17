package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// PrettyOptions configure PrettyHandler.
type PrettyOptions struct {
	Level slog.Leveler
	Color bool
}

// PrettyHandler writes one line per record:
//
//	15:04:05.000 WARN  message key=value
type PrettyHandler struct {
	opts  PrettyOptions
	pal   *palette
	mu    *sync.Mutex
	w     io.Writer
	group string
	attrs []slog.Attr
}

type palette struct {
	time, debug, info, warn, err, attrs *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		time:  color.New(color.FgHiBlack),
		debug: color.New(color.FgHiBlack, color.Bold),
		info:  color.New(color.FgBlue, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		err:   color.New(color.FgRed, color.Bold),
		attrs: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.time, p.debug, p.info, p.warn, p.err, p.attrs} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) level(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	default:
		return p.debug
	}
}

func NewPrettyHandler(w io.Writer, opts *PrettyOptions) *PrettyHandler {
	if opts == nil {
		opts = &PrettyOptions{}
	}
	return &PrettyHandler{
		opts: *opts,
		pal:  newPalette(opts.Color),
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.pal.time.Sprint(r.Time.Format("15:04:05.000")))
	sb.WriteByte(' ')
	sb.WriteString(h.pal.level(r.Level).Sprintf("%-5s", r.Level.String()))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		parts = append(parts, formatAttr(a, ""))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, formatAttr(a, h.group))
		return true
	})
	if len(parts) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(h.pal.attrs.Sprint(strings.Join(parts, " ")))
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	// handler attrs keep the group that was open when they were added
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

func formatAttr(a slog.Attr, group string) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return key + "=" + quoteIfNeeded(v.String())
	case slog.KindTime:
		return key + "=" + v.Time().Format(time.RFC3339)
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, g := range v.Group() {
			parts = append(parts, formatAttr(g, ""))
		}
		return key + "={" + strings.Join(parts, " ") + "}"
	default:
		return key + "=" + fmt.Sprint(v.Any())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
