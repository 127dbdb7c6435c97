package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// sessionIDLen is how much of a session uuid the pretty format prints.
const sessionIDLen = 8

// PrettyHandler is a slog.Handler for terminals. Records render as
//
//	[time] LEVEL message key=value ... (file.go:42)
//
// The status, session and backend attributes are highlighted. Colors are
// disabled when NO_COLOR is set.
type PrettyHandler struct {
	opts    slog.HandlerOptions
	w       io.Writer
	mu      *sync.Mutex
	noColor bool

	// prefix qualifies keys of attributes added after WithGroup.
	prefix string
	attrs  []slog.Attr
}

// NewPrettyHandler creates a new PrettyHandler.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return &PrettyHandler{
		opts:    *opts,
		w:       w,
		mu:      &sync.Mutex{},
		noColor: noColor,
	}
}

// WithoutColor returns a copy of h that writes plain text.
func (h *PrettyHandler) WithoutColor() *PrettyHandler {
	c := *h
	c.noColor = true
	return &c
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	p := printer{buf: make([]byte, 0, 256), color: !h.noColor}

	p.paint(colorGray, func() {
		p.buf = append(p.buf, '[')
		p.buf = r.Time.AppendFormat(p.buf, time.DateTime)
		p.buf = append(p.buf, ']')
	})
	p.buf = append(p.buf, ' ')
	p.paint(levelColor(r.Level)+colorBold, func() {
		p.buf = append(p.buf, padLevel(r.Level.String())...)
	})
	p.buf = append(p.buf, ' ')
	p.buf = append(p.buf, r.Message...)

	for _, a := range h.attrs {
		p.attr(a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		p.attr(a, h.prefix)
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			p.buf = append(p.buf, ' ')
			p.paint(colorGray, func() {
				p.buf = append(p.buf, '(')
				p.buf = append(p.buf, filepath.Base(frame.File)...)
				p.buf = append(p.buf, ':')
				p.buf = strconv.AppendInt(p.buf, int64(frame.Line), 10)
				p.buf = append(p.buf, ')')
			})
		}
	}
	p.buf = append(p.buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(p.buf)
	return err
}

// WithAttrs qualifies attrs with the current group and keeps them for every
// record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs, a)
	}
	return &c
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// printer accumulates one formatted record.
type printer struct {
	buf   []byte
	color bool
}

func (p *printer) paint(color string, body func()) {
	if p.color {
		p.buf = append(p.buf, color...)
	}
	body()
	if p.color {
		p.buf = append(p.buf, colorReset...)
	}
}

func (p *printer) attr(a slog.Attr, prefix string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	p.buf = append(p.buf, ' ')
	key := prefix + a.Key
	p.paint(colorCyan, func() {
		p.buf = append(p.buf, key...)
		p.buf = append(p.buf, '=')
	})

	switch a.Key {
	case "status":
		color := colorRed
		if a.Value.String() == "success" {
			color = colorGreen
		}
		p.paint(color, func() { p.value(a.Value) })
	case "session":
		s := a.Value.String()
		if len(s) > sessionIDLen {
			s = s[:sessionIDLen]
		}
		p.buf = append(p.buf, s...)
	case "backend":
		p.paint(colorBold, func() { p.value(a.Value) })
	default:
		p.value(a.Value)
	}
}

func (p *printer) value(v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			p.buf = strconv.AppendQuote(p.buf, s)
		} else {
			p.buf = append(p.buf, s...)
		}
	case slog.KindTime:
		p.buf = v.Time().AppendFormat(p.buf, time.RFC3339)
	case slog.KindDuration:
		p.buf = append(p.buf, v.Duration().String()...)
	case slog.KindGroup:
		p.buf = append(p.buf, '{')
		for i, a := range v.Group() {
			if i > 0 {
				p.buf = append(p.buf, ' ')
			}
			p.buf = append(p.buf, a.Key...)
			p.buf = append(p.buf, '=')
			p.value(a.Value.Resolve())
		}
		p.buf = append(p.buf, '}')
	default:
		p.buf = append(p.buf, fmt.Sprint(v.Any())...)
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorBlue
	default:
		return colorGray
	}
}

// padLevel pads level names to five characters.
func padLevel(level string) string {
	if len(level) < 5 {
		return level + " "
	}
	return level
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		if c == ' ' || c == '\t' || c == '\n' || c == '"' || c == '=' {
			return true
		}
	}
	return false
}
