package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// levelStyle decides how records at or above minLevel are rendered on stderr.
// Run results go to stdout, so diagnostics stay short and carry a tag instead of an icon.
type levelStyle struct {
	minLevel slog.Level
	tag      string
	color    termenv.Color
}

// Ordered from the most to the least severe. Error records carry no tag because
// Logger.Error already leads with "Error:".
var levelStyles = []levelStyle{
	{minLevel: slog.LevelError, color: termenv.ANSIRed},
	{minLevel: slog.LevelWarn, tag: "warning: ", color: termenv.ANSIYellow},
	{minLevel: slog.LevelInfo},
}

var debugStyle = levelStyle{tag: "debug: ", color: termenv.ANSIBrightBlack}

func styleFor(level slog.Level) levelStyle {
	for _, s := range levelStyles {
		if level >= s.minLevel {
			return s
		}
	}
	return debugStyle
}

// PrettyHandler is a slog.Handler that writes one plain line per record, colored by level.
// Colors are disabled when NO_COLOR is set.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []string
	prefix string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   termenv.NewOutput(w, termenv.WithProfile(colorProfile()), termenv.WithTTY(true)),
		level: level,
	}
}

func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	style := styleFor(r.Level)

	text := h.out.String(style.tag + r.Message)
	if style.color != nil {
		text = text.Foreground(style.color)
	}

	var b strings.Builder
	b.WriteString(text.String())

	attrs := slices.Clip(h.attrs)
	r.Attrs(func(attr slog.Attr) bool {
		attrs = appendAttr(attrs, h.prefix, attr)
		return true
	})
	if len(attrs) > 0 {
		b.WriteByte(' ')
		b.WriteString(h.out.String(strings.Join(attrs, " ")).Faint().String())
	}
	b.WriteByte('\n')

	_, err := h.out.WriteString(b.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
// The attributes are qualified by the groups opened so far.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	rendered := make([]string, len(h.attrs), len(h.attrs)+len(attrs))
	copy(rendered, h.attrs)
	for _, attr := range attrs {
		rendered = appendAttr(rendered, h.prefix, attr)
	}

	return &PrettyHandler{out: h.out, level: h.level, attrs: rendered, prefix: h.prefix}
}

// WithGroup returns a new Handler that qualifies later attributes with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &PrettyHandler{out: h.out, level: h.level, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// appendAttr renders attr as key=value, flattening group values into dotted keys.
func appendAttr(dst []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}

	if attr.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			dst = appendAttr(dst, groupPrefix, member)
		}
		return dst
	}

	value := attr.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}
	return append(dst, prefix+attr.Key+"="+value)
}
