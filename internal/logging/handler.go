package logging

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

// Level labels and their colors.
var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed, color.Bold),
}

// A terse, human-oriented slog handler for terminal output.
//
// Records are rendered as one line: a timestamp, a colored level label, the
// message, then key=value attributes. The level can be adjusted after
// construction, which is how CLI flags reconfigure logging after parsing.
type Handler struct {
	mu      *sync.Mutex
	w       io.Writer
	level   *slog.LevelVar
	colored bool
	prefix  string      // Dotted group prefix for attribute keys.
	attrs   []slog.Attr // Attrs accumulated via WithAttrs.
}

// Creates a handler writing to w at info level.
func NewHandler(w io.Writer) *Handler {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	return &Handler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
	}
}

// Sets the minimum level the handler emits.
func (h *Handler) SetLevel(l slog.Level) {
	h.level.Set(l)
}

// Enables or disables colored level labels.
func (h *Handler) SetColor(enabled bool) {
	h.colored = enabled
}

// Reports whether a record at the given level would be emitted.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Renders and writes a single record.
func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder

	b.WriteString(rec.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(h.label(rec.Level))
	b.WriteByte(' ')
	b.WriteString(rec.Message)

	for _, attr := range h.attrs {
		h.writeAttr(&b, attr)
	}
	rec.Attrs(func(attr slog.Attr) bool {
		h.writeAttr(&b, attr)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// Returns a copy of the handler with extra attrs attached to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// Returns a copy of the handler with a group prefix for subsequent keys.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// Formats one attribute as " key=value".
func (h *Handler) writeAttr(b *strings.Builder, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(b, " %s%s=%v", h.prefix, attr.Key, attr.Value.Resolve())
}

// Returns the (possibly colored) label for a level.
func (h *Handler) label(level slog.Level) string {
	text := strings.ToUpper(level.String())
	if c, ok := levelColors[level]; ok && h.colored {
		return c.Sprint(text)
	}
	return text
}
