package log

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// LogHandler is a colorized console handler for slog, used by the
// glcaps command-line tools. A "module" attribute, when present, is
// shown as a bracketed prefix before the message.
type LogHandler struct {
	level slog.Leveler
	attrs []slog.Attr
}

const (
	reset = "\033[0m"

	cyan        = 36
	lightGray   = 37
	darkGray    = 90
	lightRed    = 91
	lightYellow = 93
)

func colorize(colorCode int, v string) string {
	return fmt.Sprintf("\033[%sm%s%s", strconv.Itoa(colorCode), v, reset)
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LogHandler{level: h.level, attrs: merged}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	// groups are not used by the glcaps tools
	return h
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + " "

	switch r.Level {
	case slog.LevelDebug:
		level = colorize(darkGray, level)
	case slog.LevelInfo:
		level = colorize(cyan, level)
	case slog.LevelWarn:
		level = colorize(lightYellow, level)
	case slog.LevelError:
		level = colorize(lightRed, level)
	}

	module := ""
	rest := ""
	consume := func(a slog.Attr) {
		if a.Key == "module" {
			module = a.Value.String()
			return
		}
		rest += fmt.Sprintf(" %s=%s", a.Key, a.Value)
	}
	for _, a := range h.attrs {
		consume(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		consume(a)
		return true
	})

	fmt.Print(colorize(lightGray, r.Time.Format("15:04:05.000 ")))
	fmt.Print(level)
	if module != "" {
		fmt.Print(colorize(lightGray, fmt.Sprintf("[%s] ", module)))
	}
	fmt.Println(r.Message + rest)
	return nil
}

func NewHandler(opts *slog.HandlerOptions) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &LogHandler{level: opts.Level}
}
