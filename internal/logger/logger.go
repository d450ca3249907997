// Package logger configures structured logging for the search tools.
//
// Logs go to stderr so command output on stdout stays machine readable.
// Production runs log JSON; everywhere else a compact console format is
// used that hoists the component and index attributes into a prefix:
//
//	12:04:05 INF search/SONG  opened existing search index path=/data/song
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	formatJSON    = "json"
	formatConsole = "pretty"
)

// Attribute keys rendered as the console prefix.
const (
	KeyComponent = "component"
	KeyIndex     = "index"
)

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
)

// Logger wraps slog.Logger with helpers used across the module.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Writer      io.Writer
	Format      string // "json" or "pretty"; empty picks by Environment
	Environment string
	Level       slog.Level
	AddSource   bool
	NoColor     bool
}

// New creates a logger.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Format == "" {
		cfg.Format = formatConsole
		if cfg.Environment == "production" {
			cfg.Format = formatJSON
		}
	}

	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var handler slog.Handler
	if cfg.Format == formatJSON {
		opts.ReplaceAttr = shortSource
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		handler = NewConsoleHandler(cfg.Writer, opts, !cfg.NoColor)
	}
	return &Logger{Logger: slog.New(handler)}
}

func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if src, ok := a.Value.Any().(*slog.Source); ok {
			src.File = filepath.Base(src.File)
		}
	}
	return a
}

// ParseLevel converts a string to slog.Level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component returns a child logger tagged with the subsystem name.
func (l *Logger) Component(name string) *slog.Logger {
	return l.With(slog.String(KeyComponent, name))
}

// WithError adds an error attribute to the logger.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With(slog.String("error", err.Error()))}
}

// WithFields adds multiple fields to the logger.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.With(args...)}
}

// ConsoleHandler writes one line per record:
// TIME LEVEL component/index  message key=value...
// Handlers derived with WithAttrs or WithGroup share the writer lock, so
// records from concurrent scanner workers never interleave.
type ConsoleHandler struct {
	opts  *slog.HandlerOptions
	color bool
	mu    *sync.Mutex
	w     io.Writer
	scope scope
	attrs []slog.Attr
	group string // dotted group prefix, with trailing dot
}

// NewConsoleHandler creates a console handler.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ConsoleHandler{opts: opts, color: color, mu: &sync.Mutex{}, w: w}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	sc := h.scope
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.group == "" && sc.set(a) {
			return true
		}
		attrs = append(attrs, slog.Attr{Key: h.group + a.Key, Value: a.Value})
		return true
	})

	buf := make([]byte, 0, 256)
	buf = h.paint(buf, ansiDim, r.Time.Format(time.TimeOnly))
	buf = append(buf, ' ')
	label, color := levelLabel(r.Level)
	buf = h.paint(buf, color, label)

	if p := sc.String(); p != "" {
		buf = append(buf, ' ')
		buf = h.paint(buf, ansiBlue, p)
		buf = append(buf, ' ')
	}

	if h.opts.AddSource && r.PC != 0 {
		src := r.Source()
		buf = append(buf, ' ')
		buf = h.paint(buf, ansiDim, filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
	}

	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, a := range attrs {
		buf = append(buf, ' ')
		buf = h.paint(buf, ansiCyan, a.Key+"=")
		buf = append(buf, renderValue(a.Value)...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group == "" && next.scope.set(a) {
			continue
		}
		next.attrs = append(next.attrs, slog.Attr{Key: h.group + a.Key, Value: a.Value})
	}
	return &next
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

func (h *ConsoleHandler) paint(buf []byte, color, s string) []byte {
	if !h.color {
		return append(buf, s...)
	}
	buf = append(buf, color...)
	buf = append(buf, s...)
	return append(buf, ansiReset...)
}

// scope is the component and index a record belongs to.
type scope struct {
	component string
	index     string
}

func (sc *scope) set(a slog.Attr) bool {
	switch a.Key {
	case KeyComponent:
		sc.component = a.Value.String()
	case KeyIndex:
		sc.index = a.Value.String()
	default:
		return false
	}
	return true
}

func (sc scope) String() string {
	switch {
	case sc.index == "":
		return sc.component
	case sc.component == "":
		return sc.index
	default:
		return sc.component + "/" + sc.index
	}
}

func levelLabel(level slog.Level) (label, color string) {
	switch {
	case level >= slog.LevelError:
		return "ERR", ansiRed
	case level >= slog.LevelWarn:
		return "WRN", ansiYellow
	case level >= slog.LevelInfo:
		return "INF", ansiGreen
	default:
		return "DBG", ansiDim
	}
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	default:
		return v.String()
	}
}
