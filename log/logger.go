package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/config"
)

var (
	mu   sync.RWMutex
	root zerolog.Logger
)

// Level names accepted by SetLevel and LOG_LEVEL
var levels = map[string]zerolog.Level{
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"off":      zerolog.Disabled,
	"disabled": zerolog.Disabled,
}

func init() {
	cfg := config.Get()
	root = newLogger(stderrWriter(cfg.IsDevelopment()), ParseLevel(cfg.LogLevel))
}

// stderrWriter picks human-readable lines in development and JSON otherwise
func stderrWriter(console bool) io.Writer {
	if !console {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(name string) zerolog.Level {
	if level, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level
	}
	return zerolog.InfoLevel
}

// SetLevel changes the minimum level at runtime
func SetLevel(name string) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Level(ParseLevel(name))
}

// SetOutput sends all further log lines to w
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Output(w)
}

func snapshot() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func Debug() *zerolog.Event {
	l := snapshot()
	return l.Debug()
}

func Info() *zerolog.Event {
	l := snapshot()
	return l.Info()
}

func Warn() *zerolog.Event {
	l := snapshot()
	return l.Warn()
}

func Error() *zerolog.Event {
	l := snapshot()
	return l.Error()
}

// Fatal exits the process once the event is sent
func Fatal() *zerolog.Event {
	l := snapshot()
	return l.Fatal()
}

// httpErrorWriter turns each line net/http prints into a warning
type httpErrorWriter struct{}

func (httpErrorWriter) Write(p []byte) (int, error) {
	Warn().Str("source", "net/http").Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// StdErrorLogger is the ErrorLog for the HTTP server. Lines are logged at
// warn level through the current logger.
func StdErrorLogger() *stdlog.Logger {
	return stdlog.New(httpErrorWriter{}, "", 0)
}
