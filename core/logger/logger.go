package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the process-wide logger. format is "json" or "console".
func Init(level, format string) {
	var out io.Writer = os.Stdout
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	SetOutput(out)
	SetLevel(level)
}

// SetOutput replaces the writer the logger emits to.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Output(w)
}

func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(lvl)
}

// Logger returns a copy of the underlying zerolog logger for libraries that want one.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, args ...any) {
	l := Logger()
	withFields(l.Debug(), args).Msg(msg)
}

func Info(msg string, args ...any) {
	l := Logger()
	withFields(l.Info(), args).Msg(msg)
}

func Warn(msg string, args ...any) {
	l := Logger()
	withFields(l.Warn(), args).Msg(msg)
}

func Error(msg string, args ...any) {
	l := Logger()
	withFields(l.Error(), args).Msg(msg)
}

// withFields accepts alternating key/value pairs. A bare error is logged under
// "error"; any other unpaired value is logged under "argN".
func withFields(e *zerolog.Event, args []any) *zerolog.Event {
	if e == nil {
		return nil
	}
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			e = e.Err(v)
		case string:
			if i+1 >= len(args) {
				e = e.Str(fmt.Sprintf("arg%d", i), v)
				continue
			}
			if err, ok := args[i+1].(error); ok {
				e = e.AnErr(v, err)
			} else {
				e = e.Interface(v, args[i+1])
			}
			i++
		default:
			e = e.Interface(fmt.Sprintf("arg%d", i), v)
		}
	}
	return e
}
