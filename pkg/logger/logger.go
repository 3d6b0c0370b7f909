package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the service and its CLIs.
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - Named(component) for per-component prefixes

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// ParseLevel maps a level name to a Level; unknown names map to LevelInfo.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// SetOutput redirects all log output. It returns the previous writer's logger
// so callers (tests) can restore it.
func SetOutput(w io.Writer) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	prev := logger
	logger = log.New(w, "", 0)
	return prev
}

// Restore reinstates a logger returned by SetOutput.
func Restore(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func header(lvl string) string {
	return fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(lvl))
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func output(lvl Level, name, prefix, format string, v ...interface{}) {
	if !shouldLog(lvl) {
		return
	}
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Printf(header(name)+prefix+format, v...)
}

func Debugf(format string, v ...interface{}) { output(LevelDebug, "debug", "", format, v...) }
func Infof(format string, v ...interface{})  { output(LevelInfo, "info", "", format, v...) }
func Warnf(format string, v ...interface{})  { output(LevelWarn, "warn", "", format, v...) }
func Errorf(format string, v ...interface{}) { output(LevelError, "error", "", format, v...) }

func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, "fatal", "", format, v...)
	os.Exit(1)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

// Component is a logger that prefixes every line with "[name] ".
type Component struct {
	prefix string
}

// Named returns a component logger.
func Named(name string) *Component {
	return &Component{prefix: "[" + name + "] "}
}

// With returns a child component logger with extra key=value context appended to the prefix.
func (c *Component) With(key string, value interface{}) *Component {
	return &Component{prefix: fmt.Sprintf("%s%s=%v ", c.prefix, key, value)}
}

func (c *Component) Debugf(format string, v ...interface{}) {
	output(LevelDebug, "debug", c.prefix, format, v...)
}

func (c *Component) Infof(format string, v ...interface{}) {
	output(LevelInfo, "info", c.prefix, format, v...)
}

func (c *Component) Warnf(format string, v ...interface{}) {
	output(LevelWarn, "warn", c.prefix, format, v...)
}

func (c *Component) Errorf(format string, v ...interface{}) {
	output(LevelError, "error", c.prefix, format, v...)
}
