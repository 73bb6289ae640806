package cg14

import (
	"fmt"
	"io"
	"strings"
)

// LogLevel picks how chatty the device diagnostics are
type LogLevel int

// Log levels, each including the ones before it
const (
	LogOff LogLevel = iota
	LogError
	LogInfo
	LogDebug
)

var logLevelNames = map[string]LogLevel{
	"off":   LogOff,
	"error": LogError,
	"info":  LogInfo,
	"debug": LogDebug,
}

// ParseLogLevel maps "off", "error", "info" or "debug" to a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	if lvl, ok := logLevelNames[strings.ToLower(s)]; ok {
		return lvl, nil
	}
	return LogOff, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) String() string {
	for name, lvl := range logLevelNames {
		if lvl == l {
			return name
		}
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// diagLog is where bus-time complaints go. Nothing on the bus path ever
// returns an error, so this is the only record of odd guest accesses.
type diagLog struct {
	level  LogLevel
	out    io.Writer
	prefix string
}

func newDiagLog(level LogLevel, out io.Writer, prefix string) *diagLog {
	return &diagLog{level: level, out: out, prefix: prefix}
}

func (l *diagLog) printf(level LogLevel, format string, args ...interface{}) {
	if l == nil || l.out == nil || level > l.level {
		return
	}
	fmt.Fprintf(l.out, l.prefix+format, args...)
}

func (l *diagLog) errorf(format string, args ...interface{}) {
	l.printf(LogError, format, args...)
}
func (l *diagLog) infof(format string, args ...interface{}) {
	l.printf(LogInfo, format, args...)
}
func (l *diagLog) debugf(format string, args ...interface{}) {
	l.printf(LogDebug, format, args...)
}
