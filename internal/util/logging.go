package util

import (
	"fmt"
	"io"
	"log"
	"os"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorGray   = "\x1b[90m"
)

// LoggerOptions configures a Logger.
type LoggerOptions struct {
	Verbose bool
	Color   bool
}

// Logger writes leveled messages to an underlying writer.
// Detail messages are dropped unless Verbose is set.
type Logger struct {
	out     *log.Logger
	verbose bool
	color   bool
}

// NewLogger returns a Logger that writes to w with timestamped lines.
func NewLogger(w io.Writer, opts LoggerOptions) *Logger {
	return &Logger{
		out:     log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		verbose: opts.Verbose,
		color:   opts.Color,
	}
}

// Verbose reports whether detail messages are emitted.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Infof logs an info message.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(colorGreen, "INFO", format, args...)
}

// Warnf logs a warning message.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(colorYellow, "WARN", format, args...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(colorRed, "ERROR", format, args...)
}

// Highlightf logs a highlighted message.
func (l *Logger) Highlightf(format string, args ...any) {
	l.emit(colorBlue, "NOTE", format, args...)
}

// Detailf logs a detail message when verbose logging is enabled.
func (l *Logger) Detailf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.emit(colorGray, "DETAIL", format, args...)
}

func (l *Logger) emit(color, level, format string, args ...any) {
	tag := level
	if l.color {
		tag = colorize(color, level)
	}
	l.out.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

func colorize(color, msg string) string {
	return color + msg + colorReset
}

var std = NewLogger(os.Stdout, LoggerOptions{Verbose: true, Color: true})

// SetDefault replaces the logger used by the package-level helpers.
// It is meant to be called once during startup.
func SetDefault(l *Logger) {
	if l != nil {
		std = l
	}
}

// Default returns the logger used by the package-level helpers.
func Default() *Logger {
	return std
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	std.Infof(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	std.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	std.Errorf(format, args...)
}

// Highlightf logs a highlighted message.
func Highlightf(format string, args ...any) {
	std.Highlightf(format, args...)
}

// Detailf logs a detail message.
func Detailf(format string, args ...any) {
	std.Detailf(format, args...)
}
