package logsvc

import (
	"io"
	"log"
	"os"

	"github.com/trezcool/classplan/core"
)

var exitFunc = os.Exit // mockable

// Levels
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ConsoleLogger only prints, skipping messages below its level.
type ConsoleLogger struct {
	std   *log.Logger
	level int
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger, level int) *ConsoleLogger {
	if std == nil {
		std = log.New(os.Stdout, "", log.LstdFlags)
	}
	return &ConsoleLogger{std: std, level: level}
}

// NewDiscardLogger returns a logger printing nothing. Used in tests.
func NewDiscardLogger() *ConsoleLogger {
	return &ConsoleLogger{std: log.New(io.Discard, "", 0), level: LevelError + 1}
}

func printArgs(std *log.Logger, level, msg string, args []interface{}) {
	std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		std.Printf("%+v\n", arg)
	}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) {
	if l.level <= LevelDebug {
		printArgs(l.std, "DEBUG", msg, args)
	}
}

func (l ConsoleLogger) Info(msg string, args ...interface{}) {
	if l.level <= LevelInfo {
		printArgs(l.std, "INFO", msg, args)
	}
}

func (l ConsoleLogger) Warn(msg string, args ...interface{}) {
	if l.level <= LevelWarn {
		printArgs(l.std, "WARN", msg, args)
	}
}

func (l ConsoleLogger) Error(msg string, args ...interface{}) {
	if l.level <= LevelError {
		printArgs(l.std, "ERROR", msg, args)
	}
}

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	printArgs(l.std, "FATAL", msg, args)
	exitFunc(1)
}
