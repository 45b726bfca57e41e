// Package logx is the process-wide leveled logger. Handlers and services log
// through it instead of carrying logger dependencies around.
package logx

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	level  atomic.Int32
	logger = log.New(os.Stderr, "", log.LstdFlags)
)

// SetLevel sets the minimum level that gets emitted.
func SetLevel(l Level) { level.Store(int32(l)) }

// SetOutput redirects log output, mainly for tests.
func SetOutput(w *os.File) { logger.SetOutput(w) }

func emit(l Level, tag, msg string) {
	if l < Level(level.Load()) {
		return
	}
	logger.Printf("%s %s", tag, msg)
}

func Debug(msg string)                          { emit(LevelDebug, "DEBUG", msg) }
func Debugf(format string, args ...interface{}) { emit(LevelDebug, "DEBUG", fmt.Sprintf(format, args...)) }

func Info(msg string)                          { emit(LevelInfo, "INFO", msg) }
func Infof(format string, args ...interface{}) { emit(LevelInfo, "INFO", fmt.Sprintf(format, args...)) }

func Warn(msg string)                          { emit(LevelWarn, "WARN", msg) }
func Warnf(format string, args ...interface{}) { emit(LevelWarn, "WARN", fmt.Sprintf(format, args...)) }

func Error(msg string)                          { emit(LevelError, "ERROR", msg) }
func Errorf(format string, args ...interface{}) { emit(LevelError, "ERROR", fmt.Sprintf(format, args...)) }

func Fatalf(format string, args ...interface{}) {
	logger.Printf("FATAL %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}
