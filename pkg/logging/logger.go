// Copyright (c) 2023 The Ringio Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging is the zap-backed logging facade of the disruptor
// runtime. The sequencing core never logs; only the wiring layer
// (start, shutdown, handler failures) goes through this
// package, so the surface is deliberately small: a default logger, a
// rotating file logger, and the Logger interface users implement to
// plug in their own.
//
// The environment variable `DISRUPTOR_LOGGING_LEVEL` sets the level of
// the default logger (an integer, zapcore.Level numbering).
// `DISRUPTOR_LOGGING_FILE` redirects the default logger into a
// rotating local file.
package logging

import (
	"errors"
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is used for logging formatted messages.
type Logger interface {
	// Debugf logs messages at DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof logs messages at INFO level.
	Infof(format string, args ...interface{})
	// Warnf logs messages at WARN level.
	Warnf(format string, args ...interface{})
	// Errorf logs messages at ERROR level.
	Errorf(format string, args ...interface{})
	// Fatalf logs messages at FATAL level.
	Fatalf(format string, args ...interface{})
}

// Level is the alias of zapcore.Level.
type Level = zapcore.Level

// Flusher flushes any buffered log entries to the underlying writer,
// usually right before the process exits.
type Flusher = func() error

var (
	defaultLogger  Logger
	defaultFlusher Flusher
)

func init() {
	var lvl Level
	if v := os.Getenv("DISRUPTOR_LOGGING_LEVEL"); len(v) > 0 {
		n, err := strconv.ParseInt(v, 10, 8)
		if err != nil {
			panic("invalid DISRUPTOR_LOGGING_LEVEL, " + err.Error())
		}
		lvl = Level(n)
	}

	if path := os.Getenv("DISRUPTOR_LOGGING_FILE"); len(path) > 0 {
		logger, flush, err := NewFileLogger(path, lvl)
		if err != nil {
			panic("invalid DISRUPTOR_LOGGING_FILE, " + err.Error())
		}
		defaultLogger, defaultFlusher = logger, flush
		return
	}
	defaultLogger = newConsoleLogger(lvl)
}

// newConsoleLogger builds the stderr logger used until the caller
// installs anything else. The "disruptor" name stands in for a prefix.
func newConsoleLogger(lvl Level) Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core, zap.AddCaller()).Named("disruptor").Sugar()
}

// NewFileLogger builds a logger writing JSON entries to a
// size-rotated local file.
func NewFileLogger(path string, lvl Level) (Logger, Flusher, error) {
	if len(path) == 0 {
		return nil, nil, errors.New("empty log file path")
	}

	// lumberjack.Logger is already safe for concurrent use, so we don't need to lock it.
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    64, // megabytes
		MaxBackups: 4,
		MaxAge:     7, // days
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), lvl)
	zapLogger := zap.New(core, zap.AddCaller()).Named("disruptor")
	return zapLogger.Sugar(), zapLogger.Sync, nil
}

// GetDefaultLogger returns the default logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// Cleanup flushes the default logger if it buffers.
func Cleanup() {
	if defaultFlusher != nil {
		_ = defaultFlusher()
	}
}

// Debugf logs messages at DEBUG level.
func Debugf(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

// Infof logs messages at INFO level.
func Infof(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

// Warnf logs messages at WARN level.
func Warnf(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

// Errorf logs messages at ERROR level.
func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// Fatalf logs messages at FATAL level.
func Fatalf(format string, args ...interface{}) {
	defaultLogger.Fatalf(format, args...)
}
