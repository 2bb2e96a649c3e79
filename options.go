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

package disruptor

import (
	"github.com/ringio/disruptor/pkg/logging"
	"github.com/ringio/disruptor/pkg/pool/goroutine"
)

// Option is a function that will set up option.
type Option func(opts *Options)

func loadOptions(options ...Option) *Options {
	opts := new(Options)
	for _, option := range options {
		option(opts)
	}
	return opts
}

// Options are configurations of a Disruptor.
type Options struct {
	// WaitStrategy decides how consumers await published sequences,
	// NewBlockingWaitStrategy() by default.
	WaitStrategy WaitStrategy

	// ErrorHandler receives handler errors and recovered panics. When
	// nil, a failing handler halts its processor and the failure is
	// logged.
	ErrorHandler ErrorHandler

	// Pool is the worker pool that runs event processors. When nil the
	// disruptor creates and owns one.
	Pool *goroutine.Pool

	// Logger is the customized logger for logging info, if it is not
	// set, then the default logger is used.
	Logger logging.Logger

	// LogPath is the local path where logs will be written, this is the
	// easiest way to set up logging, the disruptor instantiates a
	// default uber-go/zap logger with this log path, you are also
	// allowed to employ your own logger by implementing the
	// logging.Logger interface and setting the Logger field.
	LogPath string

	// LogLevel indicates the logging level, it should be used along
	// with LogPath.
	LogLevel logging.Level
}

// WithOptions sets up all options.
func WithOptions(options Options) Option {
	return func(opts *Options) {
		*opts = options
	}
}

// WithWaitStrategy sets up the consumer wait strategy.
func WithWaitStrategy(waitStrategy WaitStrategy) Option {
	return func(opts *Options) {
		opts.WaitStrategy = waitStrategy
	}
}

// WithErrorHandler sets up the handler failure callback.
func WithErrorHandler(errorHandler ErrorHandler) Option {
	return func(opts *Options) {
		opts.ErrorHandler = errorHandler
	}
}

// WithGoroutinePool sets up the worker pool that runs event processors.
func WithGoroutinePool(pool *goroutine.Pool) Option {
	return func(opts *Options) {
		opts.Pool = pool
	}
}

// WithLogger sets up a customized logger.
func WithLogger(logger logging.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithLogPath is an option to set up the local path of log file.
func WithLogPath(fileName string) Option {
	return func(opts *Options) {
		opts.LogPath = fileName
	}
}

// WithLogLevel is an option to set up the logging level.
func WithLogLevel(lvl logging.Level) Option {
	return func(opts *Options) {
		opts.LogLevel = lvl
	}
}
