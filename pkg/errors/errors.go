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

// Package errors defines common errors for disruptor.
package errors

import "errors"

var (
	// ErrArgumentNotPositive occurs when claiming fewer than one sequence.
	ErrArgumentNotPositive = errors.New("disruptor: n must be > 0")
	// ErrBufferSizeNotPowerOfTwo occurs when constructing a sequencer (directly or through NewDisruptor) whose size is not a power of two.
	ErrBufferSizeNotPowerOfTwo = errors.New("disruptor: buffer size must be a power of two")
	// ErrBufferSizeNotPositive occurs when constructing a sequencer (directly or through NewDisruptor) whose size is less than one.
	ErrBufferSizeNotPositive = errors.New("disruptor: buffer size must not be less than 1")
	// ErrInsufficientCapacity occurs when a claim would overrun the slowest gating sequence,
	// it is the flow-control signal of TryNext, callers are expected to back off and retry.
	ErrInsufficientCapacity = errors.New("disruptor: insufficient capacity in the ring")
	// ErrAlert occurs when a sequence barrier has been alerted, consumers should unwind their event loop.
	ErrAlert = errors.New("disruptor: sequence barrier alerted")
	// ErrMissingEventFactory occurs when constructing a ring buffer without an event factory.
	ErrMissingEventFactory = errors.New("disruptor: event factory must not be nil")
	// ErrMissingEventHandler occurs when wiring a processor chain without any event handler.
	ErrMissingEventHandler = errors.New("disruptor: at least one event handler is required")
	// ErrDisruptorStarted occurs when mutating the consumer topology after Start.
	ErrDisruptorStarted = errors.New("disruptor: already started")
	// ErrDisruptorNotStarted occurs when shutting down a disruptor that never started.
	ErrDisruptorNotStarted = errors.New("disruptor: not started")
)
