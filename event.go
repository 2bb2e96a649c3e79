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

// EventFactory pre-allocates one event per ring slot at construction
// time. Producers mutate these events in place instead of allocating,
// so the factory must return a pointer type.
type EventFactory func() interface{}

// EventTranslator fills a claimed event with the data to publish.
type EventTranslator func(event interface{}, sequence int64)

// EventHandler is the consumer-side callback. endOfBatch marks the last
// event of the batch handed over by one barrier wait, which is the
// natural point to flush any batched side effects.
type EventHandler interface {
	OnEvent(event interface{}, sequence int64, endOfBatch bool) error
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
type EventHandlerFunc func(event interface{}, sequence int64, endOfBatch bool) error

// OnEvent implements EventHandler.
func (f EventHandlerFunc) OnEvent(event interface{}, sequence int64, endOfBatch bool) error {
	return f(event, sequence, endOfBatch)
}

// ErrorHandler receives errors and recovered panics from event handlers.
// The processor keeps running after the callback returns; a handler that
// must stop the consumer should call Halt itself.
type ErrorHandler func(err error, sequence int64, event interface{})
