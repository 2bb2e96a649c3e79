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
	"fmt"
	"sync/atomic"

	errorx "github.com/ringio/disruptor/pkg/errors"
)

const (
	processorIdle int32 = iota
	processorRunning
	processorHalted
)

// BatchEventProcessor is the consumer event loop: it waits on its
// barrier, hands each published event to the handler in batches, and
// advances its own sequence so downstream consumers and producers can
// follow.
type BatchEventProcessor struct {
	ringBuffer   *RingBuffer
	barrier      SequenceBarrier
	handler      EventHandler
	errorHandler ErrorHandler
	sequence     *Sequence
	state        int32
}

// NewBatchEventProcessor instantiates a processor draining ringBuffer
// through barrier into handler. errorHandler may be nil, in which case
// handler errors halt the processor.
func NewBatchEventProcessor(ringBuffer *RingBuffer, barrier SequenceBarrier, handler EventHandler, errorHandler ErrorHandler) *BatchEventProcessor {
	return &BatchEventProcessor{
		ringBuffer:   ringBuffer,
		barrier:      barrier,
		handler:      handler,
		errorHandler: errorHandler,
		sequence:     NewSequence(InitialSequenceValue),
	}
}

// Sequence returns the processor's own sequence, the one to register in
// the gating set and to gate downstream consumers on.
func (p *BatchEventProcessor) Sequence() *Sequence {
	return p.sequence
}

// IsRunning reports whether the event loop is live.
func (p *BatchEventProcessor) IsRunning() bool {
	return atomic.LoadInt32(&p.state) == processorRunning
}

// Halt stops the event loop at the next wait and leaves the sequence
// where it was. Safe to call from any goroutine.
func (p *BatchEventProcessor) Halt() {
	atomic.StoreInt32(&p.state, processorHalted)
	p.barrier.Alert()
}

// Run drives the event loop until Halt. It is the body submitted to the
// worker pool; calling it twice concurrently is a no-op for the loser.
func (p *BatchEventProcessor) Run() {
	if !atomic.CompareAndSwapInt32(&p.state, processorIdle, processorRunning) {
		return
	}
	defer atomic.StoreInt32(&p.state, processorIdle)

	p.barrier.ClearAlert()

	next := p.sequence.Load() + 1
	for {
		available, err := p.barrier.WaitFor(next)
		if err != nil {
			if err == errorx.ErrAlert && atomic.LoadInt32(&p.state) == processorHalted {
				return
			}
			// A re-sync alert: clear it and carry on with the same
			// target.
			p.barrier.ClearAlert()
			continue
		}
		if available < next {
			// Nothing new yet (a timed wait gave up, or the target is
			// claimed but unpublished); retry with the same target.
			continue
		}

		for ; next <= available; next++ {
			p.dispatch(next, next == available)
		}
		p.sequence.Store(available)
	}
}

func (p *BatchEventProcessor) dispatch(sequence int64, endOfBatch bool) {
	event := p.ringBuffer.Get(sequence)
	defer func() {
		if r := recover(); r != nil {
			p.fail(fmt.Errorf("disruptor: event handler panic: %v", r), sequence, event)
		}
	}()
	if err := p.handler.OnEvent(event, sequence, endOfBatch); err != nil {
		p.fail(err, sequence, event)
	}
}

func (p *BatchEventProcessor) fail(err error, sequence int64, event interface{}) {
	if p.errorHandler != nil {
		p.errorHandler(err, sequence, event)
		return
	}
	p.Halt()
}
