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
	"context"
	"sync/atomic"
	"time"

	errorx "github.com/ringio/disruptor/pkg/errors"
	"github.com/ringio/disruptor/pkg/logging"
	"github.com/ringio/disruptor/pkg/pool/goroutine"
)

// Disruptor wires a ring buffer, a multi-producer sequencer and a graph
// of event processors, and runs the processors on a worker pool. It is
// the assembly layer; all coordination lives in the sequencer and the
// barriers.
type Disruptor struct {
	opts       *Options
	logger     logging.Logger
	sequencer  *MultiProducerSequencer
	ringBuffer *RingBuffer
	pool       *goroutine.Pool
	ownsPool   bool

	processors []*BatchEventProcessor
	// ends holds the sequences of processors nobody depends on yet;
	// they become the gating set at Start.
	ends    []*Sequence
	started int32
}

// EventHandlerGroup names a layer of consumers; Then chains another
// layer behind it.
type EventHandlerGroup struct {
	d         *Disruptor
	sequences []*Sequence
}

// NewDisruptor instantiates a disruptor over a ring of bufferSize
// pre-allocated events.
func NewDisruptor(factory EventFactory, bufferSize int, opts ...Option) (*Disruptor, error) {
	options := loadOptions(opts...)

	logger := options.Logger
	if logger == nil {
		if len(options.LogPath) > 0 {
			var err error
			logger, _, err = logging.NewFileLogger(options.LogPath, options.LogLevel)
			if err != nil {
				return nil, err
			}
		} else {
			logger = logging.GetDefaultLogger()
		}
	}

	if options.WaitStrategy == nil {
		options.WaitStrategy = NewBlockingWaitStrategy()
	}

	sequencer, err := NewMultiProducerSequencer(bufferSize, options.WaitStrategy)
	if err != nil {
		return nil, err
	}
	ringBuffer, err := NewRingBuffer(factory, sequencer)
	if err != nil {
		return nil, err
	}

	pool := options.Pool
	ownsPool := false
	if pool == nil {
		pool = goroutine.Default()
		ownsPool = true
	}

	return &Disruptor{
		opts:       options,
		logger:     logger,
		sequencer:  sequencer,
		ringBuffer: ringBuffer,
		pool:       pool,
		ownsPool:   ownsPool,
	}, nil
}

// RingBuffer returns the payload store for producers.
func (d *Disruptor) RingBuffer() *RingBuffer {
	return d.ringBuffer
}

// HandleEventsWith registers one processor per handler, each gated on
// the producer cursor only.
func (d *Disruptor) HandleEventsWith(handlers ...EventHandler) (*EventHandlerGroup, error) {
	return d.createProcessors(nil, handlers)
}

// Then registers one processor per handler behind every processor of
// the receiving group.
func (g *EventHandlerGroup) Then(handlers ...EventHandler) (*EventHandlerGroup, error) {
	return g.d.createProcessors(g.sequences, handlers)
}

func (d *Disruptor) createProcessors(dependents []*Sequence, handlers []EventHandler) (*EventHandlerGroup, error) {
	if atomic.LoadInt32(&d.started) == 1 {
		return nil, errorx.ErrDisruptorStarted
	}
	if len(handlers) == 0 {
		return nil, errorx.ErrMissingEventHandler
	}

	errorHandler := d.opts.ErrorHandler
	group := &EventHandlerGroup{d: d}
	for _, handler := range handlers {
		barrier := d.sequencer.NewBarrier(dependents...)
		p := NewBatchEventProcessor(d.ringBuffer, barrier, handler, errorHandler)
		if errorHandler == nil {
			p.errorHandler = d.haltOnError(p)
		}
		d.processors = append(d.processors, p)
		group.sequences = append(group.sequences, p.Sequence())
	}

	// Consumers now chained behind no longer gate the producers.
	d.ends = removeSequences(d.ends, dependents)
	d.ends = append(d.ends, group.sequences...)
	return group, nil
}

func (d *Disruptor) haltOnError(p *BatchEventProcessor) ErrorHandler {
	return func(err error, sequence int64, event interface{}) {
		d.logger.Errorf("event handler failed at sequence %d, halting processor: %v", sequence, err)
		p.Halt()
	}
}

func removeSequences(set, toRemove []*Sequence) []*Sequence {
	kept := set[:0]
outer:
	for _, seq := range set {
		for _, rm := range toRemove {
			if seq == rm {
				continue outer
			}
		}
		kept = append(kept, seq)
	}
	return kept
}

// Start registers the final consumer layer as the gating set and
// launches every processor on the worker pool.
func (d *Disruptor) Start() error {
	if !atomic.CompareAndSwapInt32(&d.started, 0, 1) {
		return errorx.ErrDisruptorStarted
	}

	if len(d.ends) == 0 {
		// Without gating sequences the claim loop is unbounded and
		// producers will lap the ring.
		d.logger.Warnf("starting with no consumers registered, producers are ungated")
	}
	d.sequencer.AddGatingSequences(d.ends...)

	for _, p := range d.processors {
		p := p
		if err := d.pool.Submit(p.Run); err != nil {
			return err
		}
	}
	d.logger.Infof("disruptor started with %d event processors over a ring of %d slots",
		len(d.processors), d.sequencer.BufferSize())
	return nil
}

// Shutdown waits until every consumer has processed all published
// events, then halts the processors. Producers must have stopped
// claiming before the call, otherwise the drain cannot finish and
// Shutdown returns with the context's error.
func (d *Disruptor) Shutdown(ctx context.Context) error {
	if atomic.LoadInt32(&d.started) == 0 {
		return errorx.ErrDisruptorNotStarted
	}

	for d.hasBacklog() {
		select {
		case <-ctx.Done():
			d.halt()
			return ctx.Err()
		default:
			time.Sleep(time.Microsecond)
		}
	}
	d.halt()
	d.logger.Infof("disruptor shut down, cursor at %d", d.sequencer.Cursor())
	return nil
}

func (d *Disruptor) hasBacklog() bool {
	cursor := d.sequencer.Cursor()
	return minimumSequence(d.ends, cursor) < cursor
}

func (d *Disruptor) halt() {
	for _, p := range d.processors {
		p.Halt()
	}
	if d.ownsPool {
		d.pool.Release()
	}
}
