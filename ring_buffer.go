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
	errorx "github.com/ringio/disruptor/pkg/errors"
)

// RingBuffer is the payload store laid over a sequencer: a fixed array
// of pre-allocated events indexed by the low bits of the sequence. The
// sequencer coordinates slot ownership; the ring buffer only holds the
// cells and forwards claims and publications.
type RingBuffer struct {
	_         [cacheLineSize - 8]byte
	entries   []interface{}
	mask      int64
	sequencer Sequencer
	_         [cacheLineSize - 8]byte
}

// NewRingBuffer instantiates a ring buffer over the given sequencer,
// filling every slot from the factory up front.
func NewRingBuffer(factory EventFactory, sequencer Sequencer) (*RingBuffer, error) {
	if factory == nil {
		return nil, errorx.ErrMissingEventFactory
	}
	size := sequencer.BufferSize()
	rb := &RingBuffer{
		entries:   make([]interface{}, size),
		mask:      int64(size - 1),
		sequencer: sequencer,
	}
	for i := range rb.entries {
		rb.entries[i] = factory()
	}
	return rb, nil
}

// Get returns the event cell for the given sequence. The caller must
// hold the claim (producer side) or have observed the sequence as
// published (consumer side).
func (rb *RingBuffer) Get(sequence int64) interface{} {
	return rb.entries[sequence&rb.mask]
}

// Next claims the next n sequences, blocking while the ring is full.
func (rb *RingBuffer) Next(n int) (int64, error) {
	return rb.sequencer.Next(n)
}

// TryNext claims the next n sequences without blocking.
func (rb *RingBuffer) TryNext(n int) (int64, error) {
	return rb.sequencer.TryNext(n)
}

// Publish marks the given sequence published.
func (rb *RingBuffer) Publish(sequence int64) {
	rb.sequencer.Publish(sequence)
}

// PublishRange marks every sequence in [lo, hi] published.
func (rb *RingBuffer) PublishRange(lo, hi int64) {
	rb.sequencer.PublishRange(lo, hi)
}

// PublishEvent claims one slot, fills it through the translator and
// publishes it. This is the convenience path for producers that do not
// batch.
func (rb *RingBuffer) PublishEvent(translator EventTranslator) error {
	sequence, err := rb.sequencer.Next(1)
	if err != nil {
		return err
	}
	translator(rb.Get(sequence), sequence)
	rb.sequencer.Publish(sequence)
	return nil
}

// TryPublishEvent is the non-blocking variant of PublishEvent; it fails
// with errors.ErrInsufficientCapacity when the ring is full.
func (rb *RingBuffer) TryPublishEvent(translator EventTranslator) error {
	sequence, err := rb.sequencer.TryNext(1)
	if err != nil {
		return err
	}
	translator(rb.Get(sequence), sequence)
	rb.sequencer.Publish(sequence)
	return nil
}

// BufferSize returns the number of slots in the ring.
func (rb *RingBuffer) BufferSize() int {
	return rb.sequencer.BufferSize()
}

// Cursor returns the highest claimed sequence.
func (rb *RingBuffer) Cursor() int64 {
	return rb.sequencer.Cursor()
}

// Sequencer exposes the underlying sequencer.
func (rb *RingBuffer) Sequencer() Sequencer {
	return rb.sequencer
}
