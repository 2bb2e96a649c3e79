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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorx "github.com/ringio/disruptor/pkg/errors"
)

type testEvent struct {
	value int64
}

func newTestRingBuffer(t *testing.T, bufferSize int) *RingBuffer {
	s := newTestSequencer(t, bufferSize)
	rb, err := NewRingBuffer(func() interface{} { return new(testEvent) }, s)
	require.NoError(t, err)
	return rb
}

func TestNewRingBufferRequiresFactory(t *testing.T) {
	s := newTestSequencer(t, 8)
	_, err := NewRingBuffer(nil, s)
	assert.ErrorIs(t, err, errorx.ErrMissingEventFactory)
}

func TestRingBufferPreallocatesCells(t *testing.T) {
	rb := newTestRingBuffer(t, 4)
	assert.Equal(t, 4, rb.BufferSize())

	for seq := int64(0); seq < 4; seq++ {
		require.NotNil(t, rb.Get(seq))
	}
	// One lap later the same cells come back.
	for seq := int64(0); seq < 4; seq++ {
		assert.Same(t, rb.Get(seq), rb.Get(seq+4))
	}
}

func TestRingBufferPublishEvent(t *testing.T) {
	rb := newTestRingBuffer(t, 8)

	for i := int64(0); i < 3; i++ {
		i := i
		err := rb.PublishEvent(func(event interface{}, sequence int64) {
			event.(*testEvent).value = i * 10
			assert.Equal(t, i, sequence)
		})
		require.NoError(t, err)
	}

	assert.EqualValues(t, 2, rb.Cursor())
	assert.EqualValues(t, 2, rb.Sequencer().HighestPublishedSequence(0, 2))
	assert.EqualValues(t, 10, rb.Get(1).(*testEvent).value)
}

func TestRingBufferTryPublishEventWhenFull(t *testing.T) {
	rb := newTestRingBuffer(t, 2)
	gate := NewSequence(InitialSequenceValue)
	rb.Sequencer().AddGatingSequences(gate)

	fill := func(event interface{}, sequence int64) {
		event.(*testEvent).value = sequence
	}
	require.NoError(t, rb.TryPublishEvent(fill))
	require.NoError(t, rb.TryPublishEvent(fill))

	err := rb.TryPublishEvent(fill)
	assert.ErrorIs(t, err, errorx.ErrInsufficientCapacity)

	gate.Store(0)
	require.NoError(t, rb.TryPublishEvent(fill))
	assert.EqualValues(t, 2, rb.Get(2).(*testEvent).value)
}

func TestRingBufferBatchClaim(t *testing.T) {
	rb := newTestRingBuffer(t, 8)

	hi, err := rb.Next(4)
	require.NoError(t, err)
	lo := hi - 4 + 1
	for seq := lo; seq <= hi; seq++ {
		rb.Get(seq).(*testEvent).value = seq * 2
	}
	rb.PublishRange(lo, hi)

	assert.EqualValues(t, hi, rb.Sequencer().HighestPublishedSequence(lo, hi))
	for seq := lo; seq <= hi; seq++ {
		assert.EqualValues(t, seq*2, rb.Get(seq).(*testEvent).value)
	}
}
