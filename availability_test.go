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

	"github.com/ringio/disruptor/pkg/math"
)

func newTestBuffer(size int) *availableBuffer {
	return newAvailableBuffer(size, math.Log2(size))
}

func TestAvailableBufferStartsUnpublished(t *testing.T) {
	b := newTestBuffer(8)
	for seq := int64(0); seq < 16; seq++ {
		assert.Falsef(t, b.isPublished(b.calculateIndex(seq), b.calculateAvailabilityFlag(seq)),
			"sequence %d must not read as published before its first publish", seq)
	}
}

func TestAvailableBufferIndexAndFlag(t *testing.T) {
	b := newTestBuffer(8)
	tests := []struct {
		sequence int64
		index    int
		flag     int32
	}{
		{sequence: 0, index: 0, flag: 0},
		{sequence: 7, index: 7, flag: 0},
		{sequence: 8, index: 0, flag: 1},
		{sequence: 13, index: 5, flag: 1},
		{sequence: 16, index: 0, flag: 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.index, b.calculateIndex(tt.sequence))
		assert.Equal(t, tt.flag, b.calculateAvailabilityFlag(tt.sequence))
	}
}

func TestAvailabilityFlagPairRoundTrips(t *testing.T) {
	// index+flag together identify the sequence: reassembling
	// flag<<shift | index must give back the original value.
	for _, size := range []int{1, 4, 64, 1024} {
		b := newTestBuffer(size)
		shift := math.Log2(size)
		for _, seq := range []int64{0, 1, int64(size) - 1, int64(size), int64(size) + 3, 12345} {
			index := b.calculateIndex(seq)
			flag := b.calculateAvailabilityFlag(seq)
			assert.EqualValues(t, seq, int64(flag)<<shift|int64(index),
				"size %d sequence %d", size, seq)
		}
	}
}

func TestAvailableBufferMarkAndCheck(t *testing.T) {
	b := newTestBuffer(4)

	index, flag := b.calculateIndex(2), b.calculateAvailabilityFlag(2)
	b.markPublished(index, flag)
	assert.True(t, b.isPublished(index, flag))

	// The same slot one wrap later is a different flag, still unpublished.
	nextWrap := b.calculateAvailabilityFlag(6)
	assert.False(t, b.isPublished(index, nextWrap))
}

func TestAvailableBufferDoublePublishIsIdempotent(t *testing.T) {
	b := newTestBuffer(4)
	index, flag := b.calculateIndex(3), b.calculateAvailabilityFlag(3)
	b.markPublished(index, flag)
	b.markPublished(index, flag)
	assert.True(t, b.isPublished(index, flag))
}

func TestAvailableBufferSizeOne(t *testing.T) {
	b := newTestBuffer(1)
	// With a single slot the whole sequence is the wrap count.
	for seq := int64(0); seq < 5; seq++ {
		assert.Equal(t, 0, b.calculateIndex(seq))
		assert.EqualValues(t, seq, b.calculateAvailabilityFlag(seq))
	}
}
