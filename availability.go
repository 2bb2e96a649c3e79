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

import "sync/atomic"

// availableBuffer tracks the publication state of each ring slot.
//
// A sequence splits into a slot index (the low bits) and a wrap-count
// flag (the high bits). A slot is published for a given sequence iff
// the entry at its index holds that sequence's wrap count. Because the
// gating invariant keeps producers at most one lap ahead of the slowest
// consumer, a slot is claimed at most once per wrap, so each producer
// can simply overwrite its entry without coordinating with the others:
// no CAS on the table and no shared producer-side cursor.
//
// Every entry starts at -1, a flag no non-negative sequence ever
// produces, so nothing reads as published before its first publish.
type availableBuffer struct {
	flags []int32
	mask  int64
	shift uint
}

func newAvailableBuffer(bufferSize int, indexShift uint) *availableBuffer {
	b := &availableBuffer{
		flags: make([]int32, bufferSize),
		mask:  int64(bufferSize - 1),
		shift: indexShift,
	}
	for i := range b.flags {
		b.flags[i] = -1
	}
	return b
}

// calculateIndex masks off the low bits of the sequence.
func (b *availableBuffer) calculateIndex(sequence int64) int {
	return int(sequence & b.mask)
}

// calculateAvailabilityFlag shifts out the index bits, leaving the wrap
// count. The shift is unsigned, matching the truncation on store.
func (b *availableBuffer) calculateAvailabilityFlag(sequence int64) int32 {
	return int32(uint64(sequence) >> b.shift)
}

// markPublished stores the flag with release ordering so that slot
// writes made before publication are visible to any reader that
// observes the flag.
func (b *availableBuffer) markPublished(index int, flag int32) {
	atomic.StoreInt32(&b.flags[index], flag)
}

// isPublished loads the entry with acquire ordering and compares it to
// the expected wrap count.
func (b *availableBuffer) isPublished(index int, flag int32) bool {
	return atomic.LoadInt32(&b.flags[index]) == flag
}
