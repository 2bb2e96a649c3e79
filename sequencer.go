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

// Sequencer coordinates claiming and publishing ring slots among
// producers while tracking the gating sequences of the slowest
// consumers.
type Sequencer interface {
	// BufferSize returns the number of slots in the ring.
	BufferSize() int

	// Cursor returns the highest claimed sequence. In multi-producer
	// mode a claimed sequence is not necessarily published yet; use
	// HighestPublishedSequence to derive what is safe to read.
	Cursor() int64

	// Next claims n contiguous sequences and returns the highest one,
	// parking cooperatively while the ring is full. The lowest claimed
	// sequence is the returned value minus n plus one.
	Next(n int) (int64, error)

	// TryNext is the non-blocking variant of Next; it fails with
	// errors.ErrInsufficientCapacity when the claim would overrun the
	// slowest consumer.
	TryNext(n int) (int64, error)

	// HasAvailableCapacity reports whether a claim of the required size
	// could succeed right now. The answer may be conservatively stale
	// under concurrent consumer progress.
	HasAvailableCapacity(required int) bool

	// RemainingCapacity returns the number of slots a producer could
	// still claim before the ring wraps onto the slowest consumer.
	RemainingCapacity() int64

	// Claim forces the cursor to the given sequence. Only for
	// initialization and recovery.
	Claim(sequence int64)

	// Publish marks the given sequence as published and signals any
	// blocked waiters.
	Publish(sequence int64)

	// PublishRange marks every sequence in [lo, hi] published with a
	// single signal at the end.
	PublishRange(lo, hi int64)

	// IsAvailable reports whether the given sequence has been published.
	IsAvailable(sequence int64) bool

	// HighestPublishedSequence scans from lowerBound up to available and
	// returns the upper bound of the contiguous published prefix, or
	// lowerBound-1 when even lowerBound is unpublished.
	HighestPublishedSequence(lowerBound, available int64) int64

	// AddGatingSequences registers consumer sequences that producers
	// must not overrun.
	AddGatingSequences(gating ...*Sequence)

	// RemoveGatingSequence unregisters a gating sequence, reporting
	// whether it was present.
	RemoveGatingSequence(gating *Sequence) bool

	// NewBarrier creates a barrier gating consumers on the cursor and
	// the given dependent sequences.
	NewBarrier(dependents ...*Sequence) SequenceBarrier
}
