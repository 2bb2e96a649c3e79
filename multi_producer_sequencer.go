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
	"sync"
	"sync/atomic"
	"time"

	errorx "github.com/ringio/disruptor/pkg/errors"
	"github.com/ringio/disruptor/pkg/math"
)

// MultiProducerSequencer hands out unique contiguous sequence ranges to
// concurrent producers and tracks per-slot publication, so that many
// producers can publish out of order without a shared producer-side
// cursor or locks.
//
// The cursor holds the highest claimed sequence, advanced by CAS during
// the claim. Publication is recorded per slot in the availability
// table, keyed by wrap count.
type MultiProducerSequencer struct {
	bufferSize   int
	waitStrategy WaitStrategy
	cursor       *Sequence

	// gatingSequenceCache holds the most recently observed minimum of
	// the gating set. It may lag the true minimum; the claim loop
	// detects staleness and refreshes it.
	gatingSequenceCache *Sequence

	available *availableBuffer

	// The gating set is copy-on-write: mutated rarely under gatingMu,
	// read lock-free on every claim.
	gatingMu        sync.Mutex
	gatingSequences atomic.Value // []*Sequence
}

// NewMultiProducerSequencer instantiates a sequencer over a ring of
// bufferSize slots with the given wait strategy. bufferSize must be a
// power of two and at least 1.
func NewMultiProducerSequencer(bufferSize int, waitStrategy WaitStrategy) (*MultiProducerSequencer, error) {
	if bufferSize < 1 {
		return nil, errorx.ErrBufferSizeNotPositive
	}
	if !math.IsPowerOfTwo(bufferSize) {
		return nil, errorx.ErrBufferSizeNotPowerOfTwo
	}
	s := &MultiProducerSequencer{
		bufferSize:          bufferSize,
		waitStrategy:        waitStrategy,
		cursor:              NewSequence(InitialSequenceValue),
		gatingSequenceCache: NewSequence(InitialSequenceValue),
		available:           newAvailableBuffer(bufferSize, math.Log2(bufferSize)),
	}
	s.gatingSequences.Store([]*Sequence(nil))
	return s, nil
}

// BufferSize implements Sequencer.
func (s *MultiProducerSequencer) BufferSize() int {
	return s.bufferSize
}

// Cursor implements Sequencer.
func (s *MultiProducerSequencer) Cursor() int64 {
	return s.cursor.Load()
}

func (s *MultiProducerSequencer) loadGatingSequences() []*Sequence {
	return s.gatingSequences.Load().([]*Sequence)
}

// AddGatingSequences implements Sequencer. New sequences start at the
// current cursor so a freshly registered consumer never stalls
// producers behind sequences it will not process.
func (s *MultiProducerSequencer) AddGatingSequences(gating ...*Sequence) {
	s.gatingMu.Lock()
	defer s.gatingMu.Unlock()

	cursor := s.cursor.Load()
	current := s.loadGatingSequences()
	updated := make([]*Sequence, 0, len(current)+len(gating))
	updated = append(updated, current...)
	for _, seq := range gating {
		seq.Store(cursor)
		updated = append(updated, seq)
	}
	s.gatingSequences.Store(updated)
}

// RemoveGatingSequence implements Sequencer.
func (s *MultiProducerSequencer) RemoveGatingSequence(gating *Sequence) bool {
	s.gatingMu.Lock()
	defer s.gatingMu.Unlock()

	current := s.loadGatingSequences()
	updated := make([]*Sequence, 0, len(current))
	found := false
	for _, seq := range current {
		if seq == gating {
			found = true
			continue
		}
		updated = append(updated, seq)
	}
	if found {
		s.gatingSequences.Store(updated)
	}
	return found
}

// Next implements Sequencer.
func (s *MultiProducerSequencer) Next(n int) (int64, error) {
	if n < 1 {
		return 0, errorx.ErrArgumentNotPositive
	}

	for {
		current := s.cursor.Load()
		next := current + int64(n)
		wrapPoint := next - int64(s.bufferSize)
		cachedGatingSequence := s.gatingSequenceCache.Load()

		// The double test catches both a potential wrap and a cache
		// invalidated by another producer advancing the cursor past the
		// snapshot the cache was computed on.
		if wrapPoint > cachedGatingSequence || cachedGatingSequence > current {
			gatingSequence := minimumSequence(s.loadGatingSequences(), current)
			if wrapPoint > gatingSequence {
				// Ring full. Do not refresh the cache here: under
				// overrun the recomputed value is no better than the
				// stale one and would make other producers loop on it.
				time.Sleep(time.Nanosecond)
				continue
			}
			s.gatingSequenceCache.Store(gatingSequence)
		} else if s.cursor.CompareAndSwap(current, next) {
			return next, nil
		}
	}
}

// TryNext implements Sequencer.
func (s *MultiProducerSequencer) TryNext(n int) (int64, error) {
	if n < 1 {
		return 0, errorx.ErrArgumentNotPositive
	}

	for {
		current := s.cursor.Load()
		next := current + int64(n)

		if !s.hasAvailableCapacity(n, current) {
			return 0, errorx.ErrInsufficientCapacity
		}
		if s.cursor.CompareAndSwap(current, next) {
			return next, nil
		}
	}
}

// HasAvailableCapacity implements Sequencer.
func (s *MultiProducerSequencer) HasAvailableCapacity(required int) bool {
	return s.hasAvailableCapacity(required, s.cursor.Load())
}

func (s *MultiProducerSequencer) hasAvailableCapacity(required int, cursorValue int64) bool {
	wrapPoint := (cursorValue + int64(required)) - int64(s.bufferSize)
	cachedGatingSequence := s.gatingSequenceCache.Load()

	if wrapPoint > cachedGatingSequence || cachedGatingSequence > cursorValue {
		minSequence := minimumSequence(s.loadGatingSequences(), cursorValue)
		s.gatingSequenceCache.Store(minSequence)

		if wrapPoint > minSequence {
			return false
		}
	}
	return true
}

// RemainingCapacity implements Sequencer.
func (s *MultiProducerSequencer) RemainingCapacity() int64 {
	produced := s.cursor.Load()
	consumed := minimumSequence(s.loadGatingSequences(), produced)
	return int64(s.bufferSize) - (produced - consumed)
}

// Claim implements Sequencer.
func (s *MultiProducerSequencer) Claim(sequence int64) {
	s.cursor.Store(sequence)
}

// Publish implements Sequencer.
func (s *MultiProducerSequencer) Publish(sequence int64) {
	s.setAvailable(sequence)
	s.waitStrategy.SignalAllWhenBlocking()
}

// PublishRange implements Sequencer. An inverted range marks nothing.
func (s *MultiProducerSequencer) PublishRange(lo, hi int64) {
	for seq := lo; seq <= hi; seq++ {
		s.setAvailable(seq)
	}
	s.waitStrategy.SignalAllWhenBlocking()
}

func (s *MultiProducerSequencer) setAvailable(sequence int64) {
	s.available.markPublished(s.available.calculateIndex(sequence), s.available.calculateAvailabilityFlag(sequence))
}

// IsAvailable implements Sequencer.
func (s *MultiProducerSequencer) IsAvailable(sequence int64) bool {
	return s.available.isPublished(s.available.calculateIndex(sequence), s.available.calculateAvailabilityFlag(sequence))
}

// HighestPublishedSequence implements Sequencer. The forward scan is
// required because producers publish out of order; the cursor alone
// cannot tell which prefix is contiguous.
func (s *MultiProducerSequencer) HighestPublishedSequence(lowerBound, available int64) int64 {
	for sequence := lowerBound; sequence <= available; sequence++ {
		if !s.IsAvailable(sequence) {
			return sequence - 1
		}
	}
	return available
}

// NewBarrier implements Sequencer.
func (s *MultiProducerSequencer) NewBarrier(dependents ...*Sequence) SequenceBarrier {
	return newProcessingSequenceBarrier(s, s.waitStrategy, s.cursor, dependents)
}
