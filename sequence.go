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
	"strconv"
	"sync/atomic"
)

// InitialSequenceValue is the value of every sequence before the first
// claim or publication, one less than the first valid sequence.
const InitialSequenceValue int64 = -1

const cacheLineSize = 64

// Sequence is a monotonic counter identifying a logical ring slot.
// The value sits alone on its cache line so that hot counters owned by
// different threads never invalidate each other.
type Sequence struct {
	_     [cacheLineSize - 8]byte
	value int64
	_     [cacheLineSize - 8]byte
}

// NewSequence instantiates a Sequence with the given initial value.
func NewSequence(initial int64) *Sequence {
	s := new(Sequence)
	s.value = initial
	return s
}

// Load atomically reads the current value with acquire semantics.
func (s *Sequence) Load() int64 {
	return atomic.LoadInt64(&s.value)
}

// Store atomically writes v with release semantics.
func (s *Sequence) Store(v int64) {
	atomic.StoreInt64(&s.value, v)
}

// CompareAndSwap atomically replaces old with new and reports whether it succeeded.
func (s *Sequence) CompareAndSwap(old, new int64) bool {
	return atomic.CompareAndSwapInt64(&s.value, old, new)
}

// Add atomically adds delta and returns the new value.
func (s *Sequence) Add(delta int64) int64 {
	return atomic.AddInt64(&s.value, delta)
}

func (s *Sequence) String() string {
	return strconv.FormatInt(s.Load(), 10)
}

// SequenceView is a read-only view over one or more sequences.
// *Sequence is the single-counter view; a barrier built over several
// dependent sequences presents their minimum through the same method.
type SequenceView interface {
	Load() int64
}

// fixedSequenceGroup presents an immutable set of sequences as their
// minimum, recomputed on every Load.
type fixedSequenceGroup struct {
	sequences []*Sequence
}

func (g *fixedSequenceGroup) Load() int64 {
	return minimumSequence(g.sequences, int64(^uint64(0)>>1))
}
