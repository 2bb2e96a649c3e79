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
	"sync/atomic"

	errorx "github.com/ringio/disruptor/pkg/errors"
)

// SequenceBarrier gates a consumer on the producer cursor and the
// sequences of upstream consumers it depends on.
type SequenceBarrier interface {
	// WaitFor blocks per the wait strategy until the given sequence is
	// claimed and its dependencies have advanced, then returns the
	// highest published sequence of the contiguous prefix starting at
	// the target. A return value below the target means nothing new is
	// readable yet: either a timed wait strategy gave up, or the target
	// is claimed but not yet published. The caller should retry with the
	// same target.
	WaitFor(sequence int64) (int64, error)

	// Cursor returns the consumer's effective view: the minimum of the
	// dependent sequences, or the producer cursor when there are none.
	Cursor() int64

	// Alert raises the cancellation flag and wakes blocked waiters.
	Alert()

	// ClearAlert lowers the cancellation flag.
	ClearAlert()

	// IsAlerted reports whether the cancellation flag is raised.
	IsAlerted() bool

	// CheckAlert fails with errors.ErrAlert when the flag is raised.
	CheckAlert() error
}

type processingSequenceBarrier struct {
	sequencer    Sequencer
	waitStrategy WaitStrategy
	cursor       *Sequence
	dependent    SequenceView
	alerted      int32
}

func newProcessingSequenceBarrier(sequencer Sequencer, waitStrategy WaitStrategy, cursor *Sequence, dependents []*Sequence) *processingSequenceBarrier {
	b := &processingSequenceBarrier{
		sequencer:    sequencer,
		waitStrategy: waitStrategy,
		cursor:       cursor,
	}
	if len(dependents) == 0 {
		b.dependent = cursor
	} else {
		b.dependent = &fixedSequenceGroup{sequences: dependents}
	}
	return b
}

func (b *processingSequenceBarrier) WaitFor(sequence int64) (int64, error) {
	if err := b.CheckAlert(); err != nil {
		return 0, err
	}

	available, err := b.waitStrategy.WaitFor(sequence, b.cursor, b.dependent, b)
	if err != nil {
		return 0, err
	}
	if available < sequence {
		return available, nil
	}
	return b.sequencer.HighestPublishedSequence(sequence, available), nil
}

func (b *processingSequenceBarrier) Cursor() int64 {
	return b.dependent.Load()
}

func (b *processingSequenceBarrier) Alert() {
	atomic.StoreInt32(&b.alerted, 1)
	b.waitStrategy.SignalAllWhenBlocking()
}

func (b *processingSequenceBarrier) ClearAlert() {
	atomic.StoreInt32(&b.alerted, 0)
}

func (b *processingSequenceBarrier) IsAlerted() bool {
	return atomic.LoadInt32(&b.alerted) == 1
}

func (b *processingSequenceBarrier) CheckAlert() error {
	if b.IsAlerted() {
		return errorx.ErrAlert
	}
	return nil
}
