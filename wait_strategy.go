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
	"runtime"
	"sync"
	"time"
)

// WaitStrategy decides how a consumer passes the time until a target
// sequence becomes available.
//
// WaitFor blocks, spins, yields or parks until dependent.Load() >= sequence
// or the barrier is alerted, and returns the latest observed value of the
// dependent view. Strategies with a timeout may return early with a value
// below the target; the barrier hands that value through unchanged so the
// caller can treat it as "nothing new yet". Implementations must check the
// barrier's alert flag periodically, never spinning indefinitely without it.
//
// SignalAllWhenBlocking wakes any waiters parked on a condition variable;
// it is a no-op for strategies that never block.
type WaitStrategy interface {
	WaitFor(sequence int64, cursor, dependent SequenceView, barrier SequenceBarrier) (int64, error)
	SignalAllWhenBlocking()
}

// BlockingWaitStrategy parks consumers on a condition variable until a
// producer signals a publication. Lowest CPU cost, highest wake-up
// latency, consistent behavior across deployments.
type BlockingWaitStrategy struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewBlockingWaitStrategy instantiates a BlockingWaitStrategy.
func NewBlockingWaitStrategy() *BlockingWaitStrategy {
	w := new(BlockingWaitStrategy)
	w.cond = sync.NewCond(&w.mu)
	return w
}

// WaitFor implements WaitStrategy.
func (w *BlockingWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceView, barrier SequenceBarrier) (int64, error) {
	if cursor.Load() < sequence {
		w.mu.Lock()
		for cursor.Load() < sequence {
			if err := barrier.CheckAlert(); err != nil {
				w.mu.Unlock()
				return 0, err
			}
			w.cond.Wait()
		}
		w.mu.Unlock()
	}

	// The cursor only says the sequence was claimed. Spin until the
	// dependent consumers catch up with the target.
	available := dependent.Load()
	for available < sequence {
		if err := barrier.CheckAlert(); err != nil {
			return 0, err
		}
		runtime.Gosched()
		available = dependent.Load()
	}
	return available, nil
}

// SignalAllWhenBlocking implements WaitStrategy.
func (w *BlockingWaitStrategy) SignalAllWhenBlocking() {
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}

// TimeoutBlockingWaitStrategy behaves like BlockingWaitStrategy but gives
// up after the configured timeout, returning whatever the dependent view
// held at that point. A return value below the target is the timeout
// signal.
type TimeoutBlockingWaitStrategy struct {
	mu      sync.Mutex
	cond    *sync.Cond
	timeout time.Duration
}

// NewTimeoutBlockingWaitStrategy instantiates a TimeoutBlockingWaitStrategy.
func NewTimeoutBlockingWaitStrategy(timeout time.Duration) *TimeoutBlockingWaitStrategy {
	w := &TimeoutBlockingWaitStrategy{timeout: timeout}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// WaitFor implements WaitStrategy.
func (w *TimeoutBlockingWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceView, barrier SequenceBarrier) (int64, error) {
	deadline := time.Now().Add(w.timeout)
	if cursor.Load() < sequence {
		// sync.Cond has no timed wait, so arm a timer that issues the
		// wake-up at the deadline and re-check the clock in the loop.
		timer := time.AfterFunc(w.timeout, w.SignalAllWhenBlocking)
		w.mu.Lock()
		for cursor.Load() < sequence {
			if err := barrier.CheckAlert(); err != nil {
				w.mu.Unlock()
				timer.Stop()
				return 0, err
			}
			if !time.Now().Before(deadline) {
				break
			}
			w.cond.Wait()
		}
		w.mu.Unlock()
		timer.Stop()
	}

	available := dependent.Load()
	for available < sequence {
		if err := barrier.CheckAlert(); err != nil {
			return 0, err
		}
		if !time.Now().Before(deadline) {
			return available, nil
		}
		runtime.Gosched()
		available = dependent.Load()
	}
	return available, nil
}

// SignalAllWhenBlocking implements WaitStrategy.
func (w *TimeoutBlockingWaitStrategy) SignalAllWhenBlocking() {
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}

// SleepingWaitStrategy spins, then yields, then sleeps in one-nanosecond
// slices. Low CPU cost with the least impact on producer threads, at the
// price of moderate latency.
type SleepingWaitStrategy struct {
	retries int
}

const defaultSleepingRetries = 200

// NewSleepingWaitStrategy instantiates a SleepingWaitStrategy.
func NewSleepingWaitStrategy() *SleepingWaitStrategy {
	return &SleepingWaitStrategy{retries: defaultSleepingRetries}
}

// WaitFor implements WaitStrategy.
func (w *SleepingWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceView, barrier SequenceBarrier) (int64, error) {
	counter := w.retries
	available := dependent.Load()
	for available < sequence {
		if err := barrier.CheckAlert(); err != nil {
			return 0, err
		}
		switch {
		case counter > 100:
			counter--
		case counter > 0:
			counter--
			runtime.Gosched()
		default:
			time.Sleep(time.Nanosecond)
		}
		available = dependent.Load()
	}
	return available, nil
}

// SignalAllWhenBlocking implements WaitStrategy.
func (*SleepingWaitStrategy) SignalAllWhenBlocking() {}

// YieldingWaitStrategy spins briefly and then yields the processor on
// every retry. A good fit when the number of busy consumers stays below
// the number of cores.
type YieldingWaitStrategy struct {
	spinTries int
}

const defaultYieldingSpinTries = 100

// NewYieldingWaitStrategy instantiates a YieldingWaitStrategy.
func NewYieldingWaitStrategy() *YieldingWaitStrategy {
	return &YieldingWaitStrategy{spinTries: defaultYieldingSpinTries}
}

// WaitFor implements WaitStrategy.
func (w *YieldingWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceView, barrier SequenceBarrier) (int64, error) {
	counter := w.spinTries
	available := dependent.Load()
	for available < sequence {
		if err := barrier.CheckAlert(); err != nil {
			return 0, err
		}
		if counter == 0 {
			runtime.Gosched()
		} else {
			counter--
		}
		available = dependent.Load()
	}
	return available, nil
}

// SignalAllWhenBlocking implements WaitStrategy.
func (*YieldingWaitStrategy) SignalAllWhenBlocking() {}

// BusySpinWaitStrategy burns the core until the sequence arrives. Lowest
// latency, highest CPU cost; use only when consumers can own their cores.
type BusySpinWaitStrategy struct{}

// NewBusySpinWaitStrategy instantiates a BusySpinWaitStrategy.
func NewBusySpinWaitStrategy() *BusySpinWaitStrategy {
	return &BusySpinWaitStrategy{}
}

// WaitFor implements WaitStrategy.
func (*BusySpinWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceView, barrier SequenceBarrier) (int64, error) {
	available := dependent.Load()
	for available < sequence {
		if err := barrier.CheckAlert(); err != nil {
			return 0, err
		}
		available = dependent.Load()
	}
	return available, nil
}

// SignalAllWhenBlocking implements WaitStrategy.
func (*BusySpinWaitStrategy) SignalAllWhenBlocking() {}

// PhasedBackoffWaitStrategy spins, then yields, then hands over to a
// fallback strategy once the yield window has elapsed. The timeouts tune
// the latency/CPU trade-off.
type PhasedBackoffWaitStrategy struct {
	spinTimeout  time.Duration
	yieldTimeout time.Duration
	fallback     WaitStrategy
}

const phasedBackoffSpinTries = 10000

// NewPhasedBackoffWaitStrategy instantiates a PhasedBackoffWaitStrategy
// delegating to fallback after spinTimeout+yieldTimeout of no progress.
func NewPhasedBackoffWaitStrategy(spinTimeout, yieldTimeout time.Duration, fallback WaitStrategy) *PhasedBackoffWaitStrategy {
	return &PhasedBackoffWaitStrategy{
		spinTimeout:  spinTimeout,
		yieldTimeout: spinTimeout + yieldTimeout,
		fallback:     fallback,
	}
}

// WaitFor implements WaitStrategy.
func (w *PhasedBackoffWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceView, barrier SequenceBarrier) (int64, error) {
	var startTime time.Time
	counter := phasedBackoffSpinTries
	for {
		if available := dependent.Load(); available >= sequence {
			return available, nil
		}
		if err := barrier.CheckAlert(); err != nil {
			return 0, err
		}
		counter--
		if counter == 0 {
			if startTime.IsZero() {
				startTime = time.Now()
			} else {
				elapsed := time.Since(startTime)
				if elapsed > w.yieldTimeout {
					return w.fallback.WaitFor(sequence, cursor, dependent, barrier)
				}
				if elapsed > w.spinTimeout {
					runtime.Gosched()
				}
			}
			counter = phasedBackoffSpinTries
		}
	}
}

// SignalAllWhenBlocking implements WaitStrategy.
func (w *PhasedBackoffWaitStrategy) SignalAllWhenBlocking() {
	w.fallback.SignalAllWhenBlocking()
}
