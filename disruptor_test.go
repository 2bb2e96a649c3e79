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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorx "github.com/ringio/disruptor/pkg/errors"
)

func TestDisruptorRoundTrip(t *testing.T) {
	const (
		producers   = 3
		perProducer = 1000
		total       = producers * perProducer
	)

	var sum int64
	var count int64
	handler := EventHandlerFunc(func(event interface{}, sequence int64, endOfBatch bool) error {
		atomic.AddInt64(&sum, event.(*testEvent).value)
		atomic.AddInt64(&count, 1)
		return nil
	})

	d, err := NewDisruptor(func() interface{} { return new(testEvent) }, 128,
		WithWaitStrategy(NewBlockingWaitStrategy()))
	require.NoError(t, err)
	_, err = d.HandleEventsWith(handler)
	require.NoError(t, err)
	require.NoError(t, d.Start())

	rb := d.RingBuffer()
	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				perr := rb.PublishEvent(func(event interface{}, sequence int64) {
					event.(*testEvent).value = 1
				})
				if perr != nil {
					t.Error(perr)
					return
				}
			}
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	assert.EqualValues(t, total, atomic.LoadInt64(&count))
	assert.EqualValues(t, total, atomic.LoadInt64(&sum))
}

// A chained consumer must never get ahead of its upstream handler.
func TestDisruptorHandlerChain(t *testing.T) {
	const total = 500

	var firstSeen int64 = -1
	var violations int64
	var secondCount int64

	first := EventHandlerFunc(func(event interface{}, sequence int64, endOfBatch bool) error {
		atomic.StoreInt64(&firstSeen, sequence)
		return nil
	})
	second := EventHandlerFunc(func(event interface{}, sequence int64, endOfBatch bool) error {
		if atomic.LoadInt64(&firstSeen) < sequence {
			atomic.AddInt64(&violations, 1)
		}
		atomic.AddInt64(&secondCount, 1)
		return nil
	})

	d, err := NewDisruptor(func() interface{} { return new(testEvent) }, 64)
	require.NoError(t, err)
	group, err := d.HandleEventsWith(first)
	require.NoError(t, err)
	_, err = group.Then(second)
	require.NoError(t, err)
	require.NoError(t, d.Start())

	rb := d.RingBuffer()
	for i := 0; i < total; i++ {
		require.NoError(t, rb.PublishEvent(func(event interface{}, sequence int64) {
			event.(*testEvent).value = sequence
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	assert.EqualValues(t, total, atomic.LoadInt64(&secondCount))
	assert.Zero(t, atomic.LoadInt64(&violations))
}

func TestDisruptorErrorHandlerOption(t *testing.T) {
	boom := assert.AnError
	var handled int64
	d, err := NewDisruptor(func() interface{} { return new(testEvent) }, 16,
		WithErrorHandler(func(err error, sequence int64, event interface{}) {
			atomic.AddInt64(&handled, 1)
		}))
	require.NoError(t, err)

	_, err = d.HandleEventsWith(EventHandlerFunc(func(interface{}, int64, bool) error {
		return boom
	}))
	require.NoError(t, err)
	require.NoError(t, d.Start())

	require.NoError(t, d.RingBuffer().PublishEvent(func(interface{}, int64) {}))

	waitUntil(t, time.Second, func() bool { return atomic.LoadInt64(&handled) == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
}

func TestDisruptorTopologyFrozenAfterStart(t *testing.T) {
	d, err := NewDisruptor(func() interface{} { return new(testEvent) }, 16)
	require.NoError(t, err)
	_, err = d.HandleEventsWith(EventHandlerFunc(func(interface{}, int64, bool) error { return nil }))
	require.NoError(t, err)
	require.NoError(t, d.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.Shutdown(ctx)
	}()

	_, err = d.HandleEventsWith(EventHandlerFunc(func(interface{}, int64, bool) error { return nil }))
	assert.ErrorIs(t, err, errorx.ErrDisruptorStarted)
	assert.ErrorIs(t, d.Start(), errorx.ErrDisruptorStarted)
}

func TestDisruptorRequiresHandlers(t *testing.T) {
	d, err := NewDisruptor(func() interface{} { return new(testEvent) }, 16)
	require.NoError(t, err)
	_, err = d.HandleEventsWith()
	assert.ErrorIs(t, err, errorx.ErrMissingEventHandler)
}

func TestDisruptorShutdownWithoutStart(t *testing.T) {
	d, err := NewDisruptor(func() interface{} { return new(testEvent) }, 16)
	require.NoError(t, err)
	assert.ErrorIs(t, d.Shutdown(context.Background()), errorx.ErrDisruptorNotStarted)
}

func TestDisruptorInvalidBufferSize(t *testing.T) {
	_, err := NewDisruptor(func() interface{} { return new(testEvent) }, 10)
	assert.ErrorIs(t, err, errorx.ErrBufferSizeNotPowerOfTwo)
}
