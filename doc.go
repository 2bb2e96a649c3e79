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

/*
Package disruptor implements a bounded, lock-free, multi-producer ring
buffer in the style of the LMAX Disruptor.

Producers claim exclusive contiguous ranges of monotonically increasing
sequences through a CAS-advanced cursor, write their payloads into the
pre-allocated ring slots, and publish each slot through a per-slot
availability table. Consumers follow behind through sequence barriers
that respect a dependency graph among consumers and block, spin, yield
or park per a pluggable wait strategy. Because producers publish in
arbitrary order, consumers derive the highest contiguous published
prefix from the availability table rather than from the cursor.

The sequencing core (Sequence, MultiProducerSequencer, SequenceBarrier,
WaitStrategy) is usable on its own. RingBuffer, BatchEventProcessor and
Disruptor add the payload store, the consumer loop and the wiring layer
on top of it:

	d, err := disruptor.NewDisruptor(func() interface{} { return new(MyEvent) }, 1024)
	if err != nil {
		log.Fatal(err)
	}
	_, _ = d.HandleEventsWith(disruptor.EventHandlerFunc(
		func(event interface{}, sequence int64, endOfBatch bool) error {
			// consume event
			return nil
		}))
	_ = d.Start()

	rb := d.RingBuffer()
	_ = rb.PublishEvent(func(event interface{}, sequence int64) {
		// fill event
	})

	_ = d.Shutdown(context.Background())
*/
package disruptor
