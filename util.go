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

// minimumSequence folds the minimum over sequences, starting from the
// given bound. An empty set yields the bound itself, which is how the
// sequencer degenerates to unbounded claims before any consumer is
// registered.
func minimumSequence(sequences []*Sequence, minimum int64) int64 {
	for _, seq := range sequences {
		if v := seq.Load(); v < minimum {
			minimum = v
		}
	}
	return minimum
}
