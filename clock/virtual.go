// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package clock

import (
	"sync"
	"time"
)

// VirtualClock is a Clock under manual control.
//
// Time only moves through AdvanceTo and AdvanceBy, or automatically by a
// fixed step after every Now call when a step is configured. A step gives
// every sample recorded during a run a distinct, predictable timestamp.
//
// VirtualClock is safe for concurrent use.
//
// Example:
//
//	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
//	c := clock.NewVirtualClock(start)
//	c.AdvanceBy(5 * time.Second)
//	c.Now() // start + 5s
type VirtualClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewVirtualClock creates a virtual clock that reads start until advanced.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{current: start}
}

// NewSteppingClock creates a virtual clock that advances by step after each
// Now call.
func NewSteppingClock(start time.Time, step time.Duration) *VirtualClock {
	return &VirtualClock{current: start, step: step}
}

// Now returns the current virtual time, then applies the configured step.
func (v *VirtualClock) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.current
	v.current = v.current.Add(v.step)
	return now
}

// AdvanceTo moves the clock to t. Moving backwards is ignored.
func (v *VirtualClock) AdvanceTo(t time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.After(v.current) {
		v.current = t
	}
}

// AdvanceBy moves the clock forward by d. Negative durations are ignored.
func (v *VirtualClock) AdvanceBy(d time.Duration) {
	if d <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = v.current.Add(d)
}
