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

// Package samplelog records the paths sampled during an estimation run and
// the verdict each one produced.
//
// The log is an append-only audit trail: it shows which paths drove the
// hypothesis test to its decision, and can be written to disk and inspected
// later.
package samplelog

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jazzpetri/bltl/formula"
)

// Sample is one checked path.
type Sample struct {
	// Seq is the position of the sample in the run (1-based, unique)
	Seq uint64

	// Path is the sequence of node identifiers that was checked
	Path []string

	// Verdict is the checker's verdict for the path
	Verdict formula.Truth

	// Steps is the number of observations consumed before the verdict
	Steps int

	// Timestamp records when the sample was checked
	Timestamp time.Time
}

var (
	// ErrNilSample is returned when appending a nil sample.
	ErrNilSample = errors.New("cannot append nil sample")

	// ErrDuplicate is returned when a sample with the same Seq is present.
	ErrDuplicate = errors.New("duplicate sample")

	// ErrNotFound is returned by Get for an unknown Seq.
	ErrNotFound = errors.New("sample not found")
)

// MemoryLog is an in-memory sample log.
//
// When MaxSamples is > 0 the log keeps only the most recent MaxSamples
// entries, dropping the oldest first. Counts still cover every sample ever
// appended, so the totals behind a decision stay available after eviction.
//
// All operations are safe for concurrent use.
type MemoryLog struct {
	mu      sync.RWMutex
	samples []*Sample
	index   map[uint64]*Sample

	// totals over everything appended, including evicted samples
	satisfied, violated, undetermined int

	// MaxSamples is the number of samples kept (0 = unlimited)
	MaxSamples int
}

// NewMemoryLog creates an empty log. The optional argument sets MaxSamples.
func NewMemoryLog(maxSamples ...int) *MemoryLog {
	limit := 0
	if len(maxSamples) > 0 {
		limit = maxSamples[0]
	}
	return &MemoryLog{
		index:      make(map[uint64]*Sample),
		MaxSamples: limit,
	}
}

// Append adds a sample. Returns ErrNilSample or ErrDuplicate on invalid input.
func (m *MemoryLog) Append(s *Sample) error {
	if s == nil {
		return ErrNilSample
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[s.Seq]; exists {
		return fmt.Errorf("sample %d: %w", s.Seq, ErrDuplicate)
	}

	if m.MaxSamples > 0 && len(m.samples) >= m.MaxSamples {
		oldest := m.samples[0]
		delete(m.index, oldest.Seq)
		m.samples = m.samples[1:]
	}

	m.samples = append(m.samples, s)
	m.index[s.Seq] = s
	switch s.Verdict {
	case formula.True:
		m.satisfied++
	case formula.False:
		m.violated++
	default:
		m.undetermined++
	}
	return nil
}

// Get returns the sample with the given sequence number.
func (m *MemoryLog) Get(seq uint64) (*Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.index[seq]
	if !ok {
		return nil, fmt.Errorf("sample %d: %w", seq, ErrNotFound)
	}
	return s, nil
}

// All returns the retained samples in append order.
func (m *MemoryLog) All() []*Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Sample, len(m.samples))
	copy(out, m.samples)
	return out
}

// ByVerdict returns the retained samples with verdict v, in append order.
func (m *MemoryLog) ByVerdict(v formula.Truth) []*Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Sample, 0)
	for _, s := range m.samples {
		if s.Verdict == v {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the number of retained samples.
func (m *MemoryLog) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.samples)
}

// Counts returns the verdict totals over every sample ever appended.
func (m *MemoryLog) Counts() (satisfied, violated, undetermined int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.satisfied, m.violated, m.undetermined
}

// Verdicts returns the decided verdicts of the retained samples in append
// order, the input form expected by sprt.Tester.Decide.
func (m *MemoryLog) Verdicts() []bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]bool, 0, len(m.samples))
	for _, s := range m.samples {
		if v, ok := s.Verdict.Bool(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Clear removes all samples and resets the totals.
func (m *MemoryLog) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples = nil
	m.index = make(map[uint64]*Sample)
	m.satisfied, m.violated, m.undetermined = 0, 0, 0
}
