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

package samplelog

import (
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/jazzpetri/bltl/formula"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same log
// always produces identical bytes. Timestamps are RFC 3339 strings with
// nanoseconds.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("samplelog: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("samplelog: CBOR decoder initialization failed: " + err.Error())
	}
}

// Snapshot is a point-in-time copy of a log together with the formula the
// samples were checked against.
type Snapshot struct {
	Formula string
	Created time.Time

	// Verdict totals over every sample appended, including evicted ones
	Satisfied, Violated, Undetermined int

	Samples []*Sample
}

// serializableSnapshot is the CBOR form of a Snapshot.
type serializableSnapshot struct {
	Formula      string               `cbor:"formula"`
	Created      time.Time            `cbor:"created"`
	Satisfied    int                  `cbor:"satisfied"`
	Violated     int                  `cbor:"violated"`
	Undetermined int                  `cbor:"undetermined"`
	Samples      []serializableSample `cbor:"samples"`
}

type serializableSample struct {
	Seq       uint64    `cbor:"seq"`
	Path      []string  `cbor:"path"`
	Verdict   string    `cbor:"verdict"`
	Steps     int       `cbor:"steps"`
	Timestamp time.Time `cbor:"ts"`
}

// Snapshot copies the current contents of the log.
func (m *MemoryLog) Snapshot(formulaText string, created time.Time) *Snapshot {
	satisfied, violated, undetermined := m.Counts()
	return &Snapshot{
		Formula:      formulaText,
		Created:      created,
		Satisfied:    satisfied,
		Violated:     violated,
		Undetermined: undetermined,
		Samples:      m.All(),
	}
}

// Restore builds a MemoryLog holding the snapshot's samples and totals.
// The restored log keeps every sample (MaxSamples = 0).
func (s *Snapshot) Restore() (*MemoryLog, error) {
	m := NewMemoryLog()
	for _, sample := range s.Samples {
		if err := m.Append(sample); err != nil {
			return nil, fmt.Errorf("restoring sample log: %w", err)
		}
	}
	m.satisfied, m.violated, m.undetermined = s.Satisfied, s.Violated, s.Undetermined
	return m, nil
}

// Serialize encodes the snapshot as CBOR.
func Serialize(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot serialize nil snapshot")
	}

	ss := serializableSnapshot{
		Formula:      s.Formula,
		Created:      s.Created,
		Satisfied:    s.Satisfied,
		Violated:     s.Violated,
		Undetermined: s.Undetermined,
		Samples:      make([]serializableSample, 0, len(s.Samples)),
	}
	for _, sample := range s.Samples {
		ss.Samples = append(ss.Samples, serializableSample{
			Seq:       sample.Seq,
			Path:      sample.Path,
			Verdict:   sample.Verdict.String(),
			Steps:     sample.Steps,
			Timestamp: sample.Timestamp,
		})
	}

	data, err := encMode.Marshal(ss)
	if err != nil {
		return nil, fmt.Errorf("encoding sample log: %w", err)
	}
	return data, nil
}

// Deserialize decodes a snapshot produced by Serialize.
func Deserialize(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot deserialize empty data")
	}

	var ss serializableSnapshot
	if err := decMode.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("decoding sample log: %w", err)
	}

	s := &Snapshot{
		Formula:      ss.Formula,
		Created:      ss.Created,
		Satisfied:    ss.Satisfied,
		Violated:     ss.Violated,
		Undetermined: ss.Undetermined,
		Samples:      make([]*Sample, 0, len(ss.Samples)),
	}
	for _, sample := range ss.Samples {
		var verdict formula.Truth
		if err := verdict.UnmarshalText([]byte(sample.Verdict)); err != nil {
			return nil, fmt.Errorf("decoding sample %d: %w", sample.Seq, err)
		}
		s.Samples = append(s.Samples, &Sample{
			Seq:       sample.Seq,
			Path:      sample.Path,
			Verdict:   verdict,
			Steps:     sample.Steps,
			Timestamp: sample.Timestamp,
		})
	}
	return s, nil
}

// WriteFile serializes the snapshot to path.
func WriteFile(path string, s *Snapshot) error {
	data, err := Serialize(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a snapshot written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
