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
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/bltl/formula"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func makeSample(seq uint64, verdict formula.Truth, path ...string) *Sample {
	return &Sample{
		Seq:       seq,
		Path:      path,
		Verdict:   verdict,
		Steps:     len(path),
		Timestamp: base.Add(time.Duration(seq) * time.Millisecond),
	}
}

func TestMemoryLog_AppendAndQuery(t *testing.T) {
	log := NewMemoryLog()

	require.NoError(t, log.Append(makeSample(1, formula.True, "a", "b")))
	require.NoError(t, log.Append(makeSample(2, formula.False, "a")))
	require.NoError(t, log.Append(makeSample(3, formula.True, "b")))
	require.NoError(t, log.Append(makeSample(4, formula.Unknown)))

	assert.Equal(t, 4, log.Count())

	s, err := log.Get(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, s.Path)

	_, err = log.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)

	satisfied := log.ByVerdict(formula.True)
	require.Len(t, satisfied, 2)
	assert.Equal(t, uint64(1), satisfied[0].Seq)
	assert.Equal(t, uint64(3), satisfied[1].Seq)

	assert.Equal(t, []bool{true, false, true}, log.Verdicts())

	sat, vio, und := log.Counts()
	assert.Equal(t, [3]int{2, 1, 1}, [3]int{sat, vio, und})
}

func TestMemoryLog_RejectsInvalid(t *testing.T) {
	log := NewMemoryLog()

	assert.ErrorIs(t, log.Append(nil), ErrNilSample)

	require.NoError(t, log.Append(makeSample(1, formula.True)))
	assert.ErrorIs(t, log.Append(makeSample(1, formula.False)), ErrDuplicate)
	assert.Equal(t, 1, log.Count())
}

func TestMemoryLog_EvictsOldest(t *testing.T) {
	log := NewMemoryLog(3)

	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, log.Append(makeSample(i, formula.Lift(i%2 == 0))))
	}

	all := log.All()
	require.Len(t, all, 3)
	assert.Equal(t, uint64(3), all[0].Seq)
	assert.Equal(t, uint64(5), all[2].Seq)

	_, err := log.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)

	// totals cover evicted samples too
	sat, vio, _ := log.Counts()
	assert.Equal(t, 2, sat)
	assert.Equal(t, 3, vio)
}

func TestMemoryLog_AllReturnsCopy(t *testing.T) {
	log := NewMemoryLog()
	require.NoError(t, log.Append(makeSample(1, formula.True)))

	all := log.All()
	all[0] = nil
	assert.NotNil(t, log.All()[0])
}

func TestMemoryLog_Clear(t *testing.T) {
	log := NewMemoryLog()
	require.NoError(t, log.Append(makeSample(1, formula.True)))
	log.Clear()

	assert.Equal(t, 0, log.Count())
	sat, vio, und := log.Counts()
	assert.Zero(t, sat+vio+und)
	require.NoError(t, log.Append(makeSample(1, formula.True)))
}

func TestMemoryLog_ConcurrentAppend(t *testing.T) {
	log := NewMemoryLog()

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			_ = log.Append(makeSample(seq, formula.True, fmt.Sprint(seq)))
		}(uint64(i))
	}
	wg.Wait()

	assert.Equal(t, 100, log.Count())
}

func TestSerialize_RoundTrip(t *testing.T) {
	log := NewMemoryLog(2)
	require.NoError(t, log.Append(makeSample(1, formula.True, "a")))
	require.NoError(t, log.Append(makeSample(2, formula.False, "a", "b")))
	require.NoError(t, log.Append(makeSample(3, formula.Unknown)))

	created := base.Add(123456789 * time.Nanosecond)
	data, err := Serialize(log.Snapshot("F([b])", created))
	require.NoError(t, err)

	snap, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, "F([b])", snap.Formula)
	assert.True(t, created.Equal(snap.Created))
	assert.Equal(t, 1, snap.Satisfied)
	assert.Equal(t, 1, snap.Violated)
	assert.Equal(t, 1, snap.Undetermined)

	require.Len(t, snap.Samples, 2)
	assert.Equal(t, uint64(2), snap.Samples[0].Seq)
	assert.Equal(t, []string{"a", "b"}, snap.Samples[0].Path)
	assert.Equal(t, formula.False, snap.Samples[0].Verdict)
	assert.Equal(t, 2, snap.Samples[0].Steps)
	assert.True(t, base.Add(2*time.Millisecond).Equal(snap.Samples[0].Timestamp))
	assert.Equal(t, formula.Unknown, snap.Samples[1].Verdict)

	restored, err := snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Count())
	sat, vio, und := restored.Counts()
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{sat, vio, und})
}

func TestSerialize_Deterministic(t *testing.T) {
	log := NewMemoryLog()
	require.NoError(t, log.Append(makeSample(1, formula.True, "x")))
	snap := log.Snapshot("[x]", base)

	a, err := Serialize(snap)
	require.NoError(t, err)
	b, err := Serialize(snap)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerialize_Errors(t *testing.T) {
	_, err := Serialize(nil)
	assert.Error(t, err)

	_, err = Deserialize(nil)
	assert.Error(t, err)

	_, err = Deserialize([]byte{0xff, 0x00})
	assert.Error(t, err)
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.cbor")

	log := NewMemoryLog()
	require.NoError(t, log.Append(makeSample(1, formula.True, "a")))
	require.NoError(t, WriteFile(path, log.Snapshot("[a]", base)))

	snap, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[a]", snap.Formula)
	require.Len(t, snap.Samples, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.cbor"))
	assert.Error(t, err)
}
