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

package estimate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/bltl/clock"
	"github.com/jazzpetri/bltl/formula"
	"github.com/jazzpetri/bltl/pathsource"
	"github.com/jazzpetri/bltl/samplelog"
	"github.com/jazzpetri/bltl/sprt"
)

func makeTester(t *testing.T, prob float64) *sprt.Tester {
	t.Helper()
	tester, err := sprt.New(prob, 0.1, 0.1, 0.01)
	require.NoError(t, err)
	return tester
}

func makeSource(t *testing.T, paths ...[]string) *pathsource.SliceSource {
	t.Helper()
	src, err := pathsource.NewSliceSource(paths...)
	require.NoError(t, err)
	return src
}

func TestRun_AcceptsNullWhenFormulaAlwaysHolds(t *testing.T) {
	log := samplelog.NewMemoryLog()
	est := New(formula.MustParse("F([done])"), makeTester(t, 0.8),
		makeSource(t, []string{"start", "done"}),
		Config{Workers: 3, BatchSize: 10, Log: log})

	result, err := est.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sprt.AcceptNull, result.Decision)
	assert.Equal(t, 88, result.Samples)
	assert.Equal(t, 88, result.Satisfied)
	assert.Zero(t, result.Violated)
	assert.Zero(t, result.Skipped)
	assert.Less(t, result.LogRatio, 0.0)
	assert.Equal(t, 88, log.Count())
}

func TestRun_AcceptsAlternativeWhenFormulaNeverHolds(t *testing.T) {
	est := New(formula.MustParse("G([start])"), makeTester(t, 0.8),
		makeSource(t, []string{"start", "done"}), DefaultConfig())

	result, err := est.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sprt.AcceptAlt, result.Decision)
	assert.Equal(t, 22, result.Samples)
	assert.Equal(t, 22, result.Violated)
	assert.Greater(t, result.LogRatio, 0.0)
}

func TestRun_MatchesSequentialTest(t *testing.T) {
	tester := makeTester(t, 0.8)
	paths := [][]string{{"a"}, {"a"}, {"b"}, {"a"}, {"b"}, {"a"}, {"a"}}
	est := New(formula.MustParse("[a]"), tester, makeSource(t, paths...),
		Config{Workers: 2, BatchSize: 5})

	result, err := est.Run(context.Background())
	require.NoError(t, err)

	seq := tester.NewSequence()
	n := 0
	for seq.Decision() == sprt.Undecided {
		seq.Add(paths[n%len(paths)][0] == "a")
		n++
	}
	assert.Equal(t, seq.Decision(), result.Decision)
	assert.Equal(t, n, result.Samples)
	assert.InDelta(t, seq.LogRatio(), result.LogRatio, 1e-12)
}

func TestRun_StopsAtMaxSamples(t *testing.T) {
	// alternating verdicts at prob 0.5 keep the ratio at zero
	est := New(formula.MustParse("[a]"), makeTester(t, 0.5),
		makeSource(t, []string{"a"}, []string{"b"}),
		Config{BatchSize: 7, MaxSamples: 50})

	result, err := est.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sprt.Undecided, result.Decision)
	assert.Equal(t, 50, result.Samples)
	assert.Equal(t, 25, result.Satisfied)
	assert.Equal(t, 25, result.Violated)
}

func TestRun_SkipsUndeterminedPaths(t *testing.T) {
	log := samplelog.NewMemoryLog()
	est := New(formula.MustParse("F([z])"), makeTester(t, 0.8),
		makeSource(t, []string{}, []string{"a"}),
		Config{Log: log})

	result, err := est.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sprt.AcceptAlt, result.Decision)
	assert.Equal(t, 22, result.Violated)
	assert.Equal(t, 22, result.Skipped)
	assert.Equal(t, 44, result.Samples)

	_, _, undetermined := log.Counts()
	assert.Equal(t, 22, undetermined)
}

func TestRun_RecordsSamplesWithClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewSteppingClock(start, time.Second)
	log := samplelog.NewMemoryLog()
	est := New(formula.MustParse("G(![error])"), makeTester(t, 0.8),
		makeSource(t, []string{"ok", "error"}),
		Config{Clock: clk, Log: log})

	result, err := est.Run(context.Background())
	require.NoError(t, err)

	samples := log.All()
	require.Len(t, samples, result.Samples)
	for i, s := range samples {
		assert.Equal(t, uint64(i+1), s.Seq)
		assert.Equal(t, formula.False, s.Verdict)
		assert.Equal(t, 2, s.Steps)
		assert.Equal(t, []string{"ok", "error"}, s.Path)
		if i > 0 {
			assert.True(t, s.Timestamp.After(samples[i-1].Timestamp))
		}
	}
	// one tick for the start, one per sample, one for the end
	assert.Equal(t, time.Duration(result.Samples+1)*time.Second, result.Elapsed)
}

func TestRun_SharedLogAcrossRuns(t *testing.T) {
	log := samplelog.NewMemoryLog()
	est := New(formula.MustParse("[a]"), makeTester(t, 0.8),
		makeSource(t, []string{"b"}), Config{Log: log})

	_, err := est.Run(context.Background())
	require.NoError(t, err)
	_, err = est.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 44, log.Count())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	est := New(formula.MustParse("[a]"), makeTester(t, 0.8),
		makeSource(t, []string{"a"}), DefaultConfig())

	_, err := est.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type failingSource struct{}

func (failingSource) SamplePaths(context.Context, int) ([][]string, error) {
	return nil, errors.New("boom")
}

func TestRun_SourceError(t *testing.T) {
	est := New(formula.MustParse("[a]"), makeTester(t, 0.8), failingSource{}, DefaultConfig())

	_, err := est.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRun_GraphSampler(t *testing.T) {
	g := pathsource.NewGraph("start", "work", "retry", "done")
	require.NoError(t, g.AddEdge("start", "work"))
	require.NoError(t, g.AddEdge("work", "retry"))
	require.NoError(t, g.AddEdge("retry", "work"))
	require.NoError(t, g.AddEdge("work", "done"))

	sampler, err := pathsource.NewSampler(g, pathsource.SamplerConfig{
		Source: "start",
		Target: "done",
		Seed:   7,
	})
	require.NoError(t, err)

	est := New(formula.MustParse("F([done])"), makeTester(t, 0.9), sampler, Config{Workers: 8})
	result, err := est.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sprt.AcceptNull, result.Decision)
	assert.Zero(t, result.Violated)
}

func TestCheckBatch_PreservesOrder(t *testing.T) {
	est := New(formula.MustParse("[a]"), makeTester(t, 0.8),
		makeSource(t, []string{"a"}), Config{Workers: 4})

	paths := [][]string{{"a"}, {"b"}, {}, {"a", "b"}, {"b", "a"}}
	got, err := est.checkBatch(context.Background(), paths)
	require.NoError(t, err)

	want := []formula.Truth{formula.True, formula.False, formula.Unknown, formula.True, formula.False}
	for i := range want {
		assert.Equal(t, want[i], got[i].verdict, "path %d", i)
	}
}
