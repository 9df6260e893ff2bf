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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/bltl/formula"
	"github.com/jazzpetri/bltl/sprt"
)

const sampleConfig = `
formula: "F([done])"
hypothesis:
  prob: 0.8
  alpha: 0.1
  beta: 0.1
  delta: 0.01
sampling:
  workers: 2
  batch_size: 8
  seed: 42
  max_length: 64
graph:
  file: graph.jsonc
  source: start
  target: done
record: out/samples.cbor
`

const sampleGraph = `{
  // two ways to finish
  "nodes": ["start", "work", "done"],
  "edges": [["start", "work"], ["work", "done"], ["start", "done"]]
}`

func writeFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.yaml"), []byte(sampleConfig), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graph.jsonc"), []byte(sampleGraph), 0o644))
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Sampling.Workers)
	assert.Equal(t, 16, cfg.Sampling.BatchSize)
	assert.Equal(t, 100000, cfg.Sampling.MaxSamples)
	assert.Equal(t, 1000, cfg.Sampling.MaxLength)
	assert.Equal(t, 0.05, cfg.Hypothesis.Alpha)

	// formula, prob and graph have no defaults
	assert.Error(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := writeFiles(t)

	cfg, err := LoadFile(filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "F([done])", cfg.Formula)
	assert.Equal(t, HypothesisConfig{Prob: 0.8, Alpha: 0.1, Beta: 0.1, Delta: 0.01}, cfg.Hypothesis)
	assert.Equal(t, 2, cfg.Sampling.Workers)
	assert.Equal(t, 8, cfg.Sampling.BatchSize)
	assert.Equal(t, 100000, cfg.Sampling.MaxSamples, "missing keys keep defaults")
	assert.Equal(t, uint64(42), cfg.Sampling.Seed)
	assert.Equal(t, filepath.Join(dir, "graph.jsonc"), cfg.Graph.File)
	assert.Equal(t, filepath.Join(dir, "out", "samples.cbor"), cfg.Record)
}

func TestLoad_FromEnvironment(t *testing.T) {
	dir := writeFiles(t)
	t.Setenv(EnvVar, filepath.Join(dir, "run.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "start", cfg.Graph.Source)
}

func TestLoad_Unset(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvVar)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_KeepsAbsolutePaths(t *testing.T) {
	cfg, err := Parse([]byte(`
formula: "[a]"
hypothesis: {prob: 0.5}
graph: {file: /srv/graph.json, source: a}
`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/graph.json", cfg.Graph.File)
	assert.Empty(t, cfg.Record)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad formula", `formula: "F([a]"`, "formula:"},
		{"missing formula", `hypothesis: {prob: 0.5}`, "formula is required"},
		{"prob out of range", `hypothesis: {prob: 1.5}`, "hypothesis:"},
		{"delta too wide", `hypothesis: {prob: 0.99, delta: 0.05}`, "hypothesis:"},
		{"workers", `sampling: {workers: 0}`, "sampling.workers"},
		{"batch size", `sampling: {batch_size: -1}`, "sampling.batch_size"},
		{"max samples", `sampling: {max_samples: 0}`, "sampling.max_samples"},
		{"max length", `sampling: {max_length: 0}`, "sampling.max_length"},
		{"graph file", `graph: {source: a}`, "graph.file is required"},
		{"graph source", `graph: {file: g.json}`, "graph.source is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_HypothesisDomain(t *testing.T) {
	cfg := Default()
	cfg.Hypothesis.Prob = 0
	err := cfg.Validate()
	assert.True(t, errors.Is(err, sprt.ErrDomain))
}

func TestValidate_FormulaSyntax(t *testing.T) {
	cfg := Default()
	cfg.Formula = "G(["
	assert.True(t, errors.Is(cfg.Validate(), formula.ErrSyntax))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("formula: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestBuilders(t *testing.T) {
	dir := writeFiles(t)
	cfg, err := LoadFile(filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)

	tester, err := cfg.Tester()
	require.NoError(t, err)
	prob, alpha, beta, delta := tester.Params()
	assert.Equal(t, []float64{0.8, 0.1, 0.1, 0.01}, []float64{prob, alpha, beta, delta})

	sampler, err := cfg.Sampler()
	require.NoError(t, err)
	path := sampler.SamplePath()
	require.NotEmpty(t, path)
	assert.Equal(t, "start", path[0])
	assert.Equal(t, "done", path[len(path)-1])

	ec := cfg.EstimateConfig()
	assert.Equal(t, 2, ec.Workers)
	assert.Equal(t, 8, ec.BatchSize)
	assert.Equal(t, 100000, ec.MaxSamples)
}
