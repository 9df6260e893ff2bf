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

// Package config loads estimation runs from a single YAML file.
//
// There is no search path: the file is named explicitly, either through the
// BLTL_CONFIG environment variable (Load) or directly (LoadFile). Values
// missing from the file keep their Default.
//
// # File format
//
//	formula: "F([done])"
//	hypothesis:
//	  prob: 0.8
//	  alpha: 0.1
//	  beta: 0.1
//	  delta: 0.01
//	sampling:
//	  workers: 4
//	  batch_size: 16
//	  max_samples: 10000
//	  seed: 1
//	  max_length: 64
//	graph:
//	  file: graph.jsonc
//	  source: start
//	  target: done
//	record: samples.cbor
//
// Relative graph.file and record paths are resolved against the directory
// holding the configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jazzpetri/bltl/estimate"
	"github.com/jazzpetri/bltl/formula"
	"github.com/jazzpetri/bltl/pathsource"
	"github.com/jazzpetri/bltl/sprt"
)

// EnvVar names the environment variable read by Load.
const EnvVar = "BLTL_CONFIG"

// Config is the root configuration of an estimation run.
type Config struct {
	// Formula is the BLTL property checked on every sampled path.
	Formula string `yaml:"formula"`

	// Hypothesis configures the sequential test.
	Hypothesis HypothesisConfig `yaml:"hypothesis"`

	// Sampling configures the sampler and the worker pool.
	Sampling SamplingConfig `yaml:"sampling"`

	// Graph names the transition graph paths are drawn from.
	Graph GraphConfig `yaml:"graph"`

	// Record is an optional file the sample log is written to after the run.
	Record string `yaml:"record,omitempty"`
}

// HypothesisConfig holds the parameters of H0: P(formula) >= Prob.
type HypothesisConfig struct {
	// Prob is the probability threshold.
	Prob float64 `yaml:"prob"`

	// Alpha is the tolerated type I error.
	// Default: 0.05
	Alpha float64 `yaml:"alpha"`

	// Beta is the tolerated type II error.
	// Default: 0.05
	Beta float64 `yaml:"beta"`

	// Delta is the half-width of the indifference region.
	// Default: 0.01
	Delta float64 `yaml:"delta"`
}

// SamplingConfig controls path generation and checking.
type SamplingConfig struct {
	// Default: 4
	Workers int `yaml:"workers"`

	// Default: 16
	BatchSize int `yaml:"batch_size"`

	// MaxSamples bounds the run.
	// Default: 100000
	MaxSamples int `yaml:"max_samples"`

	// Seed makes sampling reproducible.
	Seed uint64 `yaml:"seed"`

	// MaxLength bounds each sampled path.
	// Default: 1000
	MaxLength int `yaml:"max_length"`
}

// GraphConfig names the graph file and the endpoints of sampled paths.
type GraphConfig struct {
	// File is a JSON (comments allowed) graph description.
	File string `yaml:"file"`

	// Source is the node every path starts at.
	Source string `yaml:"source"`

	// Target, if set, conditions paths on reaching it.
	Target string `yaml:"target,omitempty"`
}

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		Hypothesis: HypothesisConfig{
			Alpha: 0.05,
			Beta:  0.05,
			Delta: 0.01,
		},
		Sampling: SamplingConfig{
			Workers:    estimate.DefaultWorkers,
			BatchSize:  estimate.DefaultBatchSize,
			MaxSamples: estimate.DefaultMaxSamples,
			MaxLength:  pathsource.DefaultMaxLength,
		},
	}
}

// Load reads the file named by BLTL_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a run configuration, or use --config", EnvVar)
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes and validates a configuration. Relative paths are left
// untouched.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	if c.Graph.File != "" && !filepath.IsAbs(c.Graph.File) {
		c.Graph.File = filepath.Join(dir, c.Graph.File)
	}
	if c.Record != "" && !filepath.IsAbs(c.Record) {
		c.Record = filepath.Join(dir, c.Record)
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Formula == "" {
		errs = append(errs, errors.New("formula is required"))
	} else if _, err := formula.Parse(c.Formula); err != nil {
		errs = append(errs, fmt.Errorf("formula: %w", err))
	}

	if _, err := c.Tester(); err != nil {
		errs = append(errs, fmt.Errorf("hypothesis: %w", err))
	}

	if c.Sampling.Workers < 1 {
		errs = append(errs, fmt.Errorf("sampling.workers must be positive, got %d", c.Sampling.Workers))
	}
	if c.Sampling.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("sampling.batch_size must be positive, got %d", c.Sampling.BatchSize))
	}
	if c.Sampling.MaxSamples < 1 {
		errs = append(errs, fmt.Errorf("sampling.max_samples must be positive, got %d", c.Sampling.MaxSamples))
	}
	if c.Sampling.MaxLength < 1 {
		errs = append(errs, fmt.Errorf("sampling.max_length must be positive, got %d", c.Sampling.MaxLength))
	}

	if c.Graph.File == "" {
		errs = append(errs, errors.New("graph.file is required"))
	}
	if c.Graph.Source == "" {
		errs = append(errs, errors.New("graph.source is required"))
	}

	return errors.Join(errs...)
}

// Tester builds the sequential test described by Hypothesis.
func (c *Config) Tester() (*sprt.Tester, error) {
	h := c.Hypothesis
	return sprt.New(h.Prob, h.Alpha, h.Beta, h.Delta)
}

// Sampler loads the graph file and builds a sampler over it.
func (c *Config) Sampler() (*pathsource.Sampler, error) {
	g, err := pathsource.ReadGraphFile(c.Graph.File)
	if err != nil {
		return nil, err
	}
	return pathsource.NewSampler(g, pathsource.SamplerConfig{
		Source:    c.Graph.Source,
		Target:    c.Graph.Target,
		MaxLength: c.Sampling.MaxLength,
		Seed:      c.Sampling.Seed,
	})
}

// EstimateConfig returns the estimator settings. Logger, Clock and Log are
// left for the caller.
func (c *Config) EstimateConfig() estimate.Config {
	return estimate.Config{
		Workers:    c.Sampling.Workers,
		BatchSize:  c.Sampling.BatchSize,
		MaxSamples: c.Sampling.MaxSamples,
	}
}
