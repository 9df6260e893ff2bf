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

// Package estimate decides whether a formula holds with at least a given
// probability on paths drawn from a path source.
//
// An Estimator repeatedly asks its source for a batch of paths, checks the
// batch on a pool of workers (one independent checker per path), and feeds
// the verdicts in sample order to a sequential probability ratio test. It
// stops at the first decision, or when the sample limit is reached.
//
// # Usage
//
//	tester, _ := sprt.New(0.8, 0.1, 0.1, 0.01)
//	sampler, _ := pathsource.NewSampler(graph, pathsource.SamplerConfig{Source: "start", Target: "done"})
//	est := estimate.New(formula.MustParse("G(![error])"), tester, sampler, estimate.DefaultConfig())
//	result, err := est.Run(ctx)
//	// result.Decision is sprt.AcceptNull when P(G(![error])) >= 0.8
package estimate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jazzpetri/bltl/clock"
	"github.com/jazzpetri/bltl/formula"
	"github.com/jazzpetri/bltl/pathcheck"
	"github.com/jazzpetri/bltl/pathsource"
	"github.com/jazzpetri/bltl/samplelog"
	"github.com/jazzpetri/bltl/sprt"
)

// Defaults applied by DefaultConfig and to zero Config fields.
const (
	DefaultWorkers    = 4
	DefaultBatchSize  = 16
	DefaultMaxSamples = 100000
)

// Config controls an estimation run.
type Config struct {
	// Workers is the number of goroutines checking paths in parallel.
	Workers int

	// BatchSize is the number of paths requested from the source at a time.
	BatchSize int

	// MaxSamples bounds the number of paths checked before giving up
	// undecided. Undetermined paths count toward the limit.
	MaxSamples int

	// Logger receives run progress. Defaults to a discarding logger.
	Logger *slog.Logger

	// Clock timestamps samples and measures the run. Defaults to real time.
	Clock clock.Clock

	// Log, when set, records every sample folded into the test.
	Log *samplelog.MemoryLog
}

// DefaultConfig returns the default run configuration.
func DefaultConfig() Config {
	return Config{
		Workers:    DefaultWorkers,
		BatchSize:  DefaultBatchSize,
		MaxSamples: DefaultMaxSamples,
	}
}

// Result summarizes a run.
type Result struct {
	// Decision is the test outcome; Undecided when MaxSamples was reached
	Decision sprt.Decision

	// Samples is the number of paths folded in, Skipped included
	Samples int

	// Satisfied and Violated count the True and False verdicts
	Satisfied int
	Violated  int

	// Skipped counts paths whose verdict stayed undetermined (empty paths)
	Skipped int

	// LogRatio is the final log-likelihood ratio
	LogRatio float64

	// Elapsed is the run duration measured on the configured clock
	Elapsed time.Duration
}

// Estimator runs the sequential test for one formula over one path source.
type Estimator struct {
	prog   *pathcheck.Program
	tester *sprt.Tester
	source pathsource.Source
	config Config

	// seq numbers samples across runs so a shared Log never sees duplicates
	seq atomic.Uint64
}

// New creates an Estimator. Zero Config fields take their defaults.
func New(f formula.Formula, tester *sprt.Tester, source pathsource.Source, config Config) *Estimator {
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.MaxSamples <= 0 {
		config.MaxSamples = DefaultMaxSamples
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Clock == nil {
		config.Clock = clock.NewRealTimeClock()
	}
	return &Estimator{
		prog:   pathcheck.Compile(f),
		tester: tester,
		source: source,
		config: config,
	}
}

// Run samples and checks paths until the test decides or MaxSamples paths
// have been folded in. Cancelling ctx aborts the run with an error wrapping
// ctx.Err().
func (e *Estimator) Run(ctx context.Context) (*Result, error) {
	logger := e.config.Logger
	start := e.config.Clock.Now()
	seq := e.tester.NewSequence()
	result := &Result{}

	logger.Info("estimation started",
		"formula", e.prog.Formula().String(),
		"workers", e.config.Workers,
		"batch_size", e.config.BatchSize,
		"max_samples", e.config.MaxSamples,
	)

	for seq.Decision() == sprt.Undecided && result.Samples < e.config.MaxSamples {
		n := min(e.config.BatchSize, e.config.MaxSamples-result.Samples)
		paths, err := e.source.SamplePaths(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("sampling %d paths: %w", n, err)
		}
		if len(paths) == 0 {
			return nil, errors.New("path source returned no paths")
		}

		checked, err := e.checkBatch(ctx, paths)
		if err != nil {
			return nil, fmt.Errorf("checking paths: %w", err)
		}

		for i, c := range checked {
			result.Samples++
			if err := e.record(paths[i], c); err != nil {
				return nil, err
			}
			switch c.verdict {
			case formula.True:
				result.Satisfied++
				seq.Add(true)
			case formula.False:
				result.Violated++
				seq.Add(false)
			default:
				result.Skipped++
				logger.Warn("path left verdict undetermined", "path_length", len(paths[i]))
			}
			if seq.Decision() != sprt.Undecided {
				break
			}
		}

		logger.Debug("batch folded",
			"samples", result.Samples,
			"satisfied", result.Satisfied,
			"violated", result.Violated,
			"log_ratio", seq.LogRatio(),
		)
	}

	result.Decision = seq.Decision()
	result.LogRatio = seq.LogRatio()
	result.Elapsed = clock.Since(e.config.Clock, start)

	if result.Decision == sprt.Undecided {
		logger.Warn("sample limit reached without a decision",
			"samples", result.Samples,
			"log_ratio", result.LogRatio,
		)
	} else {
		logger.Info("estimation decided",
			"decision", result.Decision.String(),
			"samples", result.Samples,
			"satisfied", result.Satisfied,
			"violated", result.Violated,
			"elapsed", result.Elapsed,
		)
	}
	return result, nil
}

func (e *Estimator) record(path []string, c checked) error {
	if e.config.Log == nil {
		return nil
	}
	err := e.config.Log.Append(&samplelog.Sample{
		Seq:       e.seq.Add(1),
		Path:      path,
		Verdict:   c.verdict,
		Steps:     c.steps,
		Timestamp: e.config.Clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("recording sample: %w", err)
	}
	return nil
}
