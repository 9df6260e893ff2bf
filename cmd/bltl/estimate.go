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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jazzpetri/bltl/clock"
	"github.com/jazzpetri/bltl/config"
	"github.com/jazzpetri/bltl/estimate"
	"github.com/jazzpetri/bltl/formula"
	"github.com/jazzpetri/bltl/samplelog"
)

func runEstimate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("estimate", stderr)
	configPath := fs.StringP("config", "c", "", "run configuration file (default: $"+config.EnvVar+")")
	record := fs.String("record", "", "write the sample log to this CBOR file (overrides the config)")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	logger, err := newLogger(stderr, *logLevel)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *record != "" {
		cfg.Record = *record
	}

	// Validate has already parsed both of these.
	f := formula.MustParse(cfg.Formula)
	tester, err := cfg.Tester()
	if err != nil {
		return err
	}
	sampler, err := cfg.Sampler()
	if err != nil {
		return fmt.Errorf("building sampler: %w", err)
	}

	clk := clock.NewRealTimeClock()
	ec := cfg.EstimateConfig()
	ec.Logger = logger
	ec.Clock = clk
	if cfg.Record != "" {
		ec.Log = samplelog.NewMemoryLog()
	}

	started := clk.Now()
	result, err := estimate.New(f, tester, sampler, ec).Run(ctx)
	if err != nil {
		return err
	}

	prob, _, _, _ := tester.Params()
	fmt.Fprintf(stdout, "formula:   %s\n", f)
	fmt.Fprintf(stdout, "decision:  %s\n", result.Decision)
	fmt.Fprintf(stdout, "claim:     %s\n", claim(result, prob))
	fmt.Fprintf(stdout, "samples:   %d (%d satisfied, %d violated, %d skipped)\n",
		result.Samples, result.Satisfied, result.Violated, result.Skipped)
	fmt.Fprintf(stdout, "log ratio: %.6f\n", result.LogRatio)
	fmt.Fprintf(stdout, "elapsed:   %s\n", result.Elapsed)

	if ec.Log != nil {
		if err := os.MkdirAll(filepath.Dir(cfg.Record), 0o755); err != nil {
			return fmt.Errorf("creating record directory: %w", err)
		}
		if err := samplelog.WriteFile(cfg.Record, ec.Log.Snapshot(cfg.Formula, started)); err != nil {
			return err
		}
		logger.Info("sample log written", "path", cfg.Record, "samples", ec.Log.Count())
	}
	return nil
}

func claim(r *estimate.Result, prob float64) string {
	h, ok := r.Decision.Hypothesis()
	switch {
	case !ok:
		return "none, sample limit reached"
	case h == 0:
		return fmt.Sprintf("P(formula) >= %g", prob)
	default:
		return fmt.Sprintf("P(formula) < %g", prob)
	}
}
