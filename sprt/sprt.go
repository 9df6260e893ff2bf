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

// Package sprt implements Wald's sequential probability ratio test for
// deciding whether the probability that a property holds meets a threshold.
//
// The test compares
//
//	H0: P(satisfied) >= prob
//	H1: P(satisfied) <  prob
//
// with an indifference region [prob-delta, prob+delta] inside which either
// answer is acceptable, type I error bound alpha and type II error bound
// beta. Samples are independent True/False verdicts; a caller appends one
// sample at a time and stops sampling as soon as Decide returns a decision.
//
// # Usage
//
//	tester, err := sprt.New(0.8, 0.1, 0.1, 0.01)
//	var samples []bool
//	for {
//	    samples = append(samples, sampleOnePath())
//	    if d := tester.Decide(samples); d != sprt.Undecided {
//	        break
//	    }
//	}
package sprt

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain is returned when the test parameters make a log-likelihood term
// undefined.
var ErrDomain = errors.New("hypothesis test parameter outside its domain")

// Decision is the outcome of the test. The zero value is Undecided.
type Decision int8

const (
	// Undecided means more samples are needed.
	Undecided Decision = iota

	// AcceptNull accepts H0: P(satisfied) >= prob.
	AcceptNull

	// AcceptAlt accepts H1: P(satisfied) < prob.
	AcceptAlt
)

// Hypothesis returns the index of the accepted hypothesis: 0 for AcceptNull,
// 1 for AcceptAlt. ok is false for Undecided.
func (d Decision) Hypothesis() (index int, ok bool) {
	switch d {
	case AcceptNull:
		return 0, true
	case AcceptAlt:
		return 1, true
	default:
		return 0, false
	}
}

func (d Decision) String() string {
	switch d {
	case AcceptNull:
		return "accept-null"
	case AcceptAlt:
		return "accept-alternative"
	default:
		return "undecided"
	}
}

// Tester holds a fixed test configuration. It is immutable after New and safe
// for concurrent use.
type Tester struct {
	prob, alpha, beta, delta float64

	// logA and logB are the acceptance thresholds for H1 and H0
	logA, logB float64

	// per-sample log-likelihood contributions of a success and a failure
	successLLR, failureLLR float64
}

// New validates the parameters and returns a Tester.
//
// Parameters:
//   - prob: probability threshold under test
//   - alpha: bound on the probability of rejecting H0 when it holds
//   - beta: bound on the probability of accepting H0 when H1 holds
//   - delta: half-width of the indifference region around prob
//
// Each parameter must be a finite number in (0,1), with prob-delta > 0 and
// prob+delta < 1. Otherwise the returned error matches ErrDomain.
func New(prob, alpha, beta, delta float64) (*Tester, error) {
	params := []struct {
		name  string
		value float64
	}{
		{"prob", prob},
		{"alpha", alpha},
		{"beta", beta},
		{"delta", delta},
	}
	for _, p := range params {
		if math.IsNaN(p.value) || p.value <= 0 || p.value >= 1 {
			return nil, fmt.Errorf("%s = %v must lie in (0,1): %w", p.name, p.value, ErrDomain)
		}
	}
	p0, p1 := prob-delta, prob+delta
	if p0 <= 0 {
		return nil, fmt.Errorf("prob-delta = %v must be positive: %w", p0, ErrDomain)
	}
	if p1 >= 1 {
		return nil, fmt.Errorf("prob+delta = %v must be below 1: %w", p1, ErrDomain)
	}

	return &Tester{
		prob:       prob,
		alpha:      alpha,
		beta:       beta,
		delta:      delta,
		logA:       math.Log((1 - beta) / alpha),
		logB:       math.Log(beta / (1 - alpha)),
		successLLR: math.Log(p0) - math.Log(p1),
		failureLLR: math.Log(1-p0) - math.Log(1-p1),
	}, nil
}

// Params returns the configuration the Tester was built with.
func (t *Tester) Params() (prob, alpha, beta, delta float64) {
	return t.prob, t.alpha, t.beta, t.delta
}

// Thresholds returns logA = ln((1-beta)/alpha) and logB = ln(beta/(1-alpha)).
func (t *Tester) Thresholds() (logA, logB float64) {
	return t.logA, t.logB
}

// LogLikelihoodRatio returns
//
//	ps·ln(p0) + ns·ln(1-p0) − ps·ln(p1) − ns·ln(1-p1)
//
// where ps and ns count the true and false samples, p0 = prob-delta and
// p1 = prob+delta. More successes make the ratio smaller.
func (t *Tester) LogLikelihoodRatio(samples []bool) float64 {
	ps, ns := count(samples)
	return t.LogLikelihoodRatioCounts(ps, ns)
}

// LogLikelihoodRatioCounts is LogLikelihoodRatio over sample counts.
func (t *Tester) LogLikelihoodRatioCounts(successes, failures int) float64 {
	return float64(successes)*t.successLLR + float64(failures)*t.failureLLR
}

// Decide returns AcceptNull if the log-likelihood ratio is at most logB,
// AcceptAlt if it is at least logA, and Undecided otherwise.
// The result depends only on the counts of true and false samples.
func (t *Tester) Decide(samples []bool) Decision {
	ps, ns := count(samples)
	return t.DecideCounts(ps, ns)
}

// DecideCounts is Decide over sample counts.
func (t *Tester) DecideCounts(successes, failures int) Decision {
	return t.decide(t.LogLikelihoodRatioCounts(successes, failures))
}

func (t *Tester) decide(logq float64) Decision {
	switch {
	case logq <= t.logB:
		return AcceptNull
	case logq >= t.logA:
		return AcceptAlt
	default:
		return Undecided
	}
}

func count(samples []bool) (successes, failures int) {
	for _, s := range samples {
		if s {
			successes++
		} else {
			failures++
		}
	}
	return successes, failures
}
