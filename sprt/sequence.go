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

package sprt

// Sequence feeds samples to a Tester one at a time, keeping running counts so
// that each step costs O(1).
//
// A Sequence is not safe for concurrent use.
type Sequence struct {
	tester    *Tester
	successes int
	failures  int
	decision  Decision
}

// NewSequence starts an empty sample sequence for the tester.
func (t *Tester) NewSequence() *Sequence {
	return &Sequence{tester: t}
}

// Add appends one sample and returns the decision for the samples so far.
// Samples added after a decision still update the counts, so the decision
// reported is always the one for the complete sequence.
func (s *Sequence) Add(sample bool) Decision {
	if sample {
		s.successes++
	} else {
		s.failures++
	}
	s.decision = s.tester.DecideCounts(s.successes, s.failures)
	return s.decision
}

// Decision returns the decision for the samples added so far.
func (s *Sequence) Decision() Decision {
	return s.decision
}

// Counts returns the number of true and false samples added.
func (s *Sequence) Counts() (successes, failures int) {
	return s.successes, s.failures
}

// Len returns the number of samples added.
func (s *Sequence) Len() int {
	return s.successes + s.failures
}

// LogRatio returns the log-likelihood ratio of the samples added so far.
func (s *Sequence) LogRatio() float64 {
	return s.tester.LogLikelihoodRatioCounts(s.successes, s.failures)
}
