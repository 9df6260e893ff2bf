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

package pathsource

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// DefaultMaxLength bounds walks when SamplerConfig.MaxLength is zero.
const DefaultMaxLength = 1000

// SamplerConfig configures random walks over a graph.
type SamplerConfig struct {
	// Source is the node every walk starts from
	Source string

	// Target, when set, conditions walks on reaching it: a walk only moves
	// to successors from which Target is reachable and ends on arrival.
	// When empty, a walk ends at a node without successors.
	Target string

	// MaxLength is the maximum number of nodes in a walk (0 = DefaultMaxLength).
	// Longer walks are truncated.
	MaxLength int

	// Seed makes the sequence of sampled paths reproducible.
	Seed uint64
}

// Sampler draws random walks over a Graph. At each step the next node is
// chosen uniformly among the eligible successors of the current one.
//
// Sampler is safe for concurrent use; concurrent callers share one random
// stream, so runs are reproducible only when sampling is sequential.
type Sampler struct {
	graph  *Graph
	config SamplerConfig

	// allowed holds the nodes that can reach Target; nil without a target
	allowed map[string]bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler validates config against g and returns a Sampler.
//
// Returns an error matching ErrUnknownNode if Source or Target is not in g,
// or ErrUnreachable if Target cannot be reached from Source.
func NewSampler(g *Graph, config SamplerConfig) (*Sampler, error) {
	if !g.HasNode(config.Source) {
		return nil, fmt.Errorf("sampler source: %w %q", ErrUnknownNode, config.Source)
	}
	if config.MaxLength <= 0 {
		config.MaxLength = DefaultMaxLength
	}

	s := &Sampler{
		graph:  g,
		config: config,
		rng:    rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)),
	}
	if config.Target != "" {
		if !g.HasNode(config.Target) {
			return nil, fmt.Errorf("sampler target: %w %q", ErrUnknownNode, config.Target)
		}
		s.allowed = g.CanReach(config.Target)
		if !s.allowed[config.Source] {
			return nil, fmt.Errorf("%s -> %s: %w", config.Source, config.Target, ErrUnreachable)
		}
	}
	return s, nil
}

// Config returns the effective configuration.
func (s *Sampler) Config() SamplerConfig {
	return s.config
}

// SamplePaths draws count independent walks.
func (s *Sampler) SamplePaths(ctx context.Context, count int) ([][]string, error) {
	paths := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		paths = append(paths, s.SamplePath())
	}
	return paths, nil
}

// SamplePath draws one walk.
func (s *Sampler) SamplePath() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.config.Source
	path := []string{current}
	candidates := make([]string, 0, 4)
	for len(path) < s.config.MaxLength {
		if s.allowed != nil && current == s.config.Target {
			break
		}
		candidates = candidates[:0]
		for _, next := range s.graph.succ[current] {
			if s.allowed == nil || s.allowed[next] {
				candidates = append(candidates, next)
			}
		}
		if len(candidates) == 0 {
			break
		}
		current = candidates[s.rng.IntN(len(candidates))]
		path = append(path, current)
	}
	return path
}
