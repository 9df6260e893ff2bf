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

// Package pathsource supplies the paths that formulas are checked against.
//
// A Source hands out batches of paths on request. Each path is a sequence of
// node identifiers compared by string equality against formula labels.
//
// Two sources are provided:
//   - Sampler draws random walks over a directed Graph, optionally
//     conditioned on reaching a target node.
//   - SliceSource replays a fixed list of paths.
//
// Graphs are usually loaded from a JSONC file:
//
//	{
//	    // every edge endpoint must be listed here
//	    "nodes": ["start", "work", "done"],
//	    "edges": [
//	        ["start", "work"],
//	        ["work", "work"],
//	        ["work", "done"],
//	    ],
//	}
package pathsource

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrUnknownNode is returned when a node identifier is not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnreachable is returned when the sampling target cannot be reached
	// from the source node.
	ErrUnreachable = errors.New("target unreachable from source")
)

// Source produces sampled paths.
// Implementations must be safe for concurrent use.
type Source interface {
	// SamplePaths returns count independently sampled paths.
	// It returns ctx.Err() if the context is cancelled before completion.
	SamplePaths(ctx context.Context, count int) ([][]string, error)
}

// SliceSource serves a fixed list of paths in order, wrapping around at the
// end.
type SliceSource struct {
	mu    sync.Mutex
	paths [][]string
	next  int
}

// NewSliceSource returns a source replaying paths. At least one path is
// required.
func NewSliceSource(paths ...[]string) (*SliceSource, error) {
	if len(paths) == 0 {
		return nil, errors.New("slice source needs at least one path")
	}
	return &SliceSource{paths: paths}, nil
}

// SamplePaths returns the next count paths.
func (s *SliceSource) SamplePaths(ctx context.Context, count int) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := s.paths[s.next]
		out = append(out, append([]string(nil), path...))
		s.next = (s.next + 1) % len(s.paths)
	}
	return out, nil
}
