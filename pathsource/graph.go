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
	"fmt"
	"sort"
)

// Graph is a finite directed graph of labeled nodes.
//
// Nodes are kept in insertion order; successor lists keep edge insertion
// order and ignore duplicate edges. A Graph is not safe for concurrent
// mutation, but concurrent reads are safe once it is built.
type Graph struct {
	nodes []string
	succ  map[string][]string
	pred  map[string][]string
}

// NewGraph creates a graph holding the given nodes and no edges.
func NewGraph(nodes ...string) *Graph {
	g := &Graph{
		succ: make(map[string][]string),
		pred: make(map[string][]string),
	}
	for _, n := range nodes {
		g.AddNode(n)
	}
	return g
}

// AddNode adds n if it is not already present.
func (g *Graph) AddNode(n string) {
	if g.HasNode(n) {
		return
	}
	g.nodes = append(g.nodes, n)
	g.succ[n] = nil
	g.pred[n] = nil
}

// AddEdge adds the edge from -> to. Both nodes must already exist.
func (g *Graph) AddEdge(from, to string) error {
	if !g.HasNode(from) {
		return fmt.Errorf("edge %s -> %s: %w %q", from, to, ErrUnknownNode, from)
	}
	if !g.HasNode(to) {
		return fmt.Errorf("edge %s -> %s: %w %q", from, to, ErrUnknownNode, to)
	}
	for _, s := range g.succ[from] {
		if s == to {
			return nil
		}
	}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
	return nil
}

// HasNode reports whether n is a node of the graph.
func (g *Graph) HasNode(n string) bool {
	_, ok := g.succ[n]
	return ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Successors returns the successors of n in edge insertion order.
func (g *Graph) Successors(n string) []string {
	return append([]string(nil), g.succ[n]...)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, s := range g.succ {
		count += len(s)
	}
	return count
}

// CanReach returns the set of nodes from which target is reachable, target
// included. Uses breadth-first search over reversed edges.
func (g *Graph) CanReach(target string) map[string]bool {
	reach := make(map[string]bool)
	if !g.HasNode(target) {
		return reach
	}
	reach[target] = true
	queue := []string{target}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, p := range g.pred[current] {
			if !reach[p] {
				reach[p] = true
				queue = append(queue, p)
			}
		}
	}
	return reach
}

// ShortestPath returns a shortest path from source to target, both included,
// or nil if target is unreachable.
func (g *Graph) ShortestPath(source, target string) []string {
	if !g.HasNode(source) || !g.HasNode(target) {
		return nil
	}
	parent := map[string]string{source: source}
	queue := []string{source}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == target {
			var path []string
			for n := target; n != source; n = parent[n] {
				path = append(path, n)
			}
			path = append(path, source)
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		for _, s := range g.succ[current] {
			if _, seen := parent[s]; !seen {
				parent[s] = current
				queue = append(queue, s)
			}
		}
	}
	return nil
}

// DeadEnds returns the nodes without successors, sorted.
func (g *Graph) DeadEnds() []string {
	var out []string
	for _, n := range g.nodes {
		if len(g.succ[n]) == 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
