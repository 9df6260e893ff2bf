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
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// graphFile is the on-disk form of a Graph.
type graphFile struct {
	Nodes []string    `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

// ParseGraph strips JSONC comments and trailing commas from data, then
// builds the graph it describes. Every edge endpoint must be declared in
// "nodes".
func ParseGraph(data []byte) (*Graph, error) {
	var gf graphFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &gf); err != nil {
		return nil, fmt.Errorf("parsing graph: %w", err)
	}
	if len(gf.Nodes) == 0 {
		return nil, fmt.Errorf("parsing graph: no nodes declared")
	}

	g := NewGraph(gf.Nodes...)
	for i, e := range gf.Edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("parsing graph: edge %d: %w", i, err)
		}
	}
	return g, nil
}

// ReadGraphFile reads and parses a JSONC graph file.
func ReadGraphFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := ParseGraph(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
