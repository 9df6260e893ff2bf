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

package estimate

import (
	"context"
	"sync"

	"github.com/jazzpetri/bltl/formula"
)

// checked is the outcome of checking one path.
type checked struct {
	verdict formula.Truth
	steps   int
}

// checkBatch checks paths on up to Workers goroutines. Results are indexed
// like paths. Each path gets its own checker; the compiled program is shared
// read-only.
func (e *Estimator) checkBatch(ctx context.Context, paths [][]string) ([]checked, error) {
	results := make([]checked, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(e.config.Workers, len(paths)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				verdict, steps := e.prog.Check(paths[i])
				results[i] = checked{verdict: verdict, steps: steps}
			}
		}()
	}

	var err error
feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}
