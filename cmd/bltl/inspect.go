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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jazzpetri/bltl/samplelog"
)

func runInspect(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("inspect", stderr)
	list := fs.Bool("samples", false, "list every recorded sample")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one sample log file, got %d arguments", fs.NArg())
	}

	snap, err := samplelog.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "formula:      %s\n", snap.Formula)
	fmt.Fprintf(stdout, "created:      %s\n", snap.Created.Format(time.RFC3339))
	fmt.Fprintf(stdout, "satisfied:    %d\n", snap.Satisfied)
	fmt.Fprintf(stdout, "violated:     %d\n", snap.Violated)
	fmt.Fprintf(stdout, "undetermined: %d\n", snap.Undetermined)
	fmt.Fprintf(stdout, "recorded:     %d\n", len(snap.Samples))

	if *list {
		for _, s := range snap.Samples {
			fmt.Fprintf(stdout, "%6d  %-12s  %3d  %s\n", s.Seq, s.Verdict, s.Steps, strings.Join(s.Path, " "))
		}
	}
	return nil
}
