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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jazzpetri/bltl/formula"
	"github.com/jazzpetri/bltl/pathcheck"
)

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("check", stderr)
	text := fs.StringP("formula", "f", "", "BLTL formula to check (required)")
	online := fs.Bool("online", false, "read observations from stdin, one per line, printing the verdict after each")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *text == "" {
		return errors.New("--formula is required")
	}

	prog, err := compile(*text)
	if err != nil {
		return err
	}

	if *online {
		if fs.NArg() > 0 {
			return fmt.Errorf("unexpected argument %q with --online", fs.Arg(0))
		}
		return checkOnline(prog.NewChecker(), stdin, stdout)
	}

	verdict, steps := prog.Check(fs.Args())
	fmt.Fprintf(stdout, "%s (%d of %d observations)\n", verdict, steps, fs.NArg())
	return nil
}

func compile(text string) (*pathcheck.Program, error) {
	f, err := formula.Parse(text)
	if err != nil {
		return nil, err
	}
	return pathcheck.Compile(f), nil
}

// checkOnline feeds stdin lines to the checker. A line is only known to be
// the last observation once the following read hits EOF, so input is read
// one line ahead. Blank lines are ignored.
func checkOnline(c *pathcheck.Checker, stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	next := func() (string, bool) {
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}

	obs, ok := next()
	for ok {
		following, more := next()
		verdict, err := c.Update(obs, !more)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\t%s\n", obs, verdict)
		if verdict.Decided() {
			break
		}
		obs, ok = following, more
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading observations: %w", err)
	}

	fmt.Fprintf(stdout, "%s (%d observations)\n", c.Truth(), c.Steps())
	return nil
}
