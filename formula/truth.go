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

package formula

import "fmt"

// Truth is a three-valued verdict: a boolean that may not be known yet.
//
// The zero value is Unknown, so a freshly allocated evaluation state reads as
// "not enough path observed to decide".
type Truth int8

const (
	// Unknown means the verdict cannot be decided from the observations so far.
	Unknown Truth = 0

	// True means the formula holds and no further observation can change that.
	True Truth = 1

	// False means the formula fails and no further observation can change that.
	False Truth = -1
)

// Lift returns the Truth corresponding to b.
func Lift(b bool) Truth {
	if b {
		return True
	}
	return False
}

// Not returns the logical complement:
//
//	True    -> False
//	False   -> True
//	Unknown -> Unknown
func (t Truth) Not() Truth {
	return -t
}

// Decided reports whether t is True or False.
func (t Truth) Decided() bool {
	return t != Unknown
}

// Bool returns the boolean value of a decided verdict. The second result is
// false when t is Unknown.
func (t Truth) Bool() (value bool, ok bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

func (t Truth) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undetermined"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Truth) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the forms
// produced by String.
func (t *Truth) UnmarshalText(text []byte) error {
	switch string(text) {
	case "true":
		*t = True
	case "false":
		*t = False
	case "undetermined", "":
		*t = Unknown
	default:
		return fmt.Errorf("invalid truth value %q", text)
	}
	return nil
}
