// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Verdict is the outcome of probing a single host address.
type Verdict int

// The verdicts of probing a host address.
const (
	Unreachable   Verdict = iota // no reply to any probe attempt.
	Reachable                    // at least one probe attempt got a reply.
	Indeterminate                // probing failed; counts as unreachable.
)

// String returns the clear-text representation of a Verdict value.
func (v Verdict) String() string {
	switch v {
	case Unreachable:
		return "unreachable"
	case Reachable:
		return "reachable"
	case Indeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("Verdict(%d)", v)
}

// VerdictOf returns the verdict corresponding with a probe result.
func VerdictOf(reachable bool, err error) Verdict {
	switch {
	case err != nil:
		return Indeterminate
	case reachable:
		return Reachable
	default:
		return Unreachable
	}
}
