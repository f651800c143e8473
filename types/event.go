// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// EventKind tells the kind of a cycle lifecycle [Event].
type EventKind int

// The kinds of cycle events, in the order they appear within a single scan
// cycle.
const (
	CycleStart    EventKind = iota // a new scan cycle begins.
	HostReachable                  // a host in the scanned range answered.
	CycleEnd                       // all probes of the cycle have completed.
)

// String returns the clear-text representation of an EventKind value.
func (k EventKind) String() string {
	switch k {
	case CycleStart:
		return "cycle-start"
	case HostReachable:
		return "host-reachable"
	case CycleEnd:
		return "cycle-end"
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event is a single scan cycle lifecycle event. Addr is only set for
// HostReachable events. Err is only ever set for CycleEnd events and then
// signals an aborted cycle whose reachable hosts must not be taken at face
// value.
type Event struct {
	Kind EventKind
	Addr Addr
	Err  error
}

// StartEvent returns a new CycleStart event.
func StartEvent() Event { return Event{Kind: CycleStart} }

// ReachableEvent returns a new HostReachable event for the specified address.
func ReachableEvent(addr Addr) Event { return Event{Kind: HostReachable, Addr: addr} }

// EndEvent returns a new CycleEnd event, with an optional error telling why
// the cycle was aborted.
func EndEvent(err error) Event { return Event{Kind: CycleEnd, Err: err} }

// String returns a textual representation of the event, mainly for
// debugging purposes.
func (e Event) String() string {
	switch e.Kind {
	case HostReachable:
		return e.Kind.String() + " " + e.Addr.String()
	case CycleEnd:
		if e.Err != nil {
			return e.Kind.String() + " (aborted: " + e.Err.Error() + ")"
		}
	}
	return e.Kind.String()
}
