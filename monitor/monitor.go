// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package monitor

import (
	"github.com/siemens/hostwatch/types"

	"github.com/thediveo/lxkns/log"
)

// Delta describes the outcome of a completed scan cycle: the hosts that were
// reachable during the cycle, and how this differs from the previous cycle.
// All host sets are sorted.
type Delta struct {
	Cycle          int           `json:"cycle"`           // number of completed cycle, starting with 1.
	Current        types.HostSet `json:"current"`         // reachable hosts in this cycle.
	NewlyConnected types.HostSet `json:"newly-connected"` // reachable now, but not in the previous cycle.
	Disconnected   types.HostSet `json:"disconnected"`    // reachable in the previous cycle, but not now.
}

// Monitor consumes the cycle event stream of a scanner and reports the
// differences in reachable hosts between consecutive scan cycles.
type Monitor struct {
	reporter Reporter
}

// New returns a new Monitor reporting to the specified Reporter.
func New(reporter Reporter) *Monitor {
	return &Monitor{reporter: reporter}
}

// state of a Monitor, owned exclusively by the goroutine running
// [Monitor.Run].
type state struct {
	previous   types.HostSet // reachable hosts of the most recent completed cycle.
	current    types.HostSet // reachable hosts of the cycle in progress.
	collecting bool          // inside a cycle?
	cycles     int           // number of completed cycles.
}

// Run consumes cycle events until the event channel has been closed,
// reporting after each completed cycle. A cycle that ended with an error is
// discarded and doesn't change what counts as the previous cycle.
//
// Run is meant to be the only consumer of the event channel and keeps all
// its state to itself.
func (m *Monitor) Run(events <-chan types.Event) {
	var s state
	for ev := range events {
		if delta, ok := s.update(ev); ok {
			m.reporter.Report(delta)
		}
	}
	if s.collecting {
		log.Debugf("event stream ended in the middle of a scan cycle")
	}
}

// update the monitor state with the specified event, returning the delta
// to report when the event completed a cycle.
func (s *state) update(ev types.Event) (Delta, bool) {
	switch ev.Kind {
	case types.CycleStart:
		if s.collecting {
			log.Warnf("scan cycle restarted without end, discarding %d hosts", len(s.current))
		}
		s.current = types.HostSet{}
		s.collecting = true
	case types.HostReachable:
		if !s.collecting {
			log.Warnf("ignoring reachable host %s outside scan cycle", ev.Addr)
			return Delta{}, false
		}
		s.current = append(s.current, ev.Addr)
	case types.CycleEnd:
		if !s.collecting {
			log.Warnf("ignoring scan cycle end outside scan cycle")
			return Delta{}, false
		}
		s.collecting = false
		if ev.Err != nil {
			log.Warnf("discarding aborted scan cycle: %s", ev.Err)
			s.current = nil
			return Delta{}, false
		}
		current := s.current.Sort()
		s.cycles++
		delta := Delta{
			Cycle:          s.cycles,
			Current:        current.Clone(),
			NewlyConnected: current.Minus(s.previous),
			Disconnected:   s.previous.Minus(current),
		}
		s.previous, s.current = current, nil
		return delta, true
	}
	return Delta{}, false
}
