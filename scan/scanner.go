// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/siemens/hostwatch/probe"
	"github.com/siemens/hostwatch/subnet"
	"github.com/siemens/hostwatch/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// ErrProbeUnavailable signals that probing failed for every single host of a
// scan cycle, so the probing mechanism is most probably broken as a whole.
var ErrProbeUnavailable = errors.New("probe mechanism unavailable")

// Scanner runs scan cycles over IPv4 subnets, probing all usable addresses
// concurrently and streaming the reachable ones as cycle events. Scanners
// keep no state across cycles.
type Scanner struct {
	prober  probe.Prober
	workers int                                    // max. concurrent probes, or 0 for one per address.
	observe func(addr types.Addr, v types.Verdict) // optional verdict observer.
}

// ScannerOption can be passed to New when creating new Scanner objects.
type ScannerOption func(*Scanner)

// New returns a new Scanner probing addresses using the specified Prober.
//
// By default, a Scanner probes all addresses of a subnet at the same time.
// Use [WithWorkers] to limit the number of concurrent probes.
func New(prober probe.Prober, options ...ScannerOption) *Scanner {
	s := &Scanner{
		prober: prober,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithWorkers limits the number of concurrently running probes. Zero means
// no limit, that is, one probe per address of the scanned subnet.
func WithWorkers(workers uint) ScannerOption {
	return func(s *Scanner) {
		s.workers = int(workers)
	}
}

// WithProbeObserver registers a function that gets called with the verdict
// of every single probe. The observer is called concurrently from multiple
// goroutines.
func WithProbeObserver(fn func(addr types.Addr, v types.Verdict)) ScannerOption {
	return func(s *Scanner) {
		s.observe = fn
	}
}

// RunCycle runs a single scan cycle over the usable addresses of the subnet
// the specified address belongs to. It sends a [types.CycleStart] event to
// sink, then a [types.HostReachable] event for each reachable address, and
// finally a [types.CycleEnd] event. The CycleEnd is only sent after all
// probes of this cycle have finished.
//
// Probes failing with an error count as unreachable. If probing fails for all
// addresses, RunCycle returns an error wrapping [ErrProbeUnavailable]. If the
// context gets cancelled, all pending probes are aborted and RunCycle
// returns ctx.Err(). In both cases the CycleEnd event carries the same
// error.
func (s *Scanner) RunCycle(ctx context.Context, addr, mask types.Addr, sink chan<- types.Event) error {
	sink <- types.StartEvent()

	addrs := subnet.Enumerate(addr, mask)
	log.Debugf("scanning %d addresses of %s", len(addrs), subnet.String(addr, mask))
	var failures atomic.Int64
	if len(addrs) > 0 {
		size := s.workers
		if size <= 0 || size > len(addrs) {
			size = len(addrs)
		}
		workers := workerpool.New(size)
		for _, addr := range addrs {
			addr := addr
			workers.Submit(func() {
				reachable, err := s.prober.Probe(ctx, addr)
				if err != nil {
					failures.Add(1)
					log.Debugf("probing %s failed: %s", addr, err)
				}
				if s.observe != nil {
					s.observe(addr, types.VerdictOf(reachable, err))
				}
				if reachable && err == nil {
					sink <- types.ReachableEvent(addr)
				}
			})
		}
		// Wait for all probes to finish, so that the cycle end never
		// overtakes any reachable host of this cycle.
		workers.StopWait()
	}

	var err error
	switch {
	case ctx.Err() != nil:
		err = ctx.Err()
	case len(addrs) > 0 && failures.Load() == int64(len(addrs)):
		err = fmt.Errorf("%w: probing failed for all %d addresses of %s",
			ErrProbeUnavailable, len(addrs), subnet.String(addr, mask))
	}
	sink <- types.EndEvent(err)
	return err
}
