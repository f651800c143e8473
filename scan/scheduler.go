// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"time"

	"github.com/siemens/hostwatch/subnet"
	"github.com/siemens/hostwatch/types"

	"github.com/thediveo/lxkns/log"
)

// DefaultInterval is the default delay between consecutive scan cycles.
const DefaultInterval = time.Second

// Scheduler drives scan cycles, either a single one or repeating cycles
// with a fixed delay in between. Cycles never overlap.
type Scheduler struct {
	scanner  *Scanner
	repeat   bool
	interval time.Duration
	observe  func(d time.Duration, err error)
}

// SchedulerOption can be passed to NewScheduler when creating new Scheduler
// objects.
type SchedulerOption func(*Scheduler)

// NewScheduler returns a new Scheduler using the specified Scanner. It
// defaults to repeating scan cycles with [DefaultInterval] delay.
func NewScheduler(scanner *Scanner, options ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		scanner:  scanner,
		repeat:   true,
		interval: DefaultInterval,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithRepeat sets whether to repeat scan cycles or to run only a single one.
func WithRepeat(repeat bool) SchedulerOption {
	return func(s *Scheduler) {
		s.repeat = repeat
	}
}

// WithInterval sets the delay between the end of a scan cycle and the start
// of the next one.
func WithInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.interval = interval
	}
}

// WithCycleObserver registers a function that gets called after each scan
// cycle with the cycle's duration and outcome.
func WithCycleObserver(fn func(d time.Duration, err error)) SchedulerOption {
	return func(s *Scheduler) {
		s.observe = fn
	}
}

// Run scan cycles over the subnet the specified address belongs to, sending
// the cycle events to sink. Run returns after the single cycle if not
// repeating, or otherwise when the context gets cancelled. A cancelled
// context is not an error. If a scan cycle fails because probing doesn't
// work at all, Run returns this error immediately.
//
// Run never closes the sink.
func (s *Scheduler) Run(ctx context.Context, addr, mask types.Addr, sink chan<- types.Event) error {
	log.Infof("watching %s (%d addresses)", subnet.String(addr, mask), subnet.Size(addr, mask))
	for {
		start := time.Now()
		err := s.scanner.RunCycle(ctx, addr, mask, sink)
		if s.observe != nil {
			s.observe(time.Since(start), err)
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		log.Debugf("scan cycle took %s", time.Since(start))
		if !s.repeat {
			return nil
		}
		wecker := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			wecker.Stop()
			return nil
		case <-wecker.C:
		}
	}
}
