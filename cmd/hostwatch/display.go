// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/siemens/hostwatch/monitor"
	"github.com/siemens/hostwatch/rdns"
	"github.com/siemens/hostwatch/types"
)

// renderer renders the live terminal display of the most recent cycle delta.
type renderer struct {
	Indentation int
	target      target
	kind        string
	names       *rdns.Names // optional reverse names, or nil.
	spinner     *spinner
}

// newRenderer returns a renderer for the specified target and probe kind,
// optionally showing reverse names.
func newRenderer(tgt target, kind string, names *rdns.Names, spinnerInterval time.Duration) *renderer {
	return &renderer{
		Indentation: 3,
		target:      tgt,
		kind:        kind,
		names:       names,
		spinner:     newSpinner(spinnerInterval),
	}
}

// Render the specified delta; a nil delta tells that no cycle has completed
// so far.
func (r *renderer) Render(w io.Writer, d *monitor.Delta) {
	fmt.Fprintf(w, "watching %s using %s probes %s\n",
		subnetStyle.Styled(r.target.String()), r.kind, r.spinner.Spinner())
	if d == nil {
		fmt.Fprint(w, "scanning...\n")
		return
	}
	fmt.Fprintf(w, "cycle %d: %d reachable, %d newly connected, %d disconnected\n",
		d.Cycle, len(d.Current), len(d.NewlyConnected), len(d.Disconnected))
	// Show the disconnected hosts interleaved with the reachable ones, so
	// hosts don't jump around when coming and going.
	hosts := append(d.Current.Clone(), d.Disconnected...)
	sort.Slice(hosts, func(a, b int) bool { return hosts[a] < hosts[b] })
	for _, host := range hosts {
		r.renderHost(w, host, d)
	}
}

// renderHost renders a single host line with its state and name, if known.
func (r *renderer) renderHost(w io.Writer, host types.Addr, d *monitor.Delta) {
	fmt.Fprintf(w, "%-*s", r.Indentation, "")
	switch {
	case d.NewlyConnected.Contains(host):
		fmt.Fprint(w, newlyConnectedStyle.Styled(fmt.Sprintf("+ %-15s", host)))
	case d.Disconnected.Contains(host):
		fmt.Fprint(w, disconnectedHostStyle.Styled(fmt.Sprintf("× %-15s", host)))
	default:
		fmt.Fprint(w, connectedHostStyle.Styled(fmt.Sprintf("✔ %-15s", host)))
	}
	if r.names != nil {
		if name, ok := r.names.Lookup(host); ok {
			fmt.Fprintf(w, " %s", name)
		}
	}
	fmt.Fprintln(w)
}

// flushWriter buffers what gets written to it until flushed, such as
// uilive's Writer.
type flushWriter interface {
	io.Writer
	Flush() error
}

// liveReporter is a monitor.Reporter rendering the most recent delta in
// place. It re-renders periodically, as to animate the spinner and pick up
// reverse names trickling in.
//
// uilive's own background updating using Start() may trigger at any time,
// even with the rendering into its buffer not yet complete, so liveReporter
// explicitly flushes after each complete rendering instead.
type liveReporter struct {
	term    flushWriter
	r       *renderer
	mu      sync.Mutex // protects delta and serializes rendering.
	delta   *monitor.Delta
	done    chan struct{}
	stopped chan struct{}
}

// newLiveReporter returns a new live reporter, rendering at least every
// interval until stopped.
func newLiveReporter(term flushWriter, r *renderer, interval time.Duration) *liveReporter {
	l := &liveReporter{
		term:    term,
		r:       r,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	l.render()
	go func() {
		defer close(l.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.render()
			case <-l.done:
				return
			}
		}
	}()
	return l
}

// Report the delta of a completed cycle.
func (l *liveReporter) Report(d monitor.Delta) {
	l.mu.Lock()
	l.delta = &d
	l.mu.Unlock()
	l.render()
}

// Stop the periodic rendering after a final rendering.
func (l *liveReporter) Stop() {
	close(l.done)
	<-l.stopped
	l.render()
}

func (l *liveReporter) render() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Render(l.term, l.delta)
	_ = l.term.Flush()
}
