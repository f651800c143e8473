// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package monitor

import (
	"fmt"
	"io"
)

// Reporter gets informed about the differences in reachable hosts after each
// completed scan cycle. Report is always called from the same goroutine.
type Reporter interface {
	Report(d Delta)
}

// ReporterFunc adapts an ordinary function to the [Reporter] interface.
type ReporterFunc func(d Delta)

// Report calls f(d).
func (f ReporterFunc) Report(d Delta) { f(d) }

// Reporters returns a Reporter passing on deltas to all the specified
// reporters, in order.
func Reporters(reporters ...Reporter) Reporter {
	return ReporterFunc(func(d Delta) {
		for _, r := range reporters {
			r.Report(d)
		}
	})
}

// LineReporter returns a Reporter that writes three lines per scan cycle to
// the specified writer, followed by an empty line:
//
//	Current Connections: [192.168.100.5, 192.168.100.9]
//	Newly Connected: [192.168.100.9]
//	Disconnected: []
func LineReporter(w io.Writer) Reporter {
	return ReporterFunc(func(d Delta) {
		fmt.Fprintf(w, "Current Connections: %s\nNewly Connected: %s\nDisconnected: %s\n\n",
			d.Current, d.NewlyConnected, d.Disconnected)
	})
}
