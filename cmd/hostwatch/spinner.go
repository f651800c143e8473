// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import (
	"time"
)

// spinner derives its phase from the time passed since it was created, so it
// needs no background ticker of its own.
type spinner struct {
	phases   []string
	interval time.Duration
	start    time.Time
}

// newSpinner returns a new spinner advancing one phase every interval.
func newSpinner(interval time.Duration) *spinner {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r)+" ")
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &spinner{
		phases:   phases,
		interval: interval,
		start:    time.Now(),
	}
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	return s.phases[int(time.Since(s.start)/s.interval)%len(s.phases)]
}
