// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	connectedHostStyle    = termenv.Style{}.Foreground(termenv.ANSIGreen)
	newlyConnectedStyle   = termenv.Style{}.Foreground(termenv.ANSIBrightGreen).Bold()
	disconnectedHostStyle = termenv.Style{}.Foreground(termenv.ANSIRed)
)

var subnetStyle = termenv.Style{}.Bold()
