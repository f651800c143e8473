// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/siemens/hostwatch/subnet"
	"github.com/siemens/hostwatch/types"

	"github.com/thediveo/lxkns/log"
)

// Fallbacks for absent or malformed positional arguments.
const (
	defaultStart = "192.168.100.1"
	defaultMask  = "255.255.255.0"
)

// target describes what to watch.
type target struct {
	addr     types.Addr
	mask     types.Addr
	repeat   bool
	explicit bool // subnet given on the command line.
}

func (t target) String() string {
	return subnet.String(t.addr, t.mask)
}

// parseTarget returns the target described by the positional arguments
// [starting_ip] [subnet_mask] [repeat_flag]. A malformed address or mask
// falls back to the default with a warning instead of failing; only a repeat
// flag of "0" asks for a single cycle.
func parseTarget(args []string) target {
	t := target{repeat: true}
	t.addr, _ = types.ParseAddr(defaultStart)
	t.mask, _ = types.ParseMask(defaultMask)
	if len(args) > 0 {
		if addr, err := types.ParseAddr(args[0]); err == nil {
			t.addr = addr
			t.explicit = true
		} else {
			log.Warnf("invalid starting IP %q, falling back to %s: %s", args[0], defaultStart, err.Error())
		}
	}
	if len(args) > 1 {
		if mask, err := types.ParseMask(args[1]); err == nil {
			t.mask = mask
			t.explicit = true
		} else {
			log.Warnf("invalid subnet mask %q, falling back to %s: %s", args[1], defaultMask, err.Error())
		}
	}
	if len(args) > 2 && args[2] == "0" {
		t.repeat = false
	}
	return t
}
