// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"

	"github.com/siemens/hostwatch/types"
)

// TCP probes host addresses by trying to connect to a set of TCP ports. A
// host is reachable if it either accepts a connection or actively refuses
// it: both need a live host on the other end.
//
// The ports are tried one after another, as the connections need to be
// dialled on the OS thread switched into the network namespace to probe
// from. The probe budget thus is attempts times ports times timeout.
type TCP struct {
	options
}

var _ Prober = (*TCP)(nil)

func newTCP(o options) (*TCP, error) {
	if len(o.ports) == 0 {
		return nil, errors.New("TCP probing needs at least one port")
	}
	return &TCP{options: o}, nil
}

// Probe the specified address by connecting to the configured TCP ports.
func (p *TCP) Probe(ctx context.Context, addr types.Addr) (bool, error) {
	return p.run(func() verdict { return p.dial(ctx, addr) })
}

// dial the configured ports until one of them tells us that there is a host
// out there. An error is only reported if no attempt came to a conclusion
// at all, but instead failed locally.
func (p *TCP) dial(ctx context.Context, addr types.Addr) verdict {
	dialer := net.Dialer{Timeout: p.timeout}
	var lasterr error
	concluded := false
	for attempt := 0; attempt < p.count; attempt++ {
		for _, port := range p.ports {
			if err := ctx.Err(); err != nil {
				return verdict{err: err}
			}
			conn, err := dialer.DialContext(ctx, "tcp4",
				net.JoinHostPort(addr.String(), strconv.Itoa(int(port))))
			if err == nil {
				_ = conn.Close()
				return verdict{reachable: true}
			}
			switch {
			case errors.Is(err, syscall.ECONNREFUSED):
				return verdict{reachable: true}
			case isSilence(err):
				concluded = true
			default:
				lasterr = err
			}
		}
	}
	if !concluded && lasterr != nil {
		return verdict{err: lasterr}
	}
	return verdict{}
}

// isSilence returns true if err tells that there was no (positive) answer
// from the remote end, as opposed to failing locally.
func isSilence(err error) bool {
	var neterr net.Error
	if errors.As(err, &neterr) && neterr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.EHOSTDOWN) ||
		errors.Is(err, syscall.ENETUNREACH)
}
