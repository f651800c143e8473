// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/siemens/hostwatch/types"

	"github.com/go-ping/ping"
	"golang.org/x/net/icmp"
)

// ICMP probes host addresses by pinging them, either using privileged raw
// ICMP sockets or unprivileged ICMP datagram sockets. A host is reachable if
// at least one of the echo requests gets answered.
type ICMP struct {
	options
	privileged bool // if false, uses UDP-based pings instead of raw ICMP.
}

var _ Prober = (*ICMP)(nil)

// newICMP returns a new ICMP prober, after checking that the required kind
// of ICMP socket can be opened.
func newICMP(o options, privileged bool) (*ICMP, error) {
	p := &ICMP{options: o, privileged: privileged}
	res, err := p.execute(func() interface{} { return p.check() })
	if err != nil {
		return nil, fmt.Errorf("%w: cannot switch network namespace: %s", ErrUnsupported, err)
	}
	if res != nil {
		return nil, res.(error)
	}
	return p, nil
}

// check that the ICMP socket kind required is available.
func (p *ICMP) check() error {
	network := "udp4"
	if p.privileged {
		network = "ip4:icmp"
	}
	conn, err := icmp.ListenPacket(network, "0.0.0.0")
	if err != nil {
		return fmt.Errorf("%w: cannot open %s socket: %s", ErrUnsupported, network, err)
	}
	_ = conn.Close()
	return nil
}

// Probe the specified address by pinging it. Probing is aborted as soon as
// the specified context gets cancelled, with ctx.Err() returned.
func (p *ICMP) Probe(ctx context.Context, addr types.Addr) (bool, error) {
	return p.run(func() verdict { return p.ping(ctx, addr) })
}

// ping does the real work of pinging an address. It must be run on the OS
// thread switched into the configured network namespace.
func (p *ICMP) ping(ctx context.Context, addr types.Addr) verdict {
	// A quick and non-blocking check to see if the context has been
	// cancelled before we start our work...
	select {
	case <-ctx.Done():
		return verdict{err: ctx.Err()}
	default:
	}

	pinger, err := ping.NewPinger(addr.String())
	if err != nil {
		return verdict{err: err}
	}
	pinger.SetNetwork("ip4")
	pinger.SetPrivileged(p.privileged)
	pinger.Count = p.count
	pinger.Interval = p.timeout
	// Always limit waiting for the last ping to get reflected (or not)!
	pinger.Timeout = time.Duration(int64(p.timeout) * int64(p.count+2))
	// While the ping will be running, we need to monitor the context in case
	// it becomes "done". The done channel works "the other way round" in
	// that it terminates the concurrent context monitoring.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()
	if err := pinger.Run(); err != nil {
		return verdict{err: err}
	}
	if err := ctx.Err(); err != nil {
		return verdict{err: err}
	}
	return verdict{reachable: pinger.Statistics().PacketsRecv > 0}
}
