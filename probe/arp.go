// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/siemens/hostwatch/types"
)

// arpTablePath is the kernel's ARP table of the network namespace of the
// reading OS thread (as opposed to /proc/net/arp, which is the table of the
// process' network namespace).
var arpTablePath = "/proc/thread-self/net/arp"

// ATF_COM flags a completed ARP table entry.
const arpComplete = 0x2

// discardPort is the port our ARP nudges get sent to.
const discardPort = "9"

// ARP probes host addresses on the local link by sending them a single UDP
// datagram, so that the kernel needs to resolve their hardware addresses,
// and then checking the kernel's ARP table for a complete entry. Hosts with
// all ports firewalled still need to answer ARP requests, so ARP probing
// finds hosts that stay silent on ICMP.
type ARP struct {
	options
}

var _ Prober = (*ARP)(nil)

func newARP(o options) (*ARP, error) {
	if runtime.GOOS != "linux" {
		return nil, fmt.Errorf("%w: ARP probing is not available on %s", ErrUnsupported, runtime.GOOS)
	}
	p := &ARP{options: o}
	res, err := p.execute(func() interface{} {
		_, err := readARPTable()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: cannot switch network namespace: %s", ErrUnsupported, err)
	}
	if res != nil {
		return nil, fmt.Errorf("%w: cannot read ARP table: %s", ErrUnsupported, res.(error))
	}
	return p, nil
}

// Probe the specified address via ARP resolution.
func (p *ARP) Probe(ctx context.Context, addr types.Addr) (bool, error) {
	return p.run(func() verdict { return p.resolve(ctx, addr) })
}

// resolve nudges the kernel into resolving the specified address and then
// watches the ARP table.
func (p *ARP) resolve(ctx context.Context, addr types.Addr) verdict {
	for attempt := 0; attempt < p.count; attempt++ {
		if err := ctx.Err(); err != nil {
			return verdict{err: err}
		}
		nudge(addr, p.timeout)
		wecker := time.NewTimer(p.timeout)
		select {
		case <-ctx.Done():
			wecker.Stop()
			return verdict{err: ctx.Err()}
		case <-wecker.C:
		}
		table, err := readARPTable()
		if err != nil {
			return verdict{err: err}
		}
		if _, ok := table[addr]; ok {
			return verdict{reachable: true}
		}
	}
	return verdict{}
}

// nudge sends a single UDP datagram to the discard port of the specified
// address. Any answer is irrelevant, we're only after the side effect of the
// kernel resolving the address, so failures are ignored.
func nudge(addr types.Addr, timeout time.Duration) {
	conn, err := net.DialTimeout("udp4", net.JoinHostPort(addr.String(), discardPort), timeout)
	if err != nil {
		return
	}
	defer conn.Close()
	_, _ = conn.Write([]byte{0})
}

// readARPTable reads the kernel's ARP table of the current OS thread's
// network namespace.
func readARPTable() (map[types.Addr]net.HardwareAddr, error) {
	data, err := os.ReadFile(arpTablePath)
	if err != nil {
		return nil, err
	}
	return parseARPTable(bytes.NewReader(data))
}

// parseARPTable parses the textual ARP table format of /proc/net/arp,
// returning only complete entries:
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.100.5    0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
func parseARPTable(r io.Reader) (map[types.Addr]net.HardwareAddr, error) {
	table := map[types.Addr]net.HardwareAddr{}
	scanner := bufio.NewScanner(r)
	// Skip header line
	if !scanner.Scan() {
		return table, scanner.Err()
	}
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		addr, err := types.ParseAddr(fields[0])
		if err != nil {
			continue
		}
		flags, err := strconv.ParseUint(fields[2], 0, 32)
		if err != nil || flags&arpComplete == 0 {
			continue
		}
		mac, err := net.ParseMAC(fields[3])
		if err != nil || bytes.Equal(mac, make(net.HardwareAddr, len(mac))) {
			continue
		}
		table[addr] = mac
	}
	return table, scanner.Err()
}
