// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siemens/hostwatch/types"

	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrUnsupported signals that a probing mechanism cannot be used at all on
// this system, such as when lacking the privileges to open ICMP sockets.
var ErrUnsupported = errors.New("probe mechanism unsupported")

// Prober tests the reachability of single host addresses. Probe blocks for at
// most the prober's probe budget, that is, its number of attempts times the
// per-attempt timeout plus some mechanism-specific overhead.
//
// A non-nil error tells that the host could not be probed; callers are
// expected to treat such hosts as unreachable.
type Prober interface {
	Probe(ctx context.Context, addr types.Addr) (reachable bool, err error)
}

// ProberFunc adapts an ordinary function to the [Prober] interface.
type ProberFunc func(ctx context.Context, addr types.Addr) (bool, error)

// Probe calls f(ctx, addr).
func (f ProberFunc) Probe(ctx context.Context, addr types.Addr) (bool, error) {
	return f(ctx, addr)
}

// Kind names a probing mechanism.
type Kind string

// The supported probing mechanisms.
const (
	ICMPKind Kind = "icmp" // privileged ICMP echo requests.
	UDPKind  Kind = "udp"  // unprivileged ICMP echo requests via datagram sockets.
	TCPKind  Kind = "tcp"  // TCP handshakes.
	ARPKind  Kind = "arp"  // ARP resolution, Linux only.
)

// Kinds returns the names of all supported probing mechanisms.
func Kinds() []Kind {
	return []Kind{ICMPKind, UDPKind, TCPKind, ARPKind}
}

// Defaults of all probing mechanisms.
const (
	DefaultCount   = 4
	DefaultTimeout = 50 * time.Millisecond
)

// DefaultPorts are the TCP ports a TCP prober tries by default.
var DefaultPorts = []uint16{22, 80, 443, 445}

// options common to all probing mechanisms.
type options struct {
	count   int                // number of probe attempts.
	timeout time.Duration      // per-attempt timeout.
	ports   []uint16           // TCP ports.
	netns   relations.Relation // network namespace to probe from, or nil.
}

// Option can be passed to New when creating new Probers.
type Option func(*options)

// WithCount sets the number of attempts for testing reachability of a host
// address. A host counts as reachable as soon as a single attempt succeeds.
func WithCount(count uint) Option {
	return func(o *options) {
		o.count = int(count)
	}
}

// WithTimeout sets the timeout of an individual probe attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithPorts sets the ports a TCP prober tries to connect to.
func WithPorts(ports ...uint16) Option {
	return func(o *options) {
		o.ports = append([]uint16{}, ports...)
	}
}

// InNetworkNamespace optionally runs a Prober inside the network namespace
// referenced by the specified filesystem path, such as "/proc/666/ns/net".
// An empty reference leaves the prober in the caller's network namespace.
func InNetworkNamespace(netnsref string) Option {
	return func(o *options) {
		if netnsref == "" {
			o.netns = nil
			return
		}
		o.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// New returns a new Prober of the specified kind, after checking that the
// probing mechanism is usable at all. Otherwise, it returns an error wrapping
// [ErrUnsupported].
func New(kind Kind, opts ...Option) (Prober, error) {
	o := options{
		count:   DefaultCount,
		timeout: DefaultTimeout,
		ports:   DefaultPorts,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.count < 1 {
		return nil, fmt.Errorf("probe count must be at least 1, got: %d", o.count)
	}
	if o.timeout <= 0 {
		return nil, fmt.Errorf("probe timeout must be positive, got: %s", o.timeout)
	}
	switch kind {
	case ICMPKind:
		return newICMP(o, true)
	case UDPKind:
		return newICMP(o, false)
	case TCPKind:
		return newTCP(o)
	case ARPKind:
		return newARP(o)
	}
	return nil, fmt.Errorf("%w: unknown probe kind %q", ErrUnsupported, kind)
}

// execute runs fn in the configured network namespace, if any, otherwise
// directly. lxkns' ops.Execute differentiates between namespace switching
// errors and the result of the function called in the switched namespace, so
// the function's result is passed through untouched.
func (o *options) execute(fn func() interface{}) (interface{}, error) {
	if o.netns == nil {
		return fn(), nil
	}
	return ops.Execute(fn, o.netns)
}

// verdict is passed back from functions executed in a (different) network
// namespace.
type verdict struct {
	reachable bool
	err       error
}

// run executes fn in the configured network namespace and unpacks its
// verdict.
func (o *options) run(fn func() verdict) (bool, error) {
	res, err := o.execute(func() interface{} { return fn() })
	if err != nil {
		return false, fmt.Errorf("cannot switch network namespace: %w", err)
	}
	v := res.(verdict)
	return v.reachable, v.err
}
