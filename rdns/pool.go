// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package rdns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/siemens/hostwatch/types"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrNoName signals that the resolver knows of no name for an address.
var ErrNoName = errors.New("no name for address")

// Pool is a size-limited pool of DNS client connections, all talking to the
// same DNS resolver.
type Pool struct {
	netns   relations.Relation // network namespace to dial from, or nil.
	client  *dns.Client
	workers *workerpool.WorkerPool
	mu      sync.Mutex // protects the free connections.
	free    []*dns.Conn
}

// Option can be passed to New when creating new [Pool] objects.
type Option func(*Pool)

// New returns a pool of size DNS client connections talking to the resolver
// at addr, such as "127.0.0.1:53".
//
// The passed context is used for dialing the connections only. Tasks
// submitted later need to bring their own context.
func New(ctx context.Context, size int, client *dns.Client, addr string, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("DNS pool size must be at least 1, got: %d", size)
	}
	pool := &Pool{
		client: client,
	}
	for _, opt := range opts {
		opt(pool)
	}
	free := make([]*dns.Conn, 0, size)
	dial := func() interface{} {
		for i := 0; i < size; i++ {
			conn, err := client.DialContext(ctx, addr)
			if err != nil {
				for _, conn := range free {
					conn.Close()
				}
				return err
			}
			free = append(free, conn)
		}
		return nil
	}
	var err error
	var dialerr interface{}
	if pool.netns != nil {
		dialerr, err = ops.Execute(dial, pool.netns)
	} else {
		dialerr = dial()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot switch network namespace: %w", err)
	}
	if dialerr != nil {
		return nil, fmt.Errorf("cannot dial DNS resolver %s: %w", addr, dialerr.(error))
	}
	pool.free = free
	pool.workers = workerpool.New(size)
	return pool, nil
}

// InNetworkNamespace dials the DNS client connections of a Pool inside the
// network namespace referenced by the specified filesystem path. Once dialed,
// the connections stay attached to that namespace.
func InNetworkNamespace(netnsref string) Option {
	return func(p *Pool) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// Submit a task to the pool, where it gets enqueued to be executed on the next
// free DNS client connection.
func (p *Pool) Submit(task func(conn *dns.Conn)) {
	p.workers.Submit(func() { p.task(task) })
}

// ResolveAddr submits a PTR query for the specified address and passes the
// first name found, without its trailing dot, or an error to fn. fn is called
// exactly once, from a pool worker.
//
// Cancelling ctx fails all queued lookups with the context's error.
func (p *Pool) ResolveAddr(ctx context.Context, addr types.Addr, fn func(name string, err error)) {
	p.Submit(func(conn *dns.Conn) {
		var name string
		var err error
		defer func() { fn(name, err) }()

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var arpa string
		arpa, err = dns.ReverseAddr(addr.String())
		if err != nil {
			return
		}
		msg := dns.Msg{
			MsgHdr: dns.MsgHdr{Id: dns.Id()},
		}
		msg.SetQuestion(arpa, dns.TypePTR)
		var r *dns.Msg
		r, _, err = p.client.ExchangeWithConn(&msg, conn)
		if err != nil {
			return
		}
		if r.Rcode != dns.RcodeSuccess {
			err = fmt.Errorf("%w %s: %s", ErrNoName, addr, dns.RcodeToString[r.Rcode])
			return
		}
		for _, rr := range r.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				name = strings.TrimSuffix(ptr.Ptr, ".")
				return
			}
		}
		err = fmt.Errorf("%w %s", ErrNoName, addr)
	})
}

// task grabs the next free DNS client connection and passes it to the
// specified function. Afterwards, the connection goes back into the free list.
func (p *Pool) task(task func(conn *dns.Conn)) {
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		panic("no free DNS client connection available")
	}
	last := len(p.free) - 1
	conn := p.free[last]
	p.free = p.free[:last]
	p.mu.Unlock()

	task(conn)

	p.mu.Lock()
	p.free = append(p.free, conn)
	p.mu.Unlock()
}

// StopWait waits for all enqueued tasks to finish and then closes the DNS
// client connections.
func (p *Pool) StopWait() {
	p.workers.StopWait()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range p.free {
		conn.Close()
	}
	p.free = nil
}
