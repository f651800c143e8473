// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package rdns

import (
	"context"
	"sync"

	"github.com/siemens/hostwatch/types"

	"github.com/thediveo/lxkns/log"
)

// Names caches the reverse names of host addresses, so that each address gets
// looked up only once, however often it is asked for.
type Names struct {
	ctx     context.Context
	pool    *Pool
	updated func(types.Addr)
	mu      sync.Mutex
	m       map[types.Addr]entry
}

type entry struct {
	name    string
	pending bool // lookup still in flight.
}

// NewNames returns a new name cache resolving addresses via the specified
// pool. updated, if non-nil, gets called from a pool worker whenever a lookup
// has finished with a name.
func NewNames(ctx context.Context, pool *Pool, updated func(types.Addr)) *Names {
	return &Names{
		ctx:     ctx,
		pool:    pool,
		updated: updated,
		m:       map[types.Addr]entry{},
	}
}

// Lookup returns the name of addr if already known. Otherwise, it returns
// false and starts a lookup, unless there is one already in flight or an
// earlier lookup came back empty-handed.
func (n *Names) Lookup(addr types.Addr) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := n.m[addr]; ok {
		return e.name, e.name != ""
	}
	n.m[addr] = entry{pending: true}
	n.pool.ResolveAddr(n.ctx, addr, func(name string, err error) {
		if err != nil {
			log.Debugf("no reverse name for %s: %s", addr, err.Error())
		}
		n.mu.Lock()
		n.m[addr] = entry{name: name}
		n.mu.Unlock()
		if name != "" && n.updated != nil {
			n.updated(addr)
		}
	})
	return "", false
}

// Pending returns the number of lookups still in flight.
func (n *Names) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.m {
		if e.pending {
			count++
		}
	}
	return count
}
