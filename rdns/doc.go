/*
Package rdns looks up the reverse DNS names of host addresses, using a limited
pool of DNS client connections to the same resolver. hostwatch uses it to show
names alongside reachable addresses.

Usage

	dnsclnt := dns.Client{Net: "udp"}
	pool, err := rdns.New(
	    context.Background(),
	    4,                // number of parallel DNS connections and thus workers
	    &dnsclnt,         // DNS client
	    "127.0.0.1:53",   // address of server/resolver
	)
	pool.ResolveAddr(ctx, addr, func(name string, err error) {
	    // do something with name, unless there's an error reported
	})
	pool.StopWait()

[Names] sits on top of a [Pool] and caches names per address.

# Acknowledgements

Under its hood, [Pool] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package rdns
