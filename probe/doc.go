/*
Package probe implements the host reachability tests used when scanning a
subnet. All probing mechanisms satisfy the [Prober] interface and are
selected once at startup using [New]:

  - [ICMPKind]: ICMP echo requests on raw sockets, needs CAP_NET_RAW.
  - [UDPKind]: ICMP echo requests on unprivileged datagram sockets, see
    net.ipv4.ping_group_range.
  - [TCPKind]: TCP handshakes to a small set of ports; refused connections
    count as reachable.
  - [ARPKind]: ARP resolution on the local link (Linux only).

A host counts as reachable as soon as a single one of the configured number
of attempts succeeds, to tolerate packet loss. Probers that cannot work at
all on a system are rejected by New with an error wrapping [ErrUnsupported],
so that unusable mechanisms are detected before scanning starts instead of
failing for every single host later.

Probers can optionally operate in a network namespace different to that of
the caller's OS-level thread, using [InNetworkNamespace].

# Acknowledgements

ICMP probing leverages [go-ping/ping].

[go-ping/ping]: https://github.com/go-ping/ping
*/
package probe
