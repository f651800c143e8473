/*
Package scan implements scanning IPv4 subnets for reachable hosts in cycles.

A [Scanner] runs a single scan cycle: it probes all usable addresses of a
subnet concurrently and streams the cycle's lifecycle events to a sink
channel.

	                 +---+
	addr, mask ----->| S +-->ch types.Event
	                 +---+

Each cycle consists of exactly one [types.CycleStart] event, followed by a
[types.HostReachable] event for each host found to be reachable (in no
particular order), and finally a single [types.CycleEnd] event. As the
Scanner waits for all probes of a cycle to finish before sending the cycle
end, consumers never see events of a cycle after its end.

A [Scheduler] then drives repeated scan cycles at a fixed interval, strictly
one after another.

[NewEventChannel] returns an unbounded event channel for connecting a
Scanner to its consumer, so that probes never block while sending their
findings.

# Concurrency

By default, a Scanner doesn't limit the number of concurrent probes: all
addresses of a subnet get probed at the same time. This is fine for /24
subnets with up to 254 addresses, but will hurt with larger subnets. Use
[WithWorkers] to limit the number of concurrent probes.

# Acknowledgements

Under its hood, [Scanner] leverages [gammazero/workerpool] for running the
probes and waiting for all of them to finish, and [NewEventChannel] uses a
[gammazero/deque] buffer.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[gammazero/deque]: https://github.com/gammazero/deque
*/
package scan
