/*
Package types defines hostwatch's information model. Which is rather simple and
revolves around IPv4 host addresses ([Addr]), sets of reachable hosts
([HostSet]), and the scan cycle lifecycle [Event] stream flowing from a scanner
to a monitor.

# Addresses

An [Addr] is a 32 bit IPv4 value in host byte order, so subnet arithmetic
boils down to plain integer operations. Being a value type, addresses can be
sent over channels and used as map keys without further ado.

# Host Sets

A [HostSet] gets built incrementally during a scan cycle, in whatever order
probe verdicts happen to arrive. Only after [HostSet.Sort] the set is ordered
and duplicate-free and can then be diffed against another sorted set using
[HostSet.Minus].

# Cycle Events

Each scan cycle produces exactly one [CycleStart], zero or more
[HostReachable], and finally exactly one [CycleEnd] event. A CycleEnd is only
ever sent after all probes of its cycle have finished, so consumers never
see a partial cycle. An aborted cycle still ends with a CycleEnd event, but
with its Err field set.
*/
package types
