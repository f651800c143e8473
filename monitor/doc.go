/*
Package monitor turns a stream of scan cycle events into reports about hosts
coming and going.

A [Monitor] is the single consumer of a scanner's cycle events. It collects
the reachable hosts of the cycle in progress and, when the cycle ends,
compares them with the hosts of the previous cycle. The resulting [Delta]
then gets passed to a [Reporter].

	            +---+
	ch Event -->| M +--> Reporter
	            +---+

Since the reachable hosts are sorted before diffing, it doesn't matter in
which order the reachable hosts of a cycle arrive.
*/
package monitor
