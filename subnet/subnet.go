// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package subnet

import (
	"fmt"

	"github.com/siemens/hostwatch/types"
)

// Network returns the network address of the subnet the specified address
// belongs to, that is, the address with all host bits cleared.
func Network(addr, mask types.Addr) types.Addr {
	return addr & mask
}

// Broadcast returns the broadcast address of the subnet the specified address
// belongs to, that is, the network address with all host bits set.
func Broadcast(addr, mask types.Addr) types.Addr {
	return addr&mask | ^mask
}

// bounds returns the first and last usable host address as 64 bit values, so
// that callers can check for an empty range without wrapping around.
func bounds(addr, mask types.Addr) (first, last int64) {
	return int64(Network(addr, mask)) + 1, int64(Broadcast(addr, mask)) - 1
}

// Size returns the number of usable host addresses in the subnet the
// specified address belongs to, excluding the network and broadcast
// addresses. Size is zero for /31 and /32 masks.
func Size(addr, mask types.Addr) int {
	first, last := bounds(addr, mask)
	if first > last {
		return 0
	}
	return int(last - first + 1)
}

// Enumerate returns the usable host addresses of the subnet the specified
// address belongs to, in ascending order. The network and broadcast
// addresses are excluded, so the result is empty for /31 and /32 masks.
//
// The mask is expected to be a contiguous subnet mask; non-contiguous masks
// are not rejected but simply applied bitwise.
func Enumerate(addr, mask types.Addr) []types.Addr {
	first, last := bounds(addr, mask)
	if first > last {
		return nil
	}
	addrs := make([]types.Addr, 0, last-first+1)
	for a := first; a <= last; a++ {
		addrs = append(addrs, types.Addr(a))
	}
	return addrs
}

// String renders the subnet the specified address belongs to in CIDR
// notation if the mask is contiguous, otherwise as "network/mask".
func String(addr, mask types.Addr) string {
	if ones := mask.Ones(); ones >= 0 {
		return fmt.Sprintf("%s/%d", Network(addr, mask), ones)
	}
	return fmt.Sprintf("%s/%s", Network(addr, mask), mask)
}
