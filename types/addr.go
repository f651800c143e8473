// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"net/netip"
)

// Addr is an IPv4 address in host byte order. Addrs are plain values and
// thus can be freely passed around and compared.
type Addr uint32

// ParseAddr parses an IPv4 address in dotted-quad notation. IPv6 addresses,
// including IPv4-mapped IPv6 addresses, are rejected.
func ParseAddr(s string) (Addr, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return 0, err
	}
	if !ip.Is4() {
		return 0, fmt.Errorf("not an IPv4 address: %q", s)
	}
	return AddrFromNetip(ip), nil
}

// ParseMask parses a subnet mask in dotted-quad notation, such as
// "255.255.255.0". The mask bits are not checked for being contiguous.
func ParseMask(s string) (Addr, error) {
	mask, err := ParseAddr(s)
	if err != nil {
		return 0, fmt.Errorf("invalid subnet mask: %w", err)
	}
	return mask, nil
}

// Mask returns the contiguous subnet mask with the specified number of
// leading one bits. Prefix lengths outside 0..32 are clamped.
func Mask(bits int) Addr {
	switch {
	case bits <= 0:
		return 0
	case bits >= 32:
		return ^Addr(0)
	}
	return ^Addr(0) << (32 - bits)
}

// AddrFromNetip returns the Addr for the specified IPv4 netip.Addr. The
// result is undefined for IPv6 addresses.
func AddrFromNetip(ip netip.Addr) Addr {
	b := ip.As4()
	return Addr(b[0])<<24 | Addr(b[1])<<16 | Addr(b[2])<<8 | Addr(b[3])
}

// Netip returns the address as a netip.Addr.
func (a Addr) Netip() netip.Addr {
	return netip.AddrFrom4([4]byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)})
}

// String returns the address in dotted-quad notation.
func (a Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(a>>24), byte(a>>16), byte(a>>8), byte(a))
}

// Ones returns the number of leading one bits if the Addr is a contiguous
// subnet mask, otherwise -1.
func (a Addr) Ones() int {
	ones := 0
	for m := a; m&(1<<31) != 0; m <<= 1 {
		ones++
	}
	if Mask(ones) != a {
		return -1
	}
	return ones
}
