// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"sort"
	"strings"
)

// HostSet is a set of host addresses. A HostSet is built by appending
// addresses in arbitrary order; it becomes an ordered and duplicate-free set
// only after calling Sort. Minus and Contains expect sorted sets.
type HostSet []Addr

// Sort sorts the host set in place in ascending numerical address order and
// drops any duplicates. It returns the (possibly shortened) set.
func (s HostSet) Sort() HostSet {
	if len(s) == 0 {
		return s
	}
	sort.Slice(s, func(a, b int) bool { return s[a] < s[b] })
	uniq := s[:1]
	for _, addr := range s[1:] {
		if addr != uniq[len(uniq)-1] {
			uniq = append(uniq, addr)
		}
	}
	return uniq
}

// Contains returns true if the sorted host set contains the specified
// address.
func (s HostSet) Contains(addr Addr) bool {
	idx := sort.Search(len(s), func(i int) bool { return s[i] >= addr })
	return idx < len(s) && s[idx] == addr
}

// Minus returns the addresses in s that are not in other, in the order of s.
// Both sets must be sorted. The result never aliases s.
func (s HostSet) Minus(other HostSet) HostSet {
	diff := HostSet{}
	for _, addr := range s {
		if !other.Contains(addr) {
			diff = append(diff, addr)
		}
	}
	return diff
}

// Clone returns an independent copy of the host set.
func (s HostSet) Clone() HostSet {
	return append(HostSet{}, s...)
}

// Strings returns the dotted-quad representations of the set's addresses.
func (s HostSet) Strings() []string {
	strs := make([]string, 0, len(s))
	for _, addr := range s {
		strs = append(strs, addr.String())
	}
	return strs
}

// String renders the host set as a bracketed, comma-separated list, such as
// "[192.168.100.5, 192.168.100.9]".
func (s HostSet) String() string {
	return "[" + strings.Join(s.Strings(), ", ") + "]"
}
