// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func hosts(addrs ...string) HostSet {
	s := HostSet{}
	for _, addr := range addrs {
		a, err := ParseAddr(addr)
		Expect(err).NotTo(HaveOccurred())
		s = append(s, a)
	}
	return s
}

var _ = Describe("host sets", func() {

	It("sorts and deduplicates", func() {
		s := hosts("10.0.0.9", "10.0.0.1", "10.0.0.200", "10.0.0.9").Sort()
		Expect(s.Strings()).To(Equal([]string{"10.0.0.1", "10.0.0.9", "10.0.0.200"}))
		Expect(HostSet{}.Sort()).To(BeEmpty())
	})

	It("sorts numerically, not lexicographically", func() {
		s := hosts("192.168.100.10", "192.168.100.9", "192.168.100.100").Sort()
		Expect(s.String()).To(Equal("[192.168.100.9, 192.168.100.10, 192.168.100.100]"))
	})

	It("diffs sets", func() {
		previous := hosts("10.0.0.1", "10.0.0.2", "10.0.0.3").Sort()
		current := hosts("10.0.0.4", "10.0.0.3", "10.0.0.2").Sort()
		Expect(previous.Minus(current)).To(Equal(hosts("10.0.0.1")))
		Expect(current.Minus(previous)).To(Equal(hosts("10.0.0.4")))
		Expect(current.Minus(current)).To(BeEmpty())
		Expect(HostSet(nil).Minus(current)).NotTo(BeNil())
	})

	It("checks containment", func() {
		s := hosts("10.0.0.1", "10.0.0.3").Sort()
		Expect(s.Contains(hosts("10.0.0.3")[0])).To(BeTrue())
		Expect(s.Contains(hosts("10.0.0.2")[0])).To(BeFalse())
		Expect(HostSet(nil).Contains(0)).To(BeFalse())
	})

	It("clones", func() {
		s := hosts("10.0.0.1")
		c := s.Clone()
		c[0] = 42
		Expect(s[0]).NotTo(Equal(Addr(42)))
	})

	It("renders empty sets", func() {
		Expect(HostSet{}.String()).To(Equal("[]"))
	})

})

var _ = Describe("cycle events and verdicts", func() {

	It("renders events", func() {
		Expect(StartEvent().String()).To(Equal("cycle-start"))
		Expect(ReachableEvent(hosts("10.0.0.1")[0]).String()).To(Equal("host-reachable 10.0.0.1"))
		Expect(EndEvent(nil).String()).To(Equal("cycle-end"))
		Expect(EndEvent(errors.New("D'OH!")).String()).To(ContainSubstring("aborted: D'OH!"))
		Expect(EventKind(42).String()).To(Equal("EventKind(42)"))
	})

	It("derives verdicts", func() {
		Expect(VerdictOf(true, nil)).To(Equal(Reachable))
		Expect(VerdictOf(false, nil)).To(Equal(Unreachable))
		Expect(VerdictOf(true, errors.New("D'OH!"))).To(Equal(Indeterminate))
		Expect(Indeterminate.String()).To(Equal("indeterminate"))
		Expect(Verdict(42).String()).To(Equal("Verdict(42)"))
	})

})
