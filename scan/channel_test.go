// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"time"

	"github.com/siemens/hostwatch/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("event channel", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(2 * time.Second).WithPolling(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("never blocks senders and keeps the order", func() {
		const num = 10000
		in, out := NewEventChannel()
		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			for i := 0; i < num; i++ {
				in <- types.ReachableEvent(types.Addr(i))
			}
			close(done)
		}()
		// nobody is receiving yet, yet the sender gets rid of all events.
		Eventually(done).WithTimeout(5 * time.Second).Should(BeClosed())
		close(in)
		for i := 0; i < num; i++ {
			ev, ok := <-out
			Expect(ok).To(BeTrue())
			Expect(ev.Addr).To(Equal(types.Addr(i)))
		}
		Eventually(out).Should(BeClosed())
	})

	It("closes after draining", func() {
		in, out := NewEventChannel()
		in <- types.StartEvent()
		in <- types.EndEvent(nil)
		close(in)
		Eventually(out).Should(Receive(HaveField("Kind", types.CycleStart)))
		Eventually(out).Should(Receive(HaveField("Kind", types.CycleEnd)))
		Eventually(out).Should(BeClosed())
	})

	It("closes when empty", func() {
		in, out := NewEventChannel()
		close(in)
		Eventually(out).Should(BeClosed())
	})

})
