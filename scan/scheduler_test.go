// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/siemens/hostwatch/probe"
	"github.com/siemens/hostwatch/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

// drain receives all events until the channel gets closed, counting the
// cycle starts and ends, and failing on overlapping cycles.
func drain(out <-chan types.Event, starts, ends *atomic.Int64) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer GinkgoRecover()
		defer close(done)
		inCycle := false
		for ev := range out {
			switch ev.Kind {
			case types.CycleStart:
				Expect(inCycle).To(BeFalse(), "overlapping cycles")
				inCycle = true
				starts.Add(1)
			case types.HostReachable:
				Expect(inCycle).To(BeTrue(), "reachable host outside cycle")
			case types.CycleEnd:
				Expect(inCycle).To(BeTrue(), "cycle end outside cycle")
				inCycle = false
				ends.Add(1)
			}
		}
	}()
	return done
}

var _ = Describe("scheduler", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(2 * time.Second).WithPolling(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("runs a single cycle", func(ctx context.Context) {
		var starts, ends atomic.Int64
		in, out := NewEventChannel()
		done := drain(out, &starts, &ends)

		var cycles atomic.Int64
		sched := NewScheduler(New(reachableProber(0, "10.0.0.1")),
			WithRepeat(false),
			WithInterval(time.Hour),
			WithCycleObserver(func(_ time.Duration, err error) {
				defer GinkgoRecover()
				Expect(err).NotTo(HaveOccurred())
				cycles.Add(1)
			}))
		Expect(sched.Run(ctx, addr("10.0.0.0"), addr("255.255.255.0"), in)).To(Succeed())
		close(in)
		Eventually(done).Should(BeClosed())
		Expect(starts.Load()).To(Equal(int64(1)))
		Expect(ends.Load()).To(Equal(int64(1)))
		Expect(cycles.Load()).To(Equal(int64(1)))
	})

	It("repeats non-overlapping cycles until cancelled", NodeTimeout(10*time.Second), func(ctx context.Context) {
		var starts, ends atomic.Int64
		in, out := NewEventChannel()
		done := drain(out, &starts, &ends)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		sched := NewScheduler(New(reachableProber(20*time.Millisecond, "10.0.0.1", "10.0.0.2")),
			WithInterval(10*time.Millisecond))
		schedDone := make(chan error)
		go func() {
			schedDone <- sched.Run(ctx, addr("10.0.0.0"), addr("255.255.255.248"), in)
		}()
		Eventually(starts.Load).Should(BeNumerically(">=", 3))
		cancel()
		Eventually(schedDone).Should(Receive(BeNil()))
		close(in)
		Eventually(done).Should(BeClosed())
		Expect(starts.Load()).To(Equal(ends.Load()))
	})

	It("stops on broken probing", func(ctx context.Context) {
		var starts, ends atomic.Int64
		in, out := NewEventChannel()
		done := drain(out, &starts, &ends)

		sched := NewScheduler(New(probe.ProberFunc(func(context.Context, types.Addr) (bool, error) {
			return false, errors.New("D'OH!")
		})), WithInterval(time.Millisecond))
		Expect(sched.Run(ctx, addr("10.0.0.0"), addr("255.255.255.248"), in)).To(
			MatchError(ErrProbeUnavailable))
		close(in)
		Eventually(done).Should(BeClosed())
		Expect(starts.Load()).To(Equal(int64(1)))
	})

	It("stops after the current cycle when cancelled", NodeTimeout(5*time.Second), func(ctx context.Context) {
		var starts, ends atomic.Int64
		in, out := NewEventChannel()
		done := drain(out, &starts, &ends)

		ctx, cancel := context.WithCancel(ctx)
		sched := NewScheduler(New(reachableProber(0)),
			WithInterval(time.Hour),
			WithCycleObserver(func(time.Duration, error) { cancel() }))
		Expect(sched.Run(ctx, addr("10.0.0.0"), addr("255.255.255.248"), in)).To(Succeed())
		close(in)
		Eventually(done).Should(BeClosed())
		Expect(starts.Load()).To(Equal(int64(1)))
	})

})
