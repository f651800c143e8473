// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"time"

	"github.com/siemens/hostwatch/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

func addr(s string) types.Addr {
	return Successful(types.ParseAddr(s))
}

var _ = Describe("hostwatch command", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	Context("positional arguments", func() {

		It("defaults to the well-known subnet and repeats", func() {
			t := parseTarget(nil)
			Expect(t.addr).To(Equal(addr("192.168.100.1")))
			Expect(t.mask).To(Equal(types.Mask(24)))
			Expect(t.repeat).To(BeTrue())
			Expect(t.explicit).To(BeFalse())
			Expect(t.String()).To(Equal("192.168.100.0/24"))
		})

		It("takes address, mask and repeat flag", func() {
			t := parseTarget([]string{"10.1.2.3", "255.255.0.0", "0"})
			Expect(t.addr).To(Equal(addr("10.1.2.3")))
			Expect(t.mask).To(Equal(types.Mask(16)))
			Expect(t.repeat).To(BeFalse())
			Expect(t.explicit).To(BeTrue())
		})

		It("repeats unless told \"0\"", func() {
			Expect(parseTarget([]string{"10.1.2.3", "255.255.0.0", "1"}).repeat).To(BeTrue())
			Expect(parseTarget([]string{"10.1.2.3", "255.255.0.0", "no"}).repeat).To(BeTrue())
		})

		It("falls back on malformed address and mask", func() {
			t := parseTarget([]string{"10.1.2", "255.255.x.0", "0"})
			Expect(t.addr).To(Equal(addr("192.168.100.1")))
			Expect(t.mask).To(Equal(types.Mask(24)))
			Expect(t.repeat).To(BeFalse())
			Expect(t.explicit).To(BeFalse())

			t = parseTarget([]string{"::1"})
			Expect(t.addr).To(Equal(addr("192.168.100.1")))
		})

	})

	DescribeTable("rejecting invalid flags",
		func(args ...string) {
			cmd := newRootCmd()
			cmd.SetArgs(args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			Expect(cmd.Execute()).To(HaveOccurred())
		},
		Entry("zero count", "--count", "0"),
		Entry("too many attempts", "--count", "101"),
		Entry("tiny timeout", "--timeout", "10us"),
		Entry("negative interval", "--interval", "-1s"),
		Entry("unknown probe", "--probe", "carrier-pigeon"),
		Entry("bad port", "--ports", "0"),
		Entry("huge port", "--ports", "65536"),
		Entry("netns with container", "--netns", "/proc/1/ns/net", "--container", "foo"),
		Entry("network without container", "--network", "net_A"),
		Entry("resolver without live", "--resolver", "127.0.0.53"),
		Entry("too fast spinner", "--spinner", "1ms"),
		Entry("too many args", "10.0.0.1", "255.0.0.0", "0", "extra"),
	)

	It("exits with non-zero code on errors", func() {
		oldArgs := os.Args
		oldExit := osExit
		defer func() {
			os.Args = oldArgs
			osExit = oldExit
		}()
		os.Args = []string{"hostwatch", "--count", "0"}
		exitCode := -1
		osExit = func(code int) { exitCode = code }
		main()
		Expect(exitCode).To(Equal(1))
	})

	It("scans a subnet once and reports", NodeTimeout(30*time.Second), func(ctx context.Context) {
		var out bytes.Buffer
		oldStdout := stdout
		stdout = &out
		defer func() { stdout = oldStdout }()

		// Every loopback address answers TCP connection attempts to a closed
		// port with a reset, so both hosts of this /30 count as reachable.
		cmd := newRootCmd()
		cmd.SetArgs([]string{
			"--probe", "tcp", "--ports", "9", "--count", "1", "--timeout", "500ms",
			"127.0.0.1", "255.255.255.252", "0",
		})
		Expect(cmd.ExecuteContext(ctx)).To(Succeed())
		Expect(out.String()).To(Equal(
			"Current Connections: [127.0.0.1, 127.0.0.2]\n" +
				"Newly Connected: [127.0.0.1, 127.0.0.2]\n" +
				"Disconnected: []\n\n"))
	})

	It("reports the empty host set of a /32", NodeTimeout(30*time.Second), func(ctx context.Context) {
		var out bytes.Buffer
		oldStdout := stdout
		stdout = &out
		defer func() { stdout = oldStdout }()

		cmd := newRootCmd()
		cmd.SetArgs([]string{"--probe", "tcp", "10.0.0.1", "255.255.255.255", "0"})
		Expect(cmd.ExecuteContext(ctx)).To(Succeed())
		Expect(out.String()).To(Equal(
			"Current Connections: []\nNewly Connected: []\nDisconnected: []\n\n"))
	})

	It("stops reverse name lookups without waiting them out", NodeTimeout(30*time.Second), func(ctx context.Context) {
		// a resolver that never answers.
		silent := Successful(net.ListenPacket("udp4", "127.0.0.1:0"))
		defer silent.Close()

		const timeout = 500 * time.Millisecond
		names, stop := Successful2R(reverseNames(ctx, silent.LocalAddr().String(), "", timeout))
		for i := 1; i <= 20; i++ {
			_, ok := names.Lookup(types.Addr(0x0a000000 + i))
			Expect(ok).To(BeFalse())
		}
		start := time.Now()
		stop()
		Expect(time.Since(start)).To(BeNumerically("<", 3*timeout))
		Expect(names.Pending()).To(BeZero())
	})

	It("adds the default DNS port", func() {
		Expect(resolverHostPort("127.0.0.53")).To(Equal("127.0.0.53:53"))
		Expect(resolverHostPort("127.0.0.53:5353")).To(Equal("127.0.0.53:5353"))
	})

})
