// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/siemens/hostwatch/metrics"
	"github.com/siemens/hostwatch/mobynet"
	"github.com/siemens/hostwatch/monitor"
	"github.com/siemens/hostwatch/probe"
	"github.com/siemens/hostwatch/rdns"
	"github.com/siemens/hostwatch/scan"

	"github.com/docker/docker/client"
	"github.com/gosuri/uilive"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// For CLI unit tests...
var stdout io.Writer = os.Stdout

// WatchAndReport scans the target subnet in cycles, reporting the reachable
// hosts and their changes after each completed cycle, until either a single
// cycle is done, probing breaks down, or the process gets interrupted.
func WatchAndReport(ctx context.Context, tgt target) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	netnsref := *netnsRef
	if *containerName != "" {
		var err error
		tgt, netnsref, err = containerTarget(ctx, tgt, *containerName, *networkName)
		if err != nil {
			return err
		}
	}

	ports := make([]uint16, 0, len(*probePorts))
	for _, port := range *probePorts {
		ports = append(ports, uint16(port))
	}
	prober, err := probe.New(probe.Kind(*probeKind),
		probe.WithCount(*probeCount),
		probe.WithTimeout(*probeTimeout),
		probe.WithPorts(ports...),
		probe.InNetworkNamespace(netnsref))
	if err != nil {
		return fmt.Errorf("cannot probe hosts: %w", err)
	}

	// Now lets put the processing elements and their plumbing in place:
	//
	//   - Scheduler running the Scanner in cycles, which produces a stream
	//     of cycle events.
	//   - Monitor consuming the cycle events and reporting the differences
	//     between cycles to the reporters.
	scanopts := []scan.ScannerOption{scan.WithWorkers(*workerNumber)}
	schedopts := []scan.SchedulerOption{
		scan.WithRepeat(tgt.repeat),
		scan.WithInterval(*cycleInterval),
	}
	var reporters []monitor.Reporter
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	var m *metrics.Metrics
	if *metricsAddr != "" {
		m = metrics.New(tgt.String())
		scanopts = append(scanopts, scan.WithProbeObserver(m.ObserveProbe))
		reporters = append(reporters, m)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Serve(ctx, *metricsAddr); err != nil {
				log.Errorf("metrics: %s", err.Error())
			}
		}()
	}
	schedopts = append(schedopts, scan.WithCycleObserver(func(d time.Duration, err error) {
		if m != nil {
			m.ObserveCycle(d, err)
		}
		if err != nil {
			log.Debugf("scan cycle of %s aborted after %s: %s", tgt, d, err.Error())
			return
		}
		log.Debugf("scan cycle of %s took %s", tgt, d)
	}))

	var display *liveReporter
	if *live {
		var names *rdns.Names
		if *resolverAddr != "" {
			var stopNames func()
			names, stopNames, err = reverseNames(ctx, *resolverAddr, netnsref, time.Second)
			if err != nil {
				return err
			}
			defer stopNames()
		}
		display = newLiveReporter(uilive.New(), newRenderer(tgt, *probeKind, names, *spinnerInterval), *spinnerInterval)
		reporters = append(reporters, display)
	} else {
		reporters = append(reporters, monitor.LineReporter(stdout))
	}

	scheduler := scan.NewScheduler(scan.New(prober, scanopts...), schedopts...)
	mon := monitor.New(monitor.Reporters(reporters...))
	in, out := scan.NewEventChannel()
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		mon.Run(out)
	}()

	log.Infof("watching %s using %s probes", tgt, *probeKind)
	err = scheduler.Run(ctx, tgt.addr, tgt.mask, in)
	// Closing the event channel lets the Monitor drain all pending events and
	// then finish.
	close(in)
	<-monitorDone
	if display != nil {
		display.Stop()
	}
	return err
}

// containerTarget returns the target subnet and network namespace of the
// specified container. A subnet given on the command line is overridden by
// the subnet of the container's network.
func containerTarget(ctx context.Context, tgt target, container, network string) (target, string, error) {
	cln, err := client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return tgt, "", fmt.Errorf("cannot connect to the Docker daemon: %w", err)
	}
	defer cln.Close()
	nets, netnsref, err := mobynet.DiscoverContainerNetworks(ctx, cln, container)
	if err != nil {
		return tgt, "", fmt.Errorf("cannot discover container networks: %w", err)
	}
	attached, err := mobynet.Select(nets, network)
	if err != nil {
		return tgt, "", fmt.Errorf("container %q: %w", container, err)
	}
	if tgt.explicit {
		log.Warnf("ignoring subnet %s in favor of network %s of container %q", tgt, attached, container)
	}
	tgt.addr, tgt.mask = attached.Addr, attached.Mask
	return tgt, netnsref, nil
}

// reverseNames returns a cache of reverse names looked up via the specified
// resolver, together with a function to stop all lookups. Stopping fails
// lookups still queued instead of waiting for each of them to time out.
func reverseNames(ctx context.Context, resolver, netnsref string, timeout time.Duration) (*rdns.Names, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	pool, err := rdns.New(ctx, 4,
		&dns.Client{Net: "udp", Timeout: timeout},
		resolverHostPort(resolver),
		rdns.InNetworkNamespace(netnsref))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("cannot look up reverse names: %w", err)
	}
	return rdns.NewNames(ctx, pool, nil), func() {
		cancel()
		pool.StopWait()
	}, nil
}

// resolverHostPort adds the default DNS port if missing.
func resolverHostPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, "53")
}
