// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/siemens/hostwatch/probe"
	"github.com/siemens/hostwatch/scan"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

var (
	probeCount      *uint
	probeTimeout    *time.Duration
	cycleInterval   *time.Duration
	probeKind       *string
	probePorts      *[]uint
	workerNumber    *uint
	netnsRef        *string
	containerName   *string
	networkName     *string
	resolverAddr    *string
	live            *bool
	spinnerInterval *time.Duration
	metricsAddr     *string
	debug           *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "hostwatch [flags] [starting_ip] [subnet_mask] [repeat_flag]",
		Short: "hostwatch watches the hosts on an IPv4 subnet coming and going",
		Long: `hostwatch probes every host address on an IPv4 subnet, reporting the
reachable hosts after each scan cycle together with the hosts that got newly
connected or disconnected since the previous cycle.

The subnet defaults to 192.168.100.1 with mask 255.255.255.0. A repeat_flag of
"0" runs a single scan cycle only; otherwise, hostwatch scans until
interrupted.`,
		Version: "0.9",
		Args:    cobra.MaximumNArgs(3),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *probeCount < 1 || *probeCount > 100 {
				return fmt.Errorf("--count out of range [1..100]")
			}
			if *probeTimeout < time.Millisecond {
				return fmt.Errorf("--timeout must be at least 1ms")
			}
			if *cycleInterval < 0 {
				return fmt.Errorf("--interval must not be negative")
			}
			if !knownProbeKind(*probeKind) {
				return fmt.Errorf("--probe must be one of %v", probe.Kinds())
			}
			if len(*probePorts) == 0 {
				return fmt.Errorf("--ports must not be empty")
			}
			for _, port := range *probePorts {
				if port < 1 || port > 65535 {
					return fmt.Errorf("--ports out of range [1..65535]: %d", port)
				}
			}
			if *netnsRef != "" && *containerName != "" {
				return fmt.Errorf("--netns and --container are mutually exclusive")
			}
			if *networkName != "" && *containerName == "" {
				return fmt.Errorf("--network requires --container")
			}
			if *resolverAddr != "" && !*live {
				return fmt.Errorf("--resolver requires --live")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			return WatchAndReport(cmd.Context(), parseTarget(args))
		},
	}
	// Sets up the flags.
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	probeCount = rootCmd.PersistentFlags().Uint(
		"count", probe.DefaultCount, "probe attempts per host")
	probeTimeout = rootCmd.PersistentFlags().Duration(
		"timeout", probe.DefaultTimeout, "timeout per probe attempt")
	cycleInterval = rootCmd.PersistentFlags().Duration(
		"interval", scan.DefaultInterval, "delay between scan cycles")
	probeKind = rootCmd.PersistentFlags().String(
		"probe", string(probe.ICMPKind), fmt.Sprintf("probe mechanism, one of %v", probe.Kinds()))
	defaultPorts := make([]uint, 0, len(probe.DefaultPorts))
	for _, port := range probe.DefaultPorts {
		defaultPorts = append(defaultPorts, uint(port))
	}
	probePorts = rootCmd.PersistentFlags().UintSlice(
		"ports", defaultPorts, "TCP ports to probe")
	workerNumber = rootCmd.PersistentFlags().Uint(
		"workers", 0, "maximum number of concurrent probes, 0 for one per host")
	netnsRef = rootCmd.PersistentFlags().String(
		"netns", "", "network namespace to probe from, such as /proc/$PID/ns/net")
	containerName = rootCmd.PersistentFlags().String(
		"container", "", "Docker container to probe from, scanning its network")
	networkName = rootCmd.PersistentFlags().String(
		"network", "", "network of the Docker container to scan")
	resolverAddr = rootCmd.PersistentFlags().String(
		"resolver", "", "DNS resolver for reverse names, such as 127.0.0.53:53")
	live = rootCmd.PersistentFlags().Bool(
		"live", false, "live-update the terminal instead of printing line reports")
	spinnerInterval = rootCmd.PersistentFlags().Duration(
		"spinner", 100*time.Millisecond, "spinner interval of live display")
	metricsAddr = rootCmd.PersistentFlags().String(
		"metrics", "", "serve Prometheus metrics on this address, such as :9100")
	return
}

func knownProbeKind(kind string) bool {
	for _, k := range probe.Kinds() {
		if string(k) == kind {
			return true
		}
	}
	return false
}
