/*
Package metrics exposes the scan cycles and host reachability of a host watch
as Prometheus metrics.

A [Metrics] object plugs into the scan and monitor packages without them
knowing about it:

	m := metrics.New("192.168.100.0/24")
	scanner := scan.New(prober, scan.WithProbeObserver(m.ObserveProbe))
	scheduler := scan.NewScheduler(scanner, scan.WithCycleObserver(m.ObserveCycle))
	mon := monitor.New(monitor.Reporters(monitor.LineReporter(os.Stdout), m))
	go m.Serve(ctx, ":9100")
*/
package metrics
