// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Command yawmd-sim is a user-space 802.11 wireless-medium simulator that
// speaks the MAC80211_HWSIM kernel protocol, per spec.md §1/§6. Flag and
// signal handling follow otns_main.go's pattern, generalized from OTNS's
// interactive-simulation CLI to this daemon's fixed flag set.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yawmd/yawmd-sim/config"
	"github.com/yawmd/yawmd-sim/logger"
	"github.com/yawmd/yawmd-sim/prng"
	"github.com/yawmd/yawmd-sim/progctx"
	"github.com/yawmd/yawmd-sim/runtime"
	"github.com/yawmd/yawmd-sim/stats"
)

// version is the daemon's reported version string, per spec.md §6's `-V` flag.
const version = "yawmd-sim 1.0.0"

// hwsimFamilyName is the generic-netlink family this daemon talks to, per
// spec.md §6.
const hwsimFamilyName = "MAC80211_HWSIM"

type cliArgs struct {
	configPath  string
	logLevel    int
	threaded    bool
	metricsAddr string
	seed        int64
	showHelp    bool
	showVer     bool
}

func parseArgs() cliArgs {
	var a cliArgs
	flag.StringVar(&a.configPath, "c", "", "path to the medium configuration file (required)")
	flag.IntVar(&a.logLevel, "l", int(logger.DefaultLevel), "log severity, 0 (quietest) to 7 (most verbose)")
	flag.BoolVar(&a.threaded, "t", false, "use the per-medium-thread runtime instead of the single-threaded loop")
	flag.StringVar(&a.metricsAddr, "m", "", "address to serve Prometheus /metrics on (disabled if empty)")
	flag.Int64Var(&a.seed, "s", 0, "root PRNG seed, 0 picks one from the clock")
	flag.BoolVar(&a.showHelp, "h", false, "show usage and exit")
	flag.BoolVar(&a.showVer, "V", false, "print version and exit")
	flag.Parse()
	return a
}

func main() {
	args := parseArgs()

	if args.showHelp {
		flag.PrintDefaults()
		os.Exit(0)
	}
	if args.showVer {
		fmt.Println(version)
		os.Exit(0)
	}
	if args.configPath == "" {
		fmt.Fprintln(os.Stderr, "yawmd-sim: -c FILE is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level, err := logger.ParseSeverity(args.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yawmd-sim: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(level)
	prng.Init(args.seed)

	runID := stats.RunID()
	logger.Infof("yawmd-sim %s starting, run=%s, config=%s, threaded=%v", version, runID, args.configPath, args.threaded)

	if args.metricsAddr != "" {
		serveMetrics(args.metricsAddr)
	}

	plans, err := config.Load(args.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yawmd-sim: %v\n", err)
		os.Exit(1)
	}

	engines := runtime.BuildAll(plans)

	sock, err := runtime.OpenKernelSocket(hwsimFamilyName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yawmd-sim: %v\n", err)
		os.Exit(1)
	}

	ctx := progctx.New(context.Background())
	ctx.Defer(func() {
		_ = sock.Close()
	})
	handleSignals(ctx, engines)

	if args.threaded {
		if err := runtime.RunPerMediumThread(ctx, engines, sock); err != nil {
			logger.Errorf("starting per-medium-thread runtime: %v", err)
			ctx.Cancel(err)
			os.Exit(1)
		}
	} else {
		ctx.WaitAdd("runtime", 1)
		go func() {
			defer ctx.WaitDone("runtime")
			if err := runtime.RunSingleThreaded(ctx, engines, sock); err != nil {
				logger.Errorf("single-threaded runtime exited: %v", err)
				ctx.Cancel(err)
			}
		}()
	}

	ctx.Wait()
	logger.Infof("yawmd-sim %s exiting", runID)
	os.Exit(0)
}

// serveMetrics starts a best-effort background HTTP server exposing the
// stats package's Prometheus registry at /metrics; a failure here is logged,
// not fatal, since metrics scraping is ancillary to the daemon's job.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Errorf("metrics server on %s exited: %v", addr, err)
		}
	}()
}

// handleSignals wires SIGINT/SIGTERM/SIGQUIT to a clean shutdown and SIGHUP
// to the debug dump of spec.md §4's supplemented dump_medium_info feature,
// following otns_main.handleSignals' pattern.
func handleSignals(ctx *progctx.ProgCtx, engines []*runtime.Engine) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer ctx.WaitDone("handleSignals")
		for {
			select {
			case sig := <-c:
				if sig == syscall.SIGHUP {
					for _, e := range engines {
						logger.Tracef("%s", e.Medium.DebugDump())
					}
					continue
				}
				logger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				return
			}
		}
	}()
}
