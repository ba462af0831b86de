package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"slippstream/logging"
	"slippstream/relay"
	"slippstream/slippi"
	"slippstream/tracing"
)

type options struct {
	address   string
	port      int
	realtime  bool
	listen    string
	printJSON bool
	logFile   string
	debug     bool
	trace     bool
	interval  time.Duration
	maxSpec   int
	discovery time.Duration
}

// slippstream 入口：连接主机（或自动发现），逐帧投影游戏状态，可选开启观战广播服务
func main() {
	os.Exit(run())
}

// run 返回进程退出码；os.Exit 会跳过 defer，日志与 span 的刷出都放在这里
func run() int {
	opts := options{}
	var stopTracing func(context.Context) error
	defer logging.SyncLogger()
	defer func() {
		if stopTracing == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := stopTracing(ctx); err != nil {
			logging.Log.Warnf("trace shutdown: %v", err)
		}
	}()

	rootCmd := &cobra.Command{
		Use:           "slippstream",
		Short:         "Stream live game state from a Slippi console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.InitLogger(opts.logFile, opts.debug); err != nil {
				return err
			}
			if opts.trace {
				shutdown, err := tracing.Init(os.Stderr)
				if err != nil {
					return err
				}
				stopTracing = shutdown
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd.Context(), opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.logFile, "log", "", "log file path (rotated); stderr when empty")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&opts.trace, "trace", false, "export OpenTelemetry spans to stderr")
	pf.DurationVar(&opts.discovery, "discovery-timeout", slippi.DefaultDiscoveryTimeout, "how long to wait for a console broadcast")

	f := rootCmd.Flags()
	f.StringVarP(&opts.address, "address", "a", "", "console address; discovered over UDP when empty")
	f.IntVarP(&opts.port, "port", "p", slippi.DefaultPort, "console TCP port")
	f.BoolVar(&opts.realtime, "realtime", true, "request realtime mode in the handshake")
	f.StringVar(&opts.listen, "listen", "", "serve spectators, admin and /metrics on this address, e.g. :8080")
	f.BoolVar(&opts.printJSON, "json", false, "print every frame to stdout as a JSON line")
	f.DurationVar(&opts.interval, "broadcast-interval", relay.DefaultConfig().BroadcastInterval, "spectator broadcast interval")
	f.IntVar(&opts.maxSpec, "max-spectators", relay.DefaultConfig().MaxSpectators, "spectator limit, 0 for unlimited")

	rootCmd.AddCommand(discoverCmd(&opts))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Log.Errorf("exit: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// discoverCmd 只做 UDP 广播发现并打印主机地址
func discoverCmd(opts *options) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Wait for a console discovery broadcast and print its address",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := slippi.Discover(cmd.Context(), port, opts.discovery)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "discovery-port", slippi.DefaultDiscoveryPort, "UDP port consoles broadcast on")
	return cmd
}

func runStream(ctx context.Context, opts options) error {
	cfg := slippi.DefaultConfig()
	cfg.Address = opts.address
	cfg.Port = opts.port
	cfg.Realtime = opts.realtime
	cfg.DiscoveryTimeout = opts.discovery
	client := slippi.NewClient(cfg)

	if err := client.Connect(ctx); err != nil {
		return err
	}
	// 收到退出信号时关闭套接字，阻塞中的读取随即返回 ErrClosed
	go func() {
		<-ctx.Done()
		logging.Log.Info("shutting down...")
		client.Shutdown()
	}()

	var hub *relay.Hub
	if opts.listen != "" {
		hub = relay.NewHub(relay.Config{BroadcastInterval: opts.interval, MaxSpectators: opts.maxSpec})
		hub.StartTicker()
		defer hub.Stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		reg.MustRegister(client.Metrics())
		hub.Metrics().Register(reg)

		srv := &http.Server{Addr: opts.listen, Handler: relay.NewRouter(hub, client, reg)}
		go func() {
			logging.Log.Infof("relay listening on %s", opts.listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Log.Errorf("listen: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	enc := json.NewEncoder(os.Stdout)
	for {
		gs, err := client.NextFrame()
		if err != nil {
			if errors.Is(err, slippi.ErrClosed) {
				logging.Log.Infow("stream closed", "frame", client.Frame(), "stats", client.Metrics().Snapshot())
				return nil
			}
			return err
		}
		if hub != nil {
			hub.Publish(gs)
		}
		if opts.printJSON {
			if err := enc.Encode(gs); err != nil {
				return err
			}
		}
		logging.Log.Debugw("frame", "frame", gs.Frame)
	}
}
