// Command routebrokerd runs the route distribution broker as a standalone
// daemon: it wires configuration, logging, metrics, the broker engine and
// its HTTP/AMQP transports together, following the teacher's `cli` usage
// patterns (cobra command, pflag-backed configuration overrides).
package main

import (
	"context"
	"errors"
	stdlog "log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go.bryk.io/routebroker/broker"
	"go.bryk.io/routebroker/config"
	"go.bryk.io/routebroker/metrics"
	transportamqp "go.bryk.io/routebroker/transport/amqp"
	transporthttp "go.bryk.io/routebroker/transport/http"

	xlog "go.bryk.io/routebroker/log"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "routebrokerd",
		Short: "Multi-priority route distribution broker daemon",
		RunE:  run,
	}
	root.Flags().StringVar(&configFile, "config", "", "path to a YAML configuration file")
	config.RegisterFlags(root.Flags())

	if err := root.Execute(); err != nil {
		stdlog.Fatal(err)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	ll, err := xlog.New(xlog.Zerolog, cfg.Log.Format == "pretty")
	if err != nil {
		return err
	}
	ll.SetLevel(xlog.ParseLevel(cfg.Log.Level))

	b, err := broker.New(
		broker.WithPriorities(len(cfg.Priorities)),
		broker.WithCodec(routeCodec{}),
		broker.WithMaxTopicLength(cfg.MaxTopicLength),
		broker.WithLogger(ll.Sub(xlog.Fields{"component": "broker"})),
	)
	if err != nil {
		return err
	}

	reg, err := metrics.NewRegistry()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopObserver := make(chan struct{})
	defer close(stopObserver)
	metrics.StartObserver(reg, b, 5*time.Second, ll, stopObserver)

	if cfg.AMQP.URL != "" {
		mirror, err := transportamqp.NewMirror(b, cfg.AMQP.URL, cfg.AMQP.Exchange, ll.Sub(xlog.Fields{"component": "amqp-mirror"}))
		if err != nil {
			return err
		}
		defer mirror.Close()
	}

	apiServer := &stdhttp.Server{
		Addr: cfg.HTTP.ListenAddress,
		Handler: transporthttp.NewServer(b, ll.Sub(xlog.Fields{"component": "http"}), 0, cfg.HTTP.MaxPollTimeout,
			cfg.HTTP.IngestRateLimit, cfg.HTTP.IngestRateBurst),
	}
	metricsServer := &stdhttp.Server{
		Addr:    cfg.Metrics.ListenAddress,
		Handler: reg.Handler(),
	}

	tasks, tasksCtx := errgroup.WithContext(ctx)
	tasks.Go(func() error { return serve(apiServer) })
	tasks.Go(func() error { return serve(metricsServer) })

	<-tasksCtx.Done()
	ll.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	if err := tasks.Wait(); err != nil {
		ll.WithField("error", err.Error()).Error("server failed")
	}
	return nil
}

func serve(s *stdhttp.Server) error {
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// routeCodec is the default topic/copy implementation: payloads are raw
// route records of the form "key\x00value"; a zero-length value marks a
// deletion. Real deployments supply their own Codec wired from the
// netlink/FPM producer, which is outside this module's scope
// (SPEC_FULL.md §1); this default exists so routebrokerd is runnable
// end-to-end against the HTTP transport without extra wiring.
type routeCodec struct{}

func (routeCodec) Topic(payload []byte) (key []byte, isDelete bool) {
	for i, b := range payload {
		if b == 0 {
			return payload[:i], i == len(payload)-1
		}
	}
	return nil, false
}

func (routeCodec) Copy(payload []byte) ([]byte, error) {
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}
