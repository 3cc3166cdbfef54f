package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"xwebview/compositor"
	"xwebview/config"
	"xwebview/metrics"
	"xwebview/sdriver"
	"xwebview/sdriver/replay"
	"xwebview/sdriver/wsconn"
	vagent "xwebview/viewAgent"
	"xwebview/webservice"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "xwebview",
		Short: "Viewer for an xwebview remote display",
		Long: `xwebview connects to an xwebview capture server, rebuilds its
monitors into one canvas and forwards local input back to it.

The session is served locally over HTTP: status, monitor navigation,
input injection, PNG snapshots and Prometheus metrics.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &loaded, cfg)
			if err := loaded.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return run(loaded)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file")
	f.StringVar(&cfg.Host, "host", cfg.Host, "capture server host")
	f.IntVarP(&cfg.Port, "port", "p", cfg.Port, "capture server port")
	f.StringVar(&cfg.Path, "path", cfg.Path, "websocket path on the capture server")
	f.IntVar(&cfg.ViewportWidth, "viewport-width", cfg.ViewportWidth, "width the selected monitor is scaled to")
	f.StringVar(&cfg.Compression, "compression", cfg.Compression, "payload compression: lz4, lz4-block, zstd or none")
	f.StringVar(&cfg.LengthCheck, "length-check", cfg.LengthCheck, "length the frame header is checked against: decompressed or compressed")
	f.StringVar(&cfg.EscapeKey, "escape-key", cfg.EscapeKey, "key whose local default action is never suppressed")
	f.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "local web surface address, empty to disable")
	f.StringVar(&cfg.RecordPath, "record", cfg.RecordPath, "record inbound messages to this file")
	f.StringVar(&cfg.ReplayPath, "replay", cfg.ReplayPath, "replay a recorded session instead of connecting")
	f.DurationVar(&cfg.ReplayInterval, "replay-interval", cfg.ReplayInterval, "delay between replayed messages")
	f.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log every dropped frame")
	return cmd
}

// applyFlags copies explicitly set flags over the loaded file config.
func applyFlags(cmd *cobra.Command, dst *config.Config, flags config.Config) {
	set := cmd.Flags().Changed
	if set("host") {
		dst.Host = flags.Host
	}
	if set("port") {
		dst.Port = flags.Port
	}
	if set("path") {
		dst.Path = flags.Path
	}
	if set("viewport-width") {
		dst.ViewportWidth = flags.ViewportWidth
	}
	if set("compression") {
		dst.Compression = flags.Compression
	}
	if set("length-check") {
		dst.LengthCheck = flags.LengthCheck
	}
	if set("escape-key") {
		dst.EscapeKey = flags.EscapeKey
	}
	if set("http-addr") {
		dst.HTTPAddr = flags.HTTPAddr
	}
	if set("record") {
		dst.RecordPath = flags.RecordPath
	}
	if set("replay") {
		dst.ReplayPath = flags.ReplayPath
	}
	if set("replay-interval") {
		dst.ReplayInterval = flags.ReplayInterval
	}
	if set("debug") {
		dst.Debug = flags.Debug
	}
}

func openSource(ctx context.Context, cfg config.Config) (sdriver.Source, error) {
	if cfg.ReplayPath != "" {
		log.Printf("Replaying session from %s", cfg.ReplayPath)
		return replay.Open(cfg.ReplayPath, cfg.ReplayInterval)
	}
	url := wsconn.URL(cfg.Host, cfg.Port, cfg.Path)
	log.Printf("Connecting to %s", url)
	conn, err := wsconn.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	if cfg.RecordPath == "" {
		return conn, nil
	}
	out, err := os.Create(cfg.RecordPath)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create recording: %w", err)
	}
	log.Printf("Recording session to %s", cfg.RecordPath)
	return sdriver.NewRecorder(conn, out), nil
}

func run(cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	m := metrics.New()
	agent, err := vagent.NewAgent(src, vagent.AgentConfig{
		ViewportWidth: cfg.ViewportWidth,
		Compression:   cfg.Compression,
		LengthCheck:   compositor.LengthCheck(cfg.LengthCheck),
		EscapeKey:     cfg.EscapeKey,
		Debug:         cfg.Debug,
	}, m)
	if err != nil {
		src.Close()
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return agent.Run(ctx)
	})

	if cfg.HTTPAddr == "" {
		// nothing left to look at once the source is gone
		g.Go(func() error {
			select {
			case <-agent.Disconnected():
				cancel()
			case <-ctx.Done():
			}
			return nil
		})
		return g.Wait()
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: webservice.New(agent, m).Handler(),
	}
	g.Go(func() error {
		log.Printf("Web surface listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web surface: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
