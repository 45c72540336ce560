package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/camfs"
	"github.com/sagarc03/camfs/config"
	"github.com/sagarc03/camfs/network"
	"github.com/sagarc03/camfs/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to WiFi and start the file server",
	Long: `Join the configured WiFi network (or start an access point with
--mode access-point) and serve the storage over HTTP until interrupted.

Examples:
  # Join a network and serve the card mounted at /mnt/sd
  camfs serve --ssid home --password secret --storage-path /mnt/sd

  # Try it out without a radio
  camfs serve --network sim --ssid demo --storage-path ./pictures`,
	RunE: runServe,
}

var (
	serveNetwork  string
	serveSimDelay time.Duration
)

func init() {
	serveCmd.Flags().Int("port", server.DefaultPort, "HTTP server port")
	serveCmd.Flags().Int("max-files", camfs.DefaultMaxNumFiles, "maximum number of files on the index page")
	serveCmd.Flags().String("mode", string(camfs.ModeClient), "wifi mode (client, access-point)")
	serveCmd.Flags().String("ssid", "", "network to join or create")
	serveCmd.Flags().String("password", "", "network password")
	serveCmd.Flags().Duration("timeout", camfs.DefaultConnectTimeout, "how long to wait for the network")
	serveCmd.Flags().StringVar(&serveNetwork, "network", "host", "network implementation (host, sim)")
	serveCmd.Flags().DurationVar(&serveSimDelay, "sim-delay", time.Second, "association delay of the simulated network")

	rootCmd.AddCommand(serveCmd)
}

func newNetwork(kind string, cfg *config.Config) (camfs.Network, error) {
	apIP := net.ParseIP(cfg.WiFi.APIP)

	switch kind {
	case "host":
		return network.NewHost(apIP), nil
	case "sim":
		sim := network.NewSimulated(serveSimDelay)
		if apIP != nil {
			sim.AccessPointIP = apIP
		}
		return sim, nil
	default:
		return nil, fmt.Errorf("unknown network: %q (valid: host, sim)", kind)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	mode, err := camfs.ParseMode(cfg.WiFi.Mode)
	if err != nil {
		return err
	}

	radio, err := newNetwork(serveNetwork, cfg)
	if err != nil {
		return err
	}

	sess := server.New(server.Config{
		Port:        cfg.Server.Port,
		MaxNumFiles: cfg.Server.MaxFiles,
		Backlog:     cfg.Server.Backlog,
		CORS:        cfg.CORS,
	}, radio, store)

	creds := cfg.WiFi.Credentials()

	var ok bool
	switch mode {
	case camfs.ModeAccessPoint:
		ok = sess.BeginAccessPoint(ctx, creds)
	default:
		slog.Info("connecting to wifi", "ssid", creds.SSID, "timeout", cfg.WiFi.Timeout)
		ok = sess.ConnectAsClient(ctx, creds, cfg.WiFi.Timeout, camfs.WithTick(func(elapsed time.Duration) {
			slog.Debug("waiting for wifi", "elapsed", elapsed)
		}))
	}
	if !ok {
		return errors.New(sess.ErrorMessage())
	}

	slog.Info(sess.WelcomeMessage())

	serveErr := sess.Serve(ctx)

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sess.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "err", err)
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("serve: %w", serveErr)
	}
	return nil
}
