package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/gateway"
	"github.com/vovakirdan/neonride/internal/storage"
)

var (
	flagGatewayAddr        string
	flagOrigins            []string
	flagMaxSessions        int
	flagGatewayIdleTimeout time.Duration
	flagGatewaySave        bool
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the HTTP/websocket gateway for remote agents",
	Long: `Expose the environment to agents in other processes.

REST:
  POST   /v1/envs              create a session {"profile","seed"}
  GET    /v1/envs/{id}         session info
  POST   /v1/envs/{id}/reset   start a new episode (optional {"seed":N})
  POST   /v1/envs/{id}/step    {"action":0|1|2}
  DELETE /v1/envs/{id}         close the session

Websocket:
  GET /v1/ws?profile=training&seed=42
  send {"type":"reset"} or {"type":"step","action":1}

Finished episodes are recorded in the database unless --save=false.
NEONRIDE_GATEWAY_ADDR overrides the default address.

Examples:
  neonride gateway
  neonride gateway --addr 127.0.0.1:9000 --origin http://localhost:3000`,
	Run: runGateway,
}

func init() {
	def := gateway.DefaultOptions()
	gatewayCmd.Flags().StringVar(&flagGatewayAddr, "addr", def.Addr, "Listen address (host:port)")
	gatewayCmd.Flags().StringSliceVar(&flagOrigins, "origin", nil, "Allowed CORS origin (repeatable; default any)")
	gatewayCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", def.MaxSessions, "Concurrent session cap (0 = unlimited)")
	gatewayCmd.Flags().DurationVar(&flagGatewayIdleTimeout, "idle-timeout", def.IdleTimeout, "Drop sessions unused for this long (0 = never)")
	gatewayCmd.Flags().BoolVar(&flagGatewaySave, "save", true, "Record finished episodes in the database")
}

func runGateway(cmd *cobra.Command, _ []string) {
	envOverride(cmd, "addr", "NEONRIDE_GATEWAY_ADDR", &flagGatewayAddr)

	opts := gateway.DefaultOptions()
	opts.Addr = flagGatewayAddr
	opts.AllowedOrigins = flagOrigins
	opts.MaxSessions = flagMaxSessions
	opts.IdleTimeout = flagGatewayIdleTimeout
	opts.Logger = logger.WithPrefix("neonride-gateway")
	opts.Profiles = func(p config.Profile) (config.NeonRideConfig, error) {
		cfg, err := config.Load(p, flagConfig)
		if errors.Is(err, config.ErrProfileMismatch) {
			// --config targets one profile; the other keeps its defaults
			return config.Load(p, "")
		}
		return cfg, err
	}

	if flagGatewaySave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open database, episodes will not be saved", "error", err)
		} else {
			defer store.Close()
			opts.Saver = store
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gateway.NewServer(opts).ListenAndServe(ctx); err != nil {
		exitf("gateway: %v", err)
	}
}
