package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ruteri/svalbard/common"
	"github.com/ruteri/svalbard/custodyserver"
	"github.com/ruteri/svalbard/secondarychannel/filechannel"
	"github.com/ruteri/svalbard/sharestore/memstore"
	"github.com/ruteri/svalbard/sharestore/pebblestore"
	"github.com/ruteri/svalbard/svalbard"
	"github.com/ruteri/svalbard/tokenstore"
)

// shareStoreBackend is a svalbard.ShareStore that can also be closed
// when the process shuts down, satisfied by both the in-memory store
// (via a no-op Close) and the pebble-backed store.
type shareStoreBackend interface {
	svalbard.ShareStore
	Close() error
}

// closableMemStore wraps *memstore.Store with a no-op Close. The
// underlying store is kept as a named field rather than embedded
// because its Store method shares a name with the embedded type,
// which would shadow the promoted method with the field itself.
type closableMemStore struct {
	store *memstore.Store
}

func (c closableMemStore) Store(ctx context.Context, shareID string, value []byte) error {
	return c.store.Store(ctx, shareID, value)
}

func (c closableMemStore) Retrieve(ctx context.Context, shareID string) ([]byte, error) {
	return c.store.Retrieve(ctx, shareID)
}

func (c closableMemStore) Delete(ctx context.Context, shareID string) error {
	return c.store.Delete(ctx, shareID)
}

func (closableMemStore) Close() error { return nil }

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for the custody API",
	},
	&cli.StringFlag{
		Name:  "metrics-addr",
		Value: "127.0.0.1:8090",
		Usage: "address to listen on for Prometheus metrics",
	},
	&cli.StringFlag{
		Name:  "share-store",
		Value: "memory",
		Usage: "share storage backend: 'memory' or 'pebble'",
	},
	&cli.StringFlag{
		Name:  "pebble-dir",
		Value: "./svalbard-shares",
		Usage: "directory for the pebble share store (required if share-store is 'pebble')",
	},
	&cli.StringFlag{
		Name:  "secondary-channel-dir",
		Value: "./svalbard-channel",
		Usage: "directory the file-based secondary channel writes per-owner token files to",
	},
	&cli.IntFlag{
		Name:  "token-length",
		Value: 32,
		Usage: "length of issued custody tokens",
	},
	&cli.Int64Flag{
		Name:  "token-ttl-seconds",
		Value: 300,
		Usage: "validity window of issued custody tokens, in seconds",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: "svalbard-custody",
		Usage: "add 'service' tag to logs",
	},
	&cli.BoolFlag{
		Name:  "pprof",
		Value: false,
		Usage: "enable pprof debug endpoint",
	},
	&cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds to wait in drain HTTP request",
	},
}

func main() {
	app := &cli.App{
		Name:  "svalbardserver",
		Usage: "Serve the custody API for long-term secret share storage",
		Flags: flags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			metricsAddr := cCtx.String("metrics-addr")
			shareStoreKind := cCtx.String("share-store")
			pebbleDir := cCtx.String("pebble-dir")
			channelDir := cCtx.String("secondary-channel-dir")
			tokenLength := cCtx.Int("token-length")
			tokenTTL := time.Duration(cCtx.Int64("token-ttl-seconds")) * time.Second
			logJSON := cCtx.Bool("log-json")
			logDebug := cCtx.Bool("log-debug")
			logUID := cCtx.Bool("log-uid")
			logService := cCtx.String("log-service")
			enablePprof := cCtx.Bool("pprof")
			drainDuration := time.Duration(cCtx.Int64("drain-seconds")) * time.Second

			logger := common.SetupLogger(&common.LoggingOpts{
				Debug:   logDebug,
				JSON:    logJSON,
				Service: logService,
				Version: common.Version,
			})
			if logUID {
				id := uuid.Must(uuid.NewRandom())
				logger = logger.With("uid", id.String())
			}

			zapLogger, err := common.SetupZapLogger(&common.LoggingOpts{
				Debug:   logDebug,
				JSON:    logJSON,
				Service: logService,
				Version: common.Version,
			})
			if err != nil {
				logger.Error("failed to set up access logger", "err", err)
				return err
			}

			if err := os.MkdirAll(channelDir, 0755); err != nil {
				logger.Error("failed to create secondary channel directory", "err", err)
				return err
			}

			var store shareStoreBackend
			switch shareStoreKind {
			case "memory":
				store = closableMemStore{store: memstore.New()}
			case "pebble":
				pebbleStore, err := pebblestore.OpenOrCreate(pebbleDir)
				if err != nil {
					logger.Error("failed to open pebble share store", "err", err)
					return err
				}
				store = pebbleStore
			default:
				logger.Error("invalid share-store", "value", shareStoreKind)
				return cli.Exit("invalid share-store: "+shareStoreKind, 1)
			}
			defer store.Close()

			tokens, err := tokenstore.NewStore(tokenLength, tokenTTL)
			if err != nil {
				logger.Error("failed to create token store", "err", err)
				return err
			}

			channel := filechannel.NewChannel(channelDir)
			handler := custodyserver.NewServer(tokens, store, channel)

			cfg := &custodyserver.HTTPServerConfig{
				ListenAddr:               listenAddr,
				MetricsAddr:              metricsAddr,
				Log:                      logger,
				ZapLogger:                zapLogger,
				EnablePprof:              enablePprof,
				DrainDuration:            drainDuration,
				GracefulShutdownDuration: 30 * time.Second,
				ReadTimeout:              60 * time.Second,
				WriteTimeout:             30 * time.Second,
			}

			server, err := custodyserver.NewHTTPServer(cfg, handler)
			if err != nil {
				logger.Error("failed to create custody server", "err", err)
				return err
			}

			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("custody server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("shutdown signal received")

			server.Shutdown()
			logger.Info("custody server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
