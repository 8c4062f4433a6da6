package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"citebot/archive"
	"citebot/bluesky"
	"citebot/config"
	"citebot/pipeline"
	"citebot/server"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serveCmd runs the pipeline on an interval and exposes health and metrics.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the citation pipeline on an interval",
		Description: `Runs the pipeline on a fixed interval and serves /healthz, /metrics
and /stats over HTTP. Individual pipeline steps are never retried; when a
whole run fails, the next attempt is delayed with exponential backoff
before falling back to the regular interval.`,
		Flags: append(commonFlags(),
			&cli.DurationFlag{
				Name:    "interval",
				Usage:   "Time between pipeline runs",
				EnvVars: []string{"CITEBOT_INTERVAL"},
				Value:   time.Hour,
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port for the HTTP server",
				EnvVars: []string{"CITEBOT_PORT"},
				Value:   3000,
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			creds, err := credentials(ctx)
			if err != nil {
				return err
			}

			store, err := archive.NewStore(cfg.Archive.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			app := server.Server(&server.ServerConfig{Store: store})

			go func() {
				log.WithFields(log.Fields{
					"port": ctx.Int("port"),
				}).Info("Starting server")
				if err := app.Listen(fmt.Sprintf(":%d", ctx.Int("port"))); err != nil {
					log.Panic(err)
				}
			}()

			// Graceful shutdown
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			retry := backoff.NewExponentialBackOff()
			retry.MaxElapsedTime = 0 // Keep serving, never give up

			timer := time.NewTimer(0) // First run immediately
			defer timer.Stop()

			for {
				select {
				case <-interrupt:
					log.Info("Gracefully shutting down...")
					return app.ShutdownWithTimeout(60 * time.Second)
				case <-ctx.Context.Done():
					return app.ShutdownWithTimeout(60 * time.Second)
				case <-timer.C:
					if err := runOnce(ctx, cfg, store, creds); err != nil {
						wait := retry.NextBackOff()
						log.WithFields(log.Fields{
							"wait": wait,
						}).Errorf("Run failed: %s", err)
						timer.Reset(wait)
						continue
					}
					retry.Reset()
					timer.Reset(ctx.Duration("interval"))
				}
			}
		},
	}
}

func runOnce(ctx *cli.Context, cfg *config.TomlConfig, store *archive.Store, creds *bluesky.Credentials) error {
	// A fresh session per run; sessions expire well within an interval.
	timeline, err := bluesky.ClientFromCredentials(ctx.Context, bluesky.DefaultPDSHost, creds)
	if err != nil {
		return err
	}

	merged, err := buildPipeline(cfg, store, timeline).Run(ctx.Context)
	if errors.Is(err, pipeline.ErrNoNewCitations) {
		log.Info("Nothing new to announce")
		return nil
	}
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"announcements": len(merged),
	}).Info("Run complete")
	return nil
}
