package cmd

import (
	"errors"

	"citebot/archive"
	"citebot/bluesky"
	"citebot/pipeline"
	"citebot/publisher"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// runCmd executes one pipeline pass and exits.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the citation pipeline once",
		Description: `Fetches the citations feed, diffs it against the archive, and posts
one announcement per new citation. Exits after one pass; use serve to keep
running on an interval.`,
		Flags: append(commonFlags(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Render announcements and log them without posting or archiving",
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			store, err := archive.NewStore(cfg.Archive.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			var pipe *pipeline.Pipeline
			if ctx.Bool("dry-run") {
				pipe = buildPipeline(cfg, previewArchive{store}, previewTimeline{})
			} else {
				creds, err := credentials(ctx)
				if err != nil {
					return err
				}

				var timeline publisher.Timeline
				timeline, err = bluesky.ClientFromCredentials(ctx.Context, bluesky.DefaultPDSHost, creds)
				if err != nil {
					return err
				}

				pipe = buildPipeline(cfg, store, timeline)
			}

			merged, err := pipe.Run(ctx.Context)
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
		},
	}
}
