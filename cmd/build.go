package cmd

import (
	"context"
	"errors"
	"io"

	"citebot/archive"
	"citebot/assets"
	"citebot/authors"
	"citebot/bluesky"
	"citebot/config"
	"citebot/feed"
	"citebot/models"
	"citebot/pipeline"
	"citebot/publisher"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
			EnvVars: []string{"CITEBOT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "database",
			Usage:   "Path to the archive SQLite database",
			EnvVars: []string{"CITEBOT_DATABASE"},
		},
		&cli.StringFlag{
			Name:    "identifier",
			Usage:   "Bluesky account identifier",
			EnvVars: []string{"CITEBOT_BLUESKY_IDENTIFIER"},
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Bluesky app password",
			EnvVars: []string{"CITEBOT_BLUESKY_PASSWORD"},
		},
	}
}

func loadConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	if database := ctx.String("database"); database != "" {
		cfg.Archive.Database = database
	}
	return cfg, nil
}

// credentials reads the Bluesky credentials from flags, prompting for
// whatever is missing.
func credentials(ctx *cli.Context) (*bluesky.Credentials, error) {
	identifier := ctx.String("identifier")
	password := ctx.String("password")

	var err error
	if identifier == "" {
		identifier, err = prompt.New().Ask("Handle:").Input("myname.bsky.social")
		if err != nil {
			return nil, err
		}
	}
	if password == "" {
		password, err = prompt.New().Ask("App password:").Input("", input.WithEchoMode(input.EchoNone))
		if err != nil {
			return nil, err
		}
	}

	if identifier == "" || password == "" {
		return nil, errors.New("bluesky credentials are required")
	}

	return &bluesky.Credentials{Identifier: identifier, Password: password}, nil
}

func buildPipeline(cfg *config.TomlConfig, store pipeline.Archive, timeline publisher.Timeline) *pipeline.Pipeline {
	renderer := publisher.NewRenderer(publisher.Options{
		Mention:     cfg.Announcement.Mention,
		TopicTag:    cfg.Announcement.TopicTag,
		DOIResolver: cfg.Announcement.DOIResolver,
		MaxLength:   cfg.Announcement.MaxLength,
	}, authors.NewHeuristic())

	pub := publisher.New(
		renderer,
		timeline,
		feed.NewHandleDirectory(cfg.Sources.HandlesURL),
		assets.NewStore(cfg.Sources.AssetBaseURL),
	)

	return pipeline.New(feed.NewReader(cfg.Sources.FeedURL), store, pub)
}

// previewTimeline logs announcements instead of posting them. Used by
// run --dry-run.
type previewTimeline struct{}

func (previewTimeline) Recent(context.Context) ([]string, error) {
	return nil, nil
}

func (previewTimeline) Post(_ context.Context, text string, image io.Reader) error {
	log.WithFields(log.Fields{
		"text":  text,
		"image": image != nil,
	}).Info("Dry run, not posting")
	return nil
}

// previewArchive reads the real archive but drops writes, so a dry run never
// marks records as processed.
type previewArchive struct {
	*archive.Store
}

func (previewArchive) WriteAll(context.Context, []models.CitationRecord) error { return nil }
