package cmd

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "citebot",
		Usage: "Announce new software citations on Bluesky",
		Description: `Citebot watches a remote tab-separated feed of software citations,
		compares it against an archive of everything already processed, merges
		citations that cover several packages, and posts one announcement per
		new citation. Announcements already visible on the timeline are never
		posted twice.

		Flags can generally be set via environment variables, e.g.:

		--database => CITEBOT_DATABASE=citebot.db
		--config => CITEBOT_CONFIG=config/citebot.toml
		`,
		Commands: []*cli.Command{
			runCmd(),
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	// A .env file is optional; flags and real environment variables win.
	_ = godotenv.Load()

	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
