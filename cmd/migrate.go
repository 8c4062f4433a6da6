package cmd

import (
	"citebot/archive"

	"github.com/urfave/cli/v2"
)

func databaseFlag() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database",
			Usage:   "Path to the archive SQLite database",
			EnvVars: []string{"CITEBOT_DATABASE"},
			Value:   "citebot.db",
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run archive database migrations",
		Description: `Runs migrations on the archive database. Will create the database if it does not exist.`,
		Flags:       databaseFlag(),
		Action: func(ctx *cli.Context) error {
			return archive.Migrate(ctx.String("database"))
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback archive database migration",
		Description: `Rolls back the last archive database migration`,
		Flags:       databaseFlag(),
		Action: func(ctx *cli.Context) error {
			return archive.Rollback(ctx.String("database"))
		},
	}
}
