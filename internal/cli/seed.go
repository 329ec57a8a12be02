package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lacasailpaese/vetrina/internal/database"
)

var SeedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Create missing tables and insert demo rows into empty ones",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if database.IsMemory(cfg.Database.DSN) {
			return fmt.Errorf("seed: %s is in-memory; use database.seed instead", cfg.Database.DSN)
		}

		db, err := database.Open(c.Context, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(c.Context, db); err != nil {
			return err
		}
		if err := database.Seed(c.Context, db); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "seeded %s\n", cfg.Database.DSN)
		return nil
	},
}
