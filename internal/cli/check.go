package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/app"
)

// CheckCommand builds the whole site without serving it and renders every
// page once against the configured database.
var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate configuration, templates, and database",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		out := c.App.Writer

		site, err := app.Build(c.Context, cfg, zap.NewNop().Sugar())
		if err != nil {
			return err
		}
		defer site.Close()

		failed := 0
		for _, p := range site.Pages {
			if _, err := p.Serve(c.Context, site.Source, site.Engine); err != nil {
				fmt.Fprintf(out, "✗ %s (%s): %v\n", p.Path, p.Template, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "✓ %s (%s)\n", p.Path, p.Template)
		}
		if failed > 0 {
			return cli.Exit(fmt.Sprintf("%d page(s) failed", failed), 1)
		}
		fmt.Fprintln(out, "All pages rendered successfully.")
		return nil
	},
}
