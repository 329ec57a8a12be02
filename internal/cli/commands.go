// internal/cli/commands.go
//
// Command-line surface.
//
//	vetrina [--root DIR] serve   – run the web server (default command)
//	vetrina [--root DIR] seed    – create tables and insert demo rows
//	vetrina [--root DIR] check   – validate config, templates, and database
//
// Every command loads configuration the same way.  --root skips directory
// discovery and reads <root>/conf directly.

package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/lacasailpaese/vetrina/internal/config"
)

// NewApp returns the root command with every subcommand attached.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "vetrina",
		Usage: "Serve the La Casa il Paese website",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Usage:   "site root containing conf/, templates/, and static/",
				EnvVars: []string{"VETRINA_ROOT"},
			},
		},
		Commands: []*cli.Command{
			ServeCommand,
			SeedCommand,
			CheckCommand,
		},
		DefaultCommand: ServeCommand.Name,
	}
}

// loadConfig honours --root, falling back to discovery.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if root := c.String("root"); root != "" {
		return config.LoadFrom(root)
	}
	return config.Load()
}
