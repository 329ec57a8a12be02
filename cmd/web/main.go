// cmd/web/main.go
//
// vetrina – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load configuration (defaults → conf/.env → conf/site.yaml → env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the SQLite database; migrate and seed when asked to.
//
//  4. Parse templates and build the page catalogue.
//
//  5. Build the chi router: request info, access log, recoverer, security
//     headers, optional HTTPS redirect, pages, /healthz, /metrics, and
//     /static/*.
//
//  6. Serve until SIGINT or SIGTERM, then shut down gracefully.
//
// Page flow: route → query → row mapping → template context → HTML.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"os"

	"github.com/lacasailpaese/vetrina/internal/cli"
	"github.com/lacasailpaese/vetrina/internal/logger"
)

func main() {
	if err := cli.NewApp().Run(os.Args); err != nil {
		// The file logger may not exist yet; report on the console.
		logger.Console().Errorw("vetrina exited", "err", err)
		os.Exit(1)
	}
}
