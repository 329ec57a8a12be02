package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lacasailpaese/vetrina/internal/app"
	"github.com/lacasailpaese/vetrina/internal/logger"
	"github.com/lacasailpaese/vetrina/internal/server"
)

var ServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the web server",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "addr", Usage: "override http.listen_addr"},
		&cli.BoolFlag{Name: "dev", Usage: "reload templates on change and log at debug level"},
	},
	Action: serve,
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if a := c.String("addr"); a != "" {
		cfg.HTTP.ListenAddr = a
	}
	if c.Bool("dev") {
		cfg.HTTP.Mode = "dev"
	}
	dev := cfg.HTTP.Mode == "dev"

	log, err := logger.New(cfg.Paths.Logs, logger.Options{Tee: logger.RunningInTTY(), Debug: dev})
	if err != nil {
		return &app.StartupError{Stage: "logger", Err: err}
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	site, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Errorw("startup failed", "err", err)
		return err
	}
	defer site.Close()

	srv := server.New(cfg.HTTP.ListenAddr, site.Handler)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("listening", "addr", srv.Addr, "mode", cfg.HTTP.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), server.ShutdownGrace)
		defer cancel()
		log.Infow("shutting down")
		return srv.Shutdown(sctx)
	})

	if dev {
		g.Go(func() error { return site.Engine.Watch(gctx, log) })
	}

	if err := g.Wait(); err != nil {
		log.Errorw("server stopped", "err", err)
		return err
	}
	log.Infow("server stopped")
	return nil
}
