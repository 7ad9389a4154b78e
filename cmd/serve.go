package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/inflation/cache"
	"github.com/etnz/inflation/server"
	"github.com/etnz/inflation/store"
)

// serveCmd runs the HTTP API.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the HTTP API" }
func (*serveCmd) Usage() string {
	return `infl serve [-addr <host:port>]

  Serves the indices and the projection calculator over HTTP until
  interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the configuration")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	repo, db, err := openStore(cfg.DB)
	if err != nil {
		log.Error("cannot open database", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer store.Close(db)

	opts := server.Options{
		Config:   cfg.Server,
		Repo:     repo,
		CacheTTL: cfg.Cache.TTL,
		Logger:   log,
	}
	if rs := cache.New(cfg.Cache); rs != nil {
		defer rs.Close()
		if err := rs.Ping(ctx); err != nil {
			log.Warn("redis unavailable, responses are not cached", zap.Error(err))
		} else {
			opts.Cache = rs
		}
	}

	addr := cfg.Server.HTTPAddr
	if c.addr != "" {
		addr = c.addr
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, addr, server.New(opts), log); err != nil {
		log.Error("server failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
