// Package server exposes the consumer price indices and the projection
// calculator over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etnz/inflation/cache"
	"github.com/etnz/inflation/config"
	"github.com/etnz/inflation/store"
)

// Options are the dependencies of the HTTP API.
type Options struct {
	Config   config.ServerConfig
	Repo     store.Repository
	Cache    cache.Store // nil disables response caching
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// New returns the gin engine serving the API.
func New(opts Options) *gin.Engine {
	log := logger(opts.Logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))
	engine.Use(corsMiddleware(opts.Config.AllowOrigins))

	health := &HealthHandler{Repo: opts.Repo}
	health.Register(engine)

	api := engine.Group("/", apiKeyMiddleware(opts.Config.APIKeys))

	cpis := &CPIHandler{Repo: opts.Repo, Logger: log}
	cpiGroup := api.Group("/cpis")
	if opts.Cache != nil {
		cpiGroup.Use(cacheMiddleware(opts.Cache, opts.CacheTTL, log))
	}
	cpis.Register(cpiGroup)

	projection := &ProjectionHandler{Logger: log}
	projection.Register(api)

	return engine
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// logger returns log, or a no-op logger if log is nil.
func logger(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// detail aborts the request with a {"detail": message} body.
func detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}
