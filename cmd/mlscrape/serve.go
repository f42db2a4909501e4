package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/mlscrape/gin"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is cancelled,
// then drains in-flight requests.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := gin.NewServer(deps.Scraper, deps.Readers, deps.Logger)
	server.Domain = deps.Domain
	server.Limit = deps.Limit
	server.Now = deps.Now

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		deps.Logger.Info("listening", "addr", c.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		deps.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
