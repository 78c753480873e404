package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/catalog"
	"finitefield.org/hanko-blog/internal/httpserver"
)

func newServeCmd(c *cli) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		Long: `Serve the post list, post pages and htmx fragments. With --watch (or BLOG_DEV)
the catalog file is reloaded whenever it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, watch || c.cfg.Dev)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the catalog file on change")
	return cmd
}

func (c *cli) serve(ctx context.Context, watch bool) error {
	cat, err := loadCatalog(c.cfg)
	if err != nil {
		return err
	}
	converter := startConverter(ctx, c.cfg, c.logger)

	handlerFor := func(cat *catalog.Catalog) (*httpserver.Server, error) {
		s, err := buildSite(c.cfg, cat, converter, c.logger)
		if err != nil {
			return nil, err
		}
		return httpserver.New(s.app,
			httpserver.WithLogger(c.logger.Named("http")),
			httpserver.WithRawFS(s.rawFS),
			httpserver.WithSecureCookies(!c.cfg.Dev),
			httpserver.WithRequestTimeout(c.cfg.Server.WriteTimeout),
		), nil
	}

	srv, err := handlerFor(cat)
	if err != nil {
		return err
	}
	handler := httpserver.NewReloadable(srv.Handler())

	if watch && c.cfg.Content.CatalogFile != "" {
		go func() {
			err := catalog.Watch(ctx, c.cfg.Content.CatalogFile, c.logger.Named("catalog"), func(next *catalog.Catalog) {
				srv, err := handlerFor(next)
				if err != nil {
					c.logger.Warn("rebuild after catalog change failed", zap.Error(err))
					return
				}
				handler.Swap(srv.Handler())
			})
			if err != nil {
				c.logger.Warn("catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	c.logger.Info("starting blog",
		zap.String("deployment", string(c.cfg.Content.Deployment)),
		zap.String("site_root", c.cfg.Content.SiteRoot),
		zap.String("content_base_url", c.cfg.Content.BaseURL),
		zap.Int("posts", cat.Len()),
	)
	return httpserver.Serve(ctx, c.cfg.Server, handler, c.logger)
}
