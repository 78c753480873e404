package main

import (
	"context"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/app"
	"finitefield.org/hanko-blog/internal/catalog"
	"finitefield.org/hanko-blog/internal/config"
	"finitefield.org/hanko-blog/internal/content"
	"finitefield.org/hanko-blog/internal/i18n"
	"finitefield.org/hanko-blog/internal/markdown"
	"finitefield.org/hanko-blog/internal/router"
	"finitefield.org/hanko-blog/internal/view"
)

// site is everything built from configuration that the commands share.
type site struct {
	app       *app.App
	rawFS     fs.FS
	converter *markdown.Provider
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Content.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.Content.CatalogFile)
}

func buildSite(cfg config.Config, c *catalog.Catalog, converter *markdown.Provider, logger *zap.Logger) (*site, error) {
	s := &site{converter: converter}

	var fetcher content.Fetcher
	if cfg.Content.BaseURL != "" {
		fetcher = content.NewHTTPFetcher(cfg.Content.BaseURL, cfg.Content.FetchTimeout)
	} else {
		s.rawFS = os.DirFS(cfg.Content.SiteRoot)
		fetcher = content.NewFSFetcher(s.rawFS)
	}

	mode, scheme := router.ModePath, content.SchemeSingle
	if cfg.Multilingual() {
		mode, scheme = router.ModeFragment, content.SchemeMultilingual
	}

	loader := content.NewLoader(c, fetcher, converter,
		content.WithScheme(scheme),
		content.WithLogger(logger.Named("content")),
	)
	views, err := view.New(i18n.Default(), mode)
	if err != nil {
		return nil, err
	}
	s.app = app.New(c, loader, views,
		app.WithLogger(logger.Named("app")),
		app.WithMultilingual(cfg.Multilingual()),
	)
	return s, nil
}

// startConverter initialises the Markdown converter in the background and waits for it
// at most cfg.Content.ConverterWait. Until it is ready posts are served as raw text.
func startConverter(ctx context.Context, cfg config.Config, logger *zap.Logger) *markdown.Provider {
	provider := markdown.NewProvider()
	go func() {
		var opts []markdown.Option
		if cfg.Content.Sanitize {
			opts = append(opts, markdown.WithSanitizer(markdown.PostPolicy()))
		}
		provider.Provide(markdown.New(opts...))
	}()

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Content.ConverterWait)
	defer cancel()
	if _, err := provider.Wait(waitCtx); err != nil {
		logger.Warn("markdown converter not ready, serving raw text until it is", zap.Error(err))
	}
	return provider
}
