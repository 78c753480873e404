package app

import (
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/catalog"
	"finitefield.org/hanko-blog/internal/content"
	"finitefield.org/hanko-blog/internal/router"
	"finitefield.org/hanko-blog/internal/view"
)

// App wires the catalog, router, loader and renderer. It holds no per-view state and is
// safe for concurrent use.
type App struct {
	catalog      *catalog.Catalog
	router       router.Router
	loader       *content.Loader
	views        *view.Renderer
	logger       *zap.Logger
	multilingual bool
}

// Option customises an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMultilingual enables per-session language selection. Without it every view is
// rendered in English.
func WithMultilingual(on bool) Option {
	return func(a *App) { a.multilingual = on }
}

// New builds an App. The router uses the renderer's link mode so resolved locations and
// generated links agree.
func New(c *catalog.Catalog, loader *content.Loader, views *view.Renderer, opts ...Option) *App {
	a := &App{
		catalog: c,
		router:  router.New(views.Mode()),
		loader:  loader,
		views:   views,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Renderer() *view.Renderer { return a.views }
func (a *App) Multilingual() bool       { return a.multilingual }

// View is the immediate rendering of a navigation.
type View struct {
	Target router.Target
	Post   catalog.Post
	HTML   template.HTML
	// Pending is set when the post body still has to be loaded through Complete.
	Pending bool
	// NotFound is set when the location names a post outside the catalog.
	NotFound bool
}

// ShowOptions tune Show.
type ShowOptions struct {
	// FragmentURL, when set, gives the URL the loading placeholder fetches its result from.
	FragmentURL func(router.Target) string
}

// Show resolves state and renders the view that can be shown without I/O: the list, the
// post shell, or the not-found view for unknown ids.
func (a *App) Show(state router.State, lang string, opts ShowOptions) (View, error) {
	target := a.router.Resolve(state)
	v := View{Target: target}

	if target.Kind == router.KindList {
		html, err := a.views.RenderList(a.catalog.Posts(), lang)
		if err != nil {
			return View{}, err
		}
		v.HTML = html
		return v, nil
	}

	post, ok := a.catalog.Lookup(target.PostID)
	if !ok {
		v.NotFound = true
		v.Post = catalog.Post{ID: target.PostID}
		res := content.Result{
			Status: content.StatusNotFound,
			Err:    fmt.Errorf("%w: %s", content.ErrPostNotFound, target.PostID),
		}
		html, err := a.views.RenderPostResult(v.Post, lang, res, target.InPostsDir)
		if err != nil {
			return View{}, err
		}
		v.HTML = html
		return v, nil
	}

	shell := view.ShellOptions{InPostsDir: target.InPostsDir}
	if opts.FragmentURL != nil {
		shell.LoadURL = opts.FragmentURL(target)
	}
	html, err := a.views.RenderPostShell(post, lang, shell)
	if err != nil {
		return View{}, err
	}
	v.Post = post
	v.HTML = html
	v.Pending = true
	return v, nil
}

// Complete loads the post body for target and renders the outcome. The returned Result
// tells the caller which view was produced.
func (a *App) Complete(ctx context.Context, target router.Target, lang string) (template.HTML, content.Result, error) {
	res := a.loader.Load(ctx, content.Request{
		PostID:     target.PostID,
		Lang:       lang,
		InPostsDir: target.InPostsDir,
	})
	post, ok := a.catalog.Lookup(target.PostID)
	if !ok {
		post = catalog.Post{ID: target.PostID}
	}
	if res.Status == content.StatusFetchError {
		a.logger.Warn("post view rendered with error",
			zap.String("post_id", target.PostID),
			zap.String("path", res.Path),
			zap.Error(res.Err),
		)
	}
	html, err := a.views.RenderPostResult(post, lang, res, target.InPostsDir)
	if err != nil {
		return "", res, err
	}
	return html, res, nil
}
