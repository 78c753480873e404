package httpserver

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/app"
	"finitefield.org/hanko-blog/internal/config"
	"finitefield.org/hanko-blog/internal/observability"
)

//go:embed assets/*
var assetFS embed.FS

const (
	assetsCacheControl = "public, max-age=604800, stale-while-revalidate=86400"
	rawCacheControl    = "public, max-age=300"
)

// Server serves the blog pages and fragments.
type Server struct {
	app            *app.App
	logger         *zap.Logger
	rawFS          fs.FS
	secureCookies  bool
	requestTimeout time.Duration
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRawFS serves Markdown sources from fsys under /raw/.
func WithRawFS(fsys fs.FS) Option {
	return func(s *Server) { s.rawFS = fsys }
}

// WithSecureCookies marks the language cookie Secure.
func WithSecureCookies(on bool) Option {
	return func(s *Server) { s.secureCookies = on }
}

// WithRequestTimeout bounds each request, including content fetches.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// New builds a server for a.
func New(a *app.App, opts ...Option) *Server {
	s := &Server{
		app:            a,
		logger:         zap.NewNop(),
		requestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.HTMX)
	r.Use(observability.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets, _ := fs.Sub(assetFS, "assets")
	r.Handle("/assets/*", http.StripPrefix("/assets", cachedFiles(assets, assetsCacheControl)))
	if s.rawFS != nil {
		r.Handle("/raw/*", http.StripPrefix("/raw", rawMarkdown(s.rawFS, rawCacheControl)))
	}

	r.Group(func(r chi.Router) {
		if s.app.Multilingual() {
			r.Use(varyCookie)
		}
		r.Get("/", s.handlePage)
		r.Get("/index.html", s.handlePage)
		r.Get("/{page}", s.handlePage)
		r.Get("/posts/{page}", s.handlePage)
		r.Get("/fragments/view", s.handleViewFragment)
		r.Get("/fragments/posts/{id}", s.handleResultFragment)
		if s.app.Multilingual() {
			r.Post("/lang", s.handleSetLang)
		}
	})

	return r
}

// Reloadable is a handler whose target can be replaced while serving.
type Reloadable struct {
	h atomic.Pointer[http.Handler]
}

// NewReloadable wraps h.
func NewReloadable(h http.Handler) *Reloadable {
	r := &Reloadable{}
	r.Swap(h)
	return r
}

// Swap replaces the handler for subsequent requests.
func (r *Reloadable) Swap(h http.Handler) { r.h.Store(&h) }

func (r *Reloadable) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	(*r.h.Load()).ServeHTTP(w, req)
}

// Serve runs h on cfg's address until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg config.ServerConfig, h http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("blog listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func varyCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}
