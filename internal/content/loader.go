package content

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"path"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/catalog"
	"finitefield.org/hanko-blog/internal/markdown"
)

var (
	// ErrPostNotFound means the requested id is not in the catalog.
	ErrPostNotFound = errors.New("content: post not found")
	// ErrFetch means the Markdown resource could not be retrieved or converted.
	ErrFetch = errors.New("content: resource fetch failed")
)

// FetchError records the resource path the page asked for and the underlying failure.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("content: load %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrFetch and the cause.
func (e *FetchError) Unwrap() []error { return []error{ErrFetch, e.Err} }

// Scheme selects how post ids map to Markdown files.
type Scheme string

const (
	// SchemeSingle uses posts/{id}.md.
	SchemeSingle Scheme = "single"
	// SchemeMultilingual uses posts/{id}.{lang}.md with an English fallback.
	SchemeMultilingual Scheme = "multilingual"
)

// FallbackLang is the language whose file every multilingual post must provide.
const FallbackLang = "en"

const postsDir = "posts"

// Status tags a Result.
type Status int

const (
	StatusLoading Status = iota
	StatusLoaded
	StatusNotFound
	StatusFetchError
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusNotFound:
		return "not_found"
	case StatusFetchError:
		return "fetch_error"
	default:
		return "loading"
	}
}

// Result is the outcome of a load. It is never cached.
type Result struct {
	Status Status
	HTML   template.HTML
	// Path is the resource path as requested by the page; for fetch errors it is the
	// primary path, even when a fallback was also tried.
	Path     string
	Lang     string
	FellBack bool
	Err      error
}

// Loading is the placeholder result shown before a load completes.
func Loading() Result { return Result{Status: StatusLoading} }

// Request identifies the post to load.
type Request struct {
	PostID     string
	Lang       string
	InPostsDir bool
}

// Loader fetches and converts post bodies.
type Loader struct {
	catalog   *catalog.Catalog
	fetcher   Fetcher
	converter markdown.Converter
	scheme    Scheme
	logger    *zap.Logger
}

// Option customises a Loader.
type Option func(*Loader)

// WithScheme sets the resource scheme. The default is SchemeSingle.
func WithScheme(s Scheme) Option {
	return func(l *Loader) {
		if s == SchemeMultilingual {
			l.scheme = SchemeMultilingual
		} else {
			l.scheme = SchemeSingle
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader builds a loader. converter may be a *markdown.Provider that is not ready yet.
func NewLoader(c *catalog.Catalog, fetcher Fetcher, converter markdown.Converter, opts ...Option) *Loader {
	l := &Loader{
		catalog:   c,
		fetcher:   fetcher,
		converter: converter,
		scheme:    SchemeSingle,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves, fetches and converts the post body. It never panics on fetch or convert
// failures; those become StatusFetchError.
func (l *Loader) Load(ctx context.Context, req Request) (res Result) {
	if !l.catalog.Has(req.PostID) {
		return Result{Status: StatusNotFound, Err: fmt.Errorf("%w: %s", ErrPostNotFound, req.PostID)}
	}
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Status: StatusFetchError,
				Path:   res.Path,
				Err:    &FetchError{Path: res.Path, Err: fmt.Errorf("panic: %v", r)},
			}
		}
	}()

	attempts := l.attempts(req)
	res.Path = attempts[0].display
	var firstErr error
	for i, a := range attempts {
		text, err := l.fetcher.FetchText(ctx, a.fetch)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			l.logger.Debug("content fetch failed",
				zap.String("post_id", req.PostID),
				zap.String("path", a.fetch),
				zap.Error(err),
			)
			continue
		}
		html, err := l.convert(text)
		if err != nil {
			return l.fail(req, attempts[0].display, err)
		}
		if i > 0 {
			l.logger.Debug("content served from fallback language",
				zap.String("post_id", req.PostID),
				zap.String("requested_lang", req.Lang),
				zap.String("path", a.fetch),
			)
		}
		return Result{
			Status:   StatusLoaded,
			HTML:     template.HTML(html),
			Path:     attempts[0].display,
			Lang:     a.lang,
			FellBack: i > 0,
		}
	}
	return l.fail(req, attempts[0].display, firstErr)
}

func (l *Loader) fail(req Request, display string, err error) Result {
	l.logger.Warn("content load failed",
		zap.String("post_id", req.PostID),
		zap.String("path", display),
		zap.Error(err),
	)
	return Result{
		Status: StatusFetchError,
		Path:   display,
		Lang:   req.Lang,
		Err:    &FetchError{Path: display, Err: err},
	}
}

// convert passes raw text through while the converter is still initialising.
func (l *Loader) convert(text string) (string, error) {
	if l.converter == nil {
		return text, nil
	}
	html, err := l.converter.Convert(text)
	if errors.Is(err, markdown.ErrConverterUnavailable) {
		l.logger.Debug("markdown converter not ready, serving raw text")
		return text, nil
	}
	return html, err
}

type attempt struct {
	// display is the path relative to the page, fetch the site-relative path.
	display string
	fetch   string
	lang    string
}

func (l *Loader) attempts(req Request) []attempt {
	if l.scheme == SchemeSingle {
		name := req.PostID + ".md"
		display := path.Join(postsDir, name)
		if req.InPostsDir {
			display = name
		}
		return []attempt{{display: display, fetch: path.Join(postsDir, name), lang: req.Lang}}
	}
	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = FallbackLang
	}
	primary := path.Join(postsDir, req.PostID+"."+lang+".md")
	out := []attempt{{display: primary, fetch: primary, lang: lang}}
	if lang != FallbackLang {
		fallback := path.Join(postsDir, req.PostID+"."+FallbackLang+".md")
		out = append(out, attempt{display: fallback, fetch: fallback, lang: FallbackLang})
	}
	return out
}
