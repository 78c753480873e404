package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ErrConverterUnavailable is returned while the converter has not been initialised yet.
var ErrConverterUnavailable = errors.New("markdown: converter unavailable")

// Converter turns Markdown text into HTML.
type Converter interface {
	Convert(src string) (string, error)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(src string) (string, error) { return f(src) }

// Goldmark is the goldmark-backed converter with GFM and generated heading ids.
type Goldmark struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Option customises a Goldmark converter.
type Option func(*Goldmark)

// WithSanitizer filters converted HTML through policy. Post bodies are author-controlled,
// so this is only needed when content comes from an origin the site does not own.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(g *Goldmark) {
		g.policy = policy
	}
}

// New builds a goldmark converter.
func New(opts ...Option) *Goldmark {
	g := &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Convert renders src to HTML.
func (g *Goldmark) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	out := buf.String()
	if g.policy != nil {
		out = g.policy.Sanitize(out)
	}
	return out, nil
}

// PostPolicy is the sanitising policy for post bodies.
func PostPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}
