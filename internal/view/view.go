package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"finitefield.org/hanko-blog/internal/catalog"
	"finitefield.org/hanko-blog/internal/content"
	"finitefield.org/hanko-blog/internal/format"
	"finitefield.org/hanko-blog/internal/i18n"
	"finitefield.org/hanko-blog/internal/router"
)

// ContainerID is the id of the element the views are rendered into.
const ContainerID = "blog-posts"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer builds the HTML fragments for the list and post views. Catalog titles,
// excerpts and converted post bodies are author-controlled and emitted as markup.
type Renderer struct {
	tmpl   *template.Template
	bundle *i18n.Bundle
	mode   router.Mode
}

// New parses the embedded templates.
func New(bundle *i18n.Bundle, mode router.Mode) (*Renderer, error) {
	tmpl, err := template.New("_root").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	if bundle == nil {
		bundle = i18n.Default()
	}
	return &Renderer{tmpl: tmpl, bundle: bundle, mode: router.New(mode).Mode()}, nil
}

// Mode returns the link style the renderer produces.
func (r *Renderer) Mode() router.Mode { return r.mode }

type listItem struct {
	ID      string
	Href    string
	Title   template.HTML
	Excerpt template.HTML
	Date    string
	ISODate string
}

type listData struct {
	Items    []listItem
	ReadMore string
	Empty    string
}

// RenderList renders the post list, newest first; posts sharing a date keep the order
// they were given in.
func (r *Renderer) RenderList(posts []catalog.Post, lang string) (template.HTML, error) {
	sorted := make([]catalog.Post, len(posts))
	copy(sorted, posts)
	catalog.SortNewestFirst(sorted)

	data := listData{
		Items:    make([]listItem, 0, len(sorted)),
		ReadMore: r.bundle.T(lang, "list.read_more"),
		Empty:    r.bundle.T(lang, "list.empty"),
	}
	for _, p := range sorted {
		data.Items = append(data.Items, listItem{
			ID:      p.ID,
			Href:    r.PostHref(p.ID),
			Title:   template.HTML(p.Title.In(lang)),
			Excerpt: template.HTML(p.Excerpt.In(lang)),
			Date:    format.FmtDate(p.Date, lang),
			ISODate: format.ISODate(p.Date),
		})
	}
	return r.execute("list", data)
}

// ShellOptions tune the loading view.
type ShellOptions struct {
	InPostsDir bool
	// LoadURL, when set, makes the placeholder request the result fragment itself.
	LoadURL string
}

type postData struct {
	ID          string
	State       string
	Lang        string
	ContainerID string

	BackHref  string
	BackLabel string

	Title   template.HTML
	Date    string
	ISODate string
	Body    template.HTML

	LoadingLabel string
	LoadURL      string

	NotFoundTitle string
	HomeHref      string
	HomeLabel     string

	ErrorTitle string
	ErrorBody  string
	Path       string
}

// RenderPostShell renders the post header with a loading placeholder.
func (r *Renderer) RenderPostShell(post catalog.Post, lang string, opts ShellOptions) (template.HTML, error) {
	data := r.postData(post, lang, content.Loading(), opts.InPostsDir)
	data.LoadURL = opts.LoadURL
	return r.execute("post", data)
}

// RenderPostResult renders the post view for a completed load.
func (r *Renderer) RenderPostResult(post catalog.Post, lang string, res content.Result, inPostsDir bool) (template.HTML, error) {
	return r.execute("post", r.postData(post, lang, res, inPostsDir))
}

func (r *Renderer) postData(post catalog.Post, lang string, res content.Result, inPostsDir bool) postData {
	data := r.basePost(post, lang, inPostsDir)
	switch res.Status {
	case content.StatusLoaded:
		data.State = "loaded"
		data.Body = res.HTML
		if res.Lang != "" {
			data.Lang = res.Lang
		}
	case content.StatusNotFound:
		data.State = "not_found"
	case content.StatusFetchError:
		data.State = "error"
		data.Path = res.Path
	default:
		data.State = "loading"
	}
	return data
}

func (r *Renderer) basePost(post catalog.Post, lang string, inPostsDir bool) postData {
	return postData{
		ID:            post.ID,
		ContainerID:   ContainerID,
		BackHref:      r.ListHref(inPostsDir),
		BackLabel:     r.bundle.T(lang, "post.back"),
		Title:         template.HTML(post.Title.In(lang)),
		Date:          format.FmtDate(post.Date, lang),
		ISODate:       format.ISODate(post.Date),
		LoadingLabel:  r.bundle.T(lang, "post.loading"),
		NotFoundTitle: r.bundle.T(lang, "post.not_found"),
		HomeHref:      r.ListHref(inPostsDir),
		HomeLabel:     r.bundle.T(lang, "post.back_home"),
		ErrorTitle:    r.bundle.T(lang, "post.error_title"),
		ErrorBody:     r.bundle.T(lang, "post.error_body"),
	}
}

// PostHref is the link to a post for the renderer's mode.
func (r *Renderer) PostHref(id string) string {
	if r.mode == router.ModeFragment {
		return "#" + id
	}
	return "posts/" + url.PathEscape(id) + ".html"
}

// ListHref is the link back to the list view.
func (r *Renderer) ListHref(inPostsDir bool) string {
	if r.mode == router.ModeFragment {
		return "#"
	}
	if inPostsDir {
		return "../index.html"
	}
	return "/"
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
