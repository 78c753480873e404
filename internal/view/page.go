package view

import (
	"html/template"

	"finitefield.org/hanko-blog/internal/router"
)

// LangOption is one entry of the language switcher.
type LangOption struct {
	Code     string
	Label    string
	Selected bool
}

// Page is the full document around the content container.
type Page struct {
	Lang    string
	Title   string
	Content template.HTML
	// Next is where the language switcher returns to.
	Next string
	// Multilingual enables the language switcher.
	Multilingual bool
}

type pageData struct {
	Lang           string
	Title          string
	SiteTitle      string
	Tagline        string
	LangLabel      string
	Languages      []LangOption
	Next           string
	ContainerID    string
	Content        template.HTML
	HashNavigation bool
}

// RenderPage renders the full HTML document for p.
func (r *Renderer) RenderPage(p Page) (template.HTML, error) {
	siteTitle := r.bundle.T(p.Lang, "site.title")
	data := pageData{
		Lang:           p.Lang,
		Title:          siteTitle,
		SiteTitle:      siteTitle,
		Tagline:        r.bundle.T(p.Lang, "site.tagline"),
		LangLabel:      r.bundle.T(p.Lang, "lang.label"),
		Next:           p.Next,
		ContainerID:    ContainerID,
		Content:        p.Content,
		HashNavigation: r.mode == router.ModeFragment,
	}
	if p.Title != "" {
		data.Title = p.Title + " | " + siteTitle
	}
	if data.Next == "" {
		data.Next = "/"
	}
	if p.Multilingual {
		for _, code := range r.bundle.Supported() {
			data.Languages = append(data.Languages, LangOption{
				Code:     code,
				Label:    r.bundle.T(code, "lang."+code),
				Selected: code == p.Lang,
			})
		}
	}
	return r.execute("page", data)
}
