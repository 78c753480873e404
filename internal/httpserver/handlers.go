package httpserver

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/app"
	"finitefield.org/hanko-blog/internal/content"
	"finitefield.org/hanko-blog/internal/observability"
	"finitefield.org/hanko-blog/internal/preference"
	"finitefield.org/hanko-blog/internal/router"
	"finitefield.org/hanko-blog/internal/view"
)

// resultURL is where a post shell fetches its completed view from.
func resultURL(t router.Target) string {
	u := "/fragments/posts/" + url.PathEscape(t.PostID)
	if t.InPostsDir {
		u += "?dir=posts"
	}
	return u
}

func (s *Server) session(w http.ResponseWriter, r *http.Request, target view.Target) *app.Session {
	pref := preference.New(
		preference.NewCookieStore(w, r, s.secureCookies),
		preference.WithLogger(observability.FromContext(r.Context())),
	)
	return s.app.NewSession(pref, target, app.WithFragmentURL(resultURL), app.WithContext(r.Context()))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if p == "/index.html" {
		p = "/"
	}
	// Fragment mode addresses posts by hash, so only the root document exists.
	fragment := s.app.Renderer().Mode() == router.ModeFragment
	if p != "/" && (fragment || !strings.HasSuffix(p, ".html")) {
		http.NotFound(w, r)
		return
	}

	buf := view.NewBuffer()
	sess := s.session(w, r, buf)
	v, err := sess.Show(r.Context(), router.State{Path: p})
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}

	lang := sess.Lang(r.Context())
	page := view.Page{
		Lang:         lang,
		Content:      buf.Content(view.ContainerID),
		Next:         r.URL.RequestURI(),
		Multilingual: s.app.Multilingual(),
	}
	if v.Target.Kind == router.KindPost && !v.NotFound {
		page.Title = v.Post.Title.In(lang)
	}
	html, err := s.app.Renderer().RenderPage(page)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	status := http.StatusOK
	if v.NotFound {
		status = http.StatusNotFound
	}
	writeHTML(w, status, html)
}

func (s *Server) handleViewFragment(w http.ResponseWriter, r *http.Request) {
	buf := view.NewBuffer()
	sess := s.session(w, r, buf)
	v, err := sess.Show(r.Context(), router.State{Fragment: r.URL.Query().Get("hash")})
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	status := http.StatusOK
	if v.NotFound {
		status = http.StatusNotFound
	}
	writeHTML(w, status, buf.Content(view.ContainerID))
}

func (s *Server) handleResultFragment(w http.ResponseWriter, r *http.Request) {
	target := router.Target{
		Kind:       router.KindPost,
		PostID:     chi.URLParam(r, "id"),
		InPostsDir: r.URL.Query().Get("dir") == "posts",
	}
	sess := s.session(w, r, view.NewBuffer())
	html, res, err := s.app.Complete(r.Context(), target, sess.Lang(r.Context()))
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	status := http.StatusOK
	switch res.Status {
	case content.StatusNotFound:
		status = http.StatusNotFound
	case content.StatusFetchError:
		status = http.StatusBadGateway
	}
	writeHTML(w, status, html)
}

func (s *Server) handleSetLang(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	code, ok := preference.Parse(r.PostFormValue("lang"))
	if !ok {
		http.Error(w, "unsupported language", http.StatusBadRequest)
		return
	}
	pref := preference.New(
		preference.NewCookieStore(w, r, s.secureCookies),
		preference.WithLogger(observability.FromContext(r.Context())),
	)
	if err := pref.Set(r.Context(), code); err != nil {
		s.renderFailure(w, r, err)
		return
	}
	http.Redirect(w, r, safeNext(r.PostFormValue("next")), http.StatusSeeOther)
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("render failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, html template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}
