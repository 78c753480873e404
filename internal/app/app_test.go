package app

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-blog/internal/catalog"
	"finitefield.org/hanko-blog/internal/content"
	"finitefield.org/hanko-blog/internal/i18n"
	"finitefield.org/hanko-blog/internal/markdown"
	"finitefield.org/hanko-blog/internal/preference"
	"finitefield.org/hanko-blog/internal/router"
	"finitefield.org/hanko-blog/internal/testutil"
	"finitefield.org/hanko-blog/internal/view"
)

func welcomeCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.Post{
		ID:    "welcome-to-my-blog",
		Date:  catalog.MustDate("2024-01-15"),
		Title: catalog.Localized(map[string]string{"en": "Welcome to My Blog", "ru": "Добро пожаловать в мой блог"}),
	})
	require.NoError(t, err)
	return c
}

func newApp(t *testing.T, mode router.Mode, files fstest.MapFS, multilingual bool) *App {
	t.Helper()
	scheme := content.SchemeSingle
	if multilingual {
		scheme = content.SchemeMultilingual
	}
	c := welcomeCatalog(t)
	loader := content.NewLoader(c, content.NewFSFetcher(files), markdown.Ready(markdown.New()), content.WithScheme(scheme))
	views, err := view.New(i18n.Default(), mode)
	require.NoError(t, err)
	return New(c, loader, views, WithMultilingual(multilingual))
}

func TestRoundTripPathMode(t *testing.T) {
	files := fstest.MapFS{"posts/welcome-to-my-blog.md": {Data: []byte("# Hello")}}
	a := newApp(t, router.ModePath, files, false)
	buf := view.NewBuffer()
	s := a.NewSession(nil, buf)
	ctx := context.Background()

	v, err := s.Show(ctx, router.State{Path: "/posts/welcome-to-my-blog.html"})
	require.NoError(t, err)
	require.True(t, v.Pending)
	shell := string(buf.Content(view.ContainerID))
	require.Contains(t, shell, "Welcome to My Blog")
	require.Contains(t, shell, "January 15, 2024")

	require.NoError(t, s.Complete(ctx, v))
	doc := testutil.ParseHTML(t, buf.Content(view.ContainerID))
	require.Equal(t, "Hello", doc.Find("article h1#hello").Text())
	require.Equal(t, "../index.html", doc.Find("a.back-link").AttrOr("href", ""))
	require.Equal(t, 2, buf.Writes())
}

func TestMissingTranslationFallsBackToEnglish(t *testing.T) {
	files := fstest.MapFS{"posts/welcome-to-my-blog.en.md": {Data: []byte("# Hello")}}
	a := newApp(t, router.ModeFragment, files, true)
	ctx := context.Background()

	store := preference.NewMemoryStore()
	require.NoError(t, store.Set(ctx, preference.StorageKey, "ru"))
	buf := view.NewBuffer()
	s := a.NewSession(preference.New(store), buf)

	require.NoError(t, s.Start(ctx, router.State{Fragment: "#welcome-to-my-blog"}))
	require.Equal(t, "ru", buf.Lang())

	doc := testutil.ParseHTML(t, buf.Content(view.ContainerID))
	require.Equal(t, "loaded", doc.Find(".post-content").AttrOr("data-state", ""))
	require.Equal(t, "Hello", doc.Find("article h1").Text())
	require.Equal(t, "en", doc.Find("article").AttrOr("lang", ""))
	require.Equal(t, "Добро пожаловать в мой блог", doc.Find(".post-content > h1").Text())
}

func TestUnknownFragmentShowsNotFound(t *testing.T) {
	a := newApp(t, router.ModeFragment, fstest.MapFS{}, true)
	buf := view.NewBuffer()
	s := a.NewSession(preference.New(preference.NewMemoryStore()), buf)

	require.NoError(t, s.Navigate(context.Background(), router.State{Fragment: "#nonexistent-post"}))

	doc := testutil.ParseHTML(t, buf.Content(view.ContainerID))
	require.Equal(t, 1, doc.Find(".post-not-found").Length())
	require.Equal(t, "#", doc.Find(".post-not-found a").AttrOr("href", ""))
	require.Zero(t, doc.Find("article.post-card").Length(), "the list must not be rendered")
	require.Equal(t, 1, buf.Writes(), "unknown posts never reach the loader")
}

func TestFetchErrorNamesRequestedPath(t *testing.T) {
	a := newApp(t, router.ModeFragment, fstest.MapFS{}, true)
	ctx := context.Background()
	store := preference.NewMemoryStore()
	require.NoError(t, store.Set(ctx, preference.StorageKey, "ru"))
	buf := view.NewBuffer()
	s := a.NewSession(preference.New(store), buf)

	require.NoError(t, s.Navigate(ctx, router.State{Fragment: "#welcome-to-my-blog"}))
	doc := testutil.ParseHTML(t, buf.Content(view.ContainerID))
	require.Equal(t, "error", doc.Find(".post-content").AttrOr("data-state", ""))
	require.Equal(t, "posts/welcome-to-my-blog.ru.md", doc.Find("code").Text())
}

func TestLanguageChangeRerendersCurrentView(t *testing.T) {
	a := newApp(t, router.ModeFragment, fstest.MapFS{}, true)
	ctx := context.Background()
	buf := view.NewBuffer()
	s := a.NewSession(preference.New(preference.NewMemoryStore()), buf)

	require.NoError(t, s.Start(ctx, router.State{}))
	require.Equal(t, "en", buf.Lang())
	require.Contains(t, string(buf.Content(view.ContainerID)), "Welcome to My Blog")

	require.NoError(t, s.SetLanguage(ctx, preference.Russian))
	require.Equal(t, "ru", buf.Lang())
	html := string(buf.Content(view.ContainerID))
	require.Contains(t, html, "Добро пожаловать в мой блог")
	require.True(t, strings.Contains(html, "post-card"), "the list stays the current view")

	require.ErrorIs(t, s.SetLanguage(ctx, preference.Code("de")), preference.ErrUnsupported)
}

func TestSingleDeploymentIgnoresPreference(t *testing.T) {
	a := newApp(t, router.ModePath, fstest.MapFS{}, false)
	ctx := context.Background()
	store := preference.NewMemoryStore()
	require.NoError(t, store.Set(ctx, preference.StorageKey, "ru"))
	s := a.NewSession(preference.New(store), view.NewBuffer())

	require.Equal(t, "en", s.Lang(ctx))
	require.Error(t, s.SetLanguage(ctx, preference.Russian))
}

func TestShowFragmentURL(t *testing.T) {
	a := newApp(t, router.ModePath, fstest.MapFS{}, false)

	v, err := a.Show(router.State{Path: "/welcome-to-my-blog.html"}, "en", ShowOptions{
		FragmentURL: func(tg router.Target) string { return "/fragments/posts/" + tg.PostID },
	})
	require.NoError(t, err)
	require.True(t, v.Pending)
	require.False(t, v.NotFound)
	doc := testutil.ParseHTML(t, v.HTML)
	require.Equal(t, "/fragments/posts/welcome-to-my-blog", doc.Find("article").AttrOr("hx-get", ""))
	require.Equal(t, "/", doc.Find("a.back-link").AttrOr("href", ""))
}
