package preference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk on fire")
}

func TestParseNormalisesCodes(t *testing.T) {
	t.Parallel()

	cases := map[string]Code{"en": English, "EN": English, "en-US": English, "ru": Russian, "ru-RU": Russian}
	for in, want := range cases {
		got, ok := Parse(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "de", "not a tag"} {
		_, ok := Parse(in)
		require.False(t, ok, in)
	}
}

func TestGetDefaultsToEnglish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	p := New(store)
	require.Equal(t, English, p.Get(ctx))

	require.NoError(t, store.Set(ctx, StorageKey, "klingon"))
	require.Equal(t, English, p.Get(ctx), "unrecognised values fall back to the default")

	require.Equal(t, English, New(failingStore{}).Get(ctx))
}

func TestSetPersistsThenNotifies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	p := New(store)
	var seen []Code
	p.Subscribe(func(c Code) {
		v, ok, _ := store.Get(ctx, StorageKey)
		require.True(t, ok, "value must be persisted before subscribers run")
		require.Equal(t, string(c), v)
		seen = append(seen, c)
	})

	require.NoError(t, p.Set(ctx, Russian))
	require.Equal(t, Russian, p.Get(ctx))
	require.Equal(t, []Code{Russian}, seen)

	require.ErrorIs(t, p.Set(ctx, Code("de")), ErrUnsupported)
	require.Equal(t, []Code{Russian}, seen, "rejected codes must not notify")

	require.Error(t, New(failingStore{}).Set(ctx, English))
}

func TestCookieStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: StorageKey, Value: "ru"})
	rec := httptest.NewRecorder()
	p := New(NewCookieStore(rec, req, false))
	require.Equal(t, Russian, p.Get(ctx))

	require.NoError(t, p.Set(ctx, English))
	require.Equal(t, English, p.Get(ctx), "value written in this request wins over the request cookie")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, StorageKey, cookies[0].Name)
	require.Equal(t, "en", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	p := New(store)
	require.Equal(t, English, p.Get(ctx))
	require.NoError(t, p.Set(ctx, Russian))
	require.NoError(t, p.Set(ctx, Russian))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, Russian, New(reopened).Get(ctx))
}
