package router

import "testing"

func TestResolvePathMode(t *testing.T) {
	r := New(ModePath)
	cases := []struct {
		path string
		want Target
	}{
		{"/posts/welcome-to-my-blog.html", Target{Kind: KindPost, PostID: "welcome-to-my-blog", InPostsDir: true}},
		{"/welcome-to-my-blog.html", Target{Kind: KindPost, PostID: "welcome-to-my-blog"}},
		{"/blog/posts/a%20b.html", Target{Kind: KindPost, PostID: "a%20b", InPostsDir: true}},
		{"/index.html", Target{Kind: KindPost, PostID: "index"}},
		{"/", List},
		{"", List},
		{"/posts/", List},
		{"/posts/welcome.md", List},
		{"/posts/welcome.html/extra", List},
	}
	for _, tc := range cases {
		got := r.Resolve(State{Path: tc.path})
		if got != tc.want {
			t.Errorf("Resolve(%q) = %+v, want %+v", tc.path, got, tc.want)
		}
	}
}

func TestResolveFragmentMode(t *testing.T) {
	r := New(ModeFragment)
	cases := []struct {
		fragment string
		want     Target
	}{
		{"#welcome-to-my-blog", Target{Kind: KindPost, PostID: "welcome-to-my-blog"}},
		{"welcome-to-my-blog", Target{Kind: KindPost, PostID: "welcome-to-my-blog"}},
		{"#nonexistent-post", Target{Kind: KindPost, PostID: "nonexistent-post"}},
		{"#caf%C3%A9", Target{Kind: KindPost, PostID: "caf%C3%A9"}},
		{"#", List},
		{"", List},
	}
	for _, tc := range cases {
		got := r.Resolve(State{Fragment: tc.fragment, Path: "/posts/ignored.html"})
		if got != tc.want {
			t.Errorf("Resolve(%q) = %+v, want %+v", tc.fragment, got, tc.want)
		}
	}
}

func TestUnknownModeFallsBackToPath(t *testing.T) {
	r := New(Mode("bogus"))
	if r.Mode() != ModePath {
		t.Fatalf("expected path mode, got %s", r.Mode())
	}
}
