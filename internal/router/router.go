package router

import (
	"regexp"
	"strings"
)

// Mode selects how navigation state is read. The two modes are exclusive deployment choices.
type Mode string

const (
	// ModePath reads the post id from URLs like /posts/{id}.html or /{id}.html.
	ModePath Mode = "path"
	// ModeFragment reads the post id from the URL fragment, #{id}.
	ModeFragment Mode = "fragment"
)

// Kind is the top-level view a navigation resolves to.
type Kind int

const (
	KindList Kind = iota
	KindPost
)

func (k Kind) String() string {
	if k == KindPost {
		return "post"
	}
	return "list"
}

// State is the navigation state of the page.
type State struct {
	Path     string
	Fragment string
}

// Target is the resolved view. PostID is not checked against the catalog; an unknown id
// becomes a not-found view at render time.
type Target struct {
	Kind       Kind
	PostID     string
	InPostsDir bool
}

// List is the list-view target.
var List = Target{Kind: KindList}

var postPathPattern = regexp.MustCompile(`/(?:posts/)?([^/]+)\.html$`)

// Router resolves navigation state for one deployment mode.
type Router struct {
	mode Mode
}

// New returns a router for mode. Unknown modes behave like ModePath.
func New(mode Mode) Router {
	if mode != ModeFragment {
		mode = ModePath
	}
	return Router{mode: mode}
}

// Mode returns the configured mode.
func (r Router) Mode() Mode { return r.mode }

// Resolve maps state to a target.
func (r Router) Resolve(state State) Target {
	if r.mode == ModeFragment {
		return resolveFragment(state.Fragment)
	}
	return resolvePath(state.Path)
}

func resolvePath(path string) Target {
	m := postPathPattern.FindStringSubmatch(path)
	if m == nil {
		return List
	}
	return Target{
		Kind:       KindPost,
		PostID:     m[1],
		InPostsDir: strings.Contains(path, "/posts/"),
	}
}

func resolveFragment(fragment string) Target {
	id := strings.TrimPrefix(fragment, "#")
	if id == "" {
		return List
	}
	return Target{Kind: KindPost, PostID: id}
}
