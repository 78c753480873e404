package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLang is the language used when a text has no entry for the requested one.
const DefaultLang = "en"

// ErrDuplicateID is returned when two posts share an id.
var ErrDuplicateID = errors.New("catalog: duplicate post id")

// Post is the metadata of a single blog entry. The body lives in a Markdown file whose
// name stem equals ID.
type Post struct {
	ID      string
	Date    time.Time
	Title   Text
	Excerpt Text
}

// Catalog is the immutable, ordered list of posts known to the site.
type Catalog struct {
	posts []Post
	index map[string]int
}

// New builds a catalog, keeping the given order and rejecting empty or duplicate ids.
func New(posts ...Post) (*Catalog, error) {
	c := &Catalog{
		posts: make([]Post, 0, len(posts)),
		index: make(map[string]int, len(posts)),
	}
	for _, p := range posts {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, errors.New("catalog: empty post id")
		}
		if _, ok := c.index[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		p.ID = id
		c.index[id] = len(c.posts)
		c.posts = append(c.posts, p)
	}
	return c, nil
}

// Lookup returns the post with the given id.
func (c *Catalog) Lookup(id string) (Post, bool) {
	if c == nil {
		return Post{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Post{}, false
	}
	return c.posts[i], true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.Lookup(id)
	return ok
}

// Len returns the number of posts.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.posts)
}

// Posts returns a copy of the posts in catalog order.
func (c *Catalog) Posts() []Post {
	if c == nil {
		return nil
	}
	out := make([]Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Newest returns the posts ordered by date, newest first. Posts sharing a date keep
// their catalog order.
func (c *Catalog) Newest() []Post {
	out := c.Posts()
	SortNewestFirst(out)
	return out
}

// SortNewestFirst sorts posts in place by date descending; equal dates keep their order.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}

type fileCatalog struct {
	Posts []filePost `yaml:"posts"`
}

type filePost struct {
	ID      string `yaml:"id"`
	Date    string `yaml:"date"`
	Title   Text   `yaml:"title"`
	Excerpt Text   `yaml:"excerpt"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	posts := make([]Post, 0, len(doc.Posts))
	for _, fp := range doc.Posts {
		date, err := ParseDate(fp.Date)
		if err != nil {
			return nil, fmt.Errorf("catalog: post %q: %w", fp.ID, err)
		}
		if fp.Title.IsZero() {
			fp.Title = Plain(fp.ID)
		}
		posts = append(posts, Post{
			ID:      fp.ID,
			Date:    date,
			Title:   fp.Title,
			Excerpt: fp.Excerpt,
		})
	}
	return New(posts...)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// ParseDate accepts the ISO calendar date form and a few lenient variants.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("missing date")
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006/01/02",
		"2006-1-2",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}

// MustDate parses an ISO date and panics on malformed input. Used for static tables.
func MustDate(v string) time.Time {
	t, err := ParseDate(v)
	if err != nil {
		panic(err)
	}
	return t
}
