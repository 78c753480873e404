package view

import (
	"fmt"
	"html/template"
	"io"
	"sync"
)

// Target receives rendered markup for a container element.
type Target interface {
	SetContent(id string, html template.HTML) error
}

// LangSetter is implemented by targets that carry a document language.
type LangSetter interface {
	SetLang(lang string) error
}

// Buffer is an in-memory Target. Each SetContent replaces the previous markup for id.
type Buffer struct {
	mu      sync.Mutex
	content map[string]template.HTML
	lang    string
	writes  int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{content: map[string]template.HTML{}}
}

func (b *Buffer) SetContent(id string, html template.HTML) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content[id] = html
	b.writes++
	return nil
}

func (b *Buffer) SetLang(lang string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lang = lang
	return nil
}

// Content returns the current markup for id.
func (b *Buffer) Content(id string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content[id]
}

// Lang returns the last document language set.
func (b *Buffer) Lang() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lang
}

// Writes counts SetContent calls.
func (b *Buffer) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// WriterTarget streams every render to w, e.g. a terminal or an HTTP response.
type WriterTarget struct {
	W io.Writer
}

func (t WriterTarget) SetContent(id string, html template.HTML) error {
	if _, err := io.WriteString(t.W, string(html)); err != nil {
		return fmt.Errorf("view: write %s: %w", id, err)
	}
	return nil
}
