package testutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses rendered markup into a goquery document for assertions.
func ParseHTML[T ~string | ~[]byte](t testing.TB, body T) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}
