package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lepinkainen/bookshelf/internal/catalog"
)

func TestRenderDetailOmitsAbsentFields(t *testing.T) {
	out := renderDetail(catalog.BookDetail{Title: "Dune", PageCount: intPtr(412)}, defaultListWidth)

	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Pages: 412")
	assert.NotContains(t, out, "First published")
	assert.NotContains(t, out, "Last published")
	assert.NotContains(t, out, "http")
}

func TestRenderDetailAllFields(t *testing.T) {
	out := renderDetail(catalog.BookDetail{
		Title:               "Dune",
		CoverURL:            strPtr("https://covers.openlibrary.org/b/id/1-M.jpg"),
		PageCount:           intPtr(412),
		FirstPublishedLabel: strPtr("1965"),
		LastPublishedLabel:  strPtr("1965"),
	}, defaultListWidth)

	assert.Contains(t, out, "https://covers.openlibrary.org/b/id/1-M.jpg")
	assert.Contains(t, out, "First published: 1965")
	assert.Contains(t, out, "Last published: 1965")

	pages := strings.Index(out, "Pages")
	first := strings.Index(out, "First published")
	last := strings.Index(out, "Last published")
	assert.True(t, pages < first && first < last, "properties keep their order")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a   b", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijkl", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "äöü...", truncate("äöüäöüäöü", 6))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 72, clamp(72, 0, 40))
	assert.Equal(t, 50, clamp(72, 50, 40))
	assert.Equal(t, 40, clamp(72, 10, 40))
}
