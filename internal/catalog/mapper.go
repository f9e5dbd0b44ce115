package catalog

import (
	"regexp"
	"sort"
	"strings"

	bserrors "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/openlibrary"
)

var booksPathPattern = regexp.MustCompile(`/books/(.+)`)

// ExtractIdentifier finds the edition id in a search hit's seed references.
// The first reference mentioning "books" past its first character is matched against /books/<id>.
func ExtractIdentifier(seeds []string) (string, bool) {
	for _, seed := range seeds {
		if strings.Index(seed, "books") <= 0 {
			continue
		}
		m := booksPathPattern.FindStringSubmatch(seed)
		if len(m) < 2 || m[1] == "" {
			return "", false
		}
		return m[1], true
	}
	return "", false
}

// MapSearchDoc converts one search hit. ok is false when no identifier could be derived.
func MapSearchDoc(doc openlibrary.SearchDoc) (SearchResultItem, bool) {
	id, ok := ExtractIdentifier(doc.Seed)
	if !ok {
		return SearchResultItem{}, false
	}

	item := SearchResultItem{
		Title:      doc.Title,
		Identifier: id,
	}
	if len(doc.AuthorName) > 0 {
		item.Author = strings.Join(doc.AuthorName, ", ")
	}
	if doc.FirstPublishYear != nil {
		year := *doc.FirstPublishYear
		item.PublishedYear = &year
	}
	return item, true
}

// MapSearch converts a search response into a result page for query.
// Hits without an identifier are dropped; the order of the rest is kept.
func MapSearch(resp *openlibrary.SearchResponse, query SearchQuery) SearchResultPage {
	page := SearchResultPage{Items: []SearchResultItem{}}
	if resp == nil {
		return page
	}

	for _, doc := range resp.Docs {
		if item, ok := MapSearchDoc(doc); ok {
			page.Items = append(page.Items, item)
		}
	}

	if resp.Start+len(resp.Docs) < resp.NumFound {
		page.NextPageNumber = query.CurrentPage() + 1
	}
	return page
}

// MapDetail converts a books API response into a BookDetail.
// The record keyed OLID:<id> is preferred; otherwise the first key in sorted order is used.
func MapDetail(resp openlibrary.DetailResponse, query BookDetailQuery) (BookDetail, error) {
	rec, ok := pickRecord(resp, query)
	if !ok {
		return BookDetail{}, bserrors.ErrEmptyDetail
	}
	if rec.Title == "" {
		return BookDetail{}, bserrors.ErrMissingTitle
	}

	detail := BookDetail{Title: rec.Title}
	if rec.Cover != nil && rec.Cover.Medium != "" {
		cover := rec.Cover.Medium
		detail.CoverURL = &cover
	}
	if rec.NumberOfPages != nil {
		pages := *rec.NumberOfPages
		detail.PageCount = &pages
	}
	if rec.PublishDate != nil && *rec.PublishDate != "" {
		// the payload has a single publish date; it feeds both labels
		first, last := *rec.PublishDate, *rec.PublishDate
		detail.FirstPublishedLabel = &first
		detail.LastPublishedLabel = &last
	}
	return detail, nil
}

func pickRecord(resp openlibrary.DetailResponse, query BookDetailQuery) (openlibrary.DetailRecord, bool) {
	if len(resp) == 0 {
		return openlibrary.DetailRecord{}, false
	}
	if rec, ok := resp[openlibrary.BibKey(query.Identifier)]; ok {
		return rec, true
	}

	keys := make([]string, 0, len(resp))
	for k := range resp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return resp[keys[0]], true
}
