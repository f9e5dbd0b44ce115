package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/bookshelf/internal/catalog"
)

// writeOutput encodes v as json or yaml, or writes text() for the text format.
func writeOutput(w io.Writer, format string, v any, text func() string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "", "text":
		_, err := io.WriteString(w, text())
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func formatSearchText(q catalog.SearchQuery, page catalog.SearchResultPage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Results for %q (page %d)\n", q.Text, q.CurrentPage())

	if page.Empty() {
		sb.WriteString("No results\n")
		return sb.String()
	}

	for i, item := range page.Items {
		fmt.Fprintf(&sb, "%3d. %s [%s]\n", i+1, item.Label(), item.Identifier)
	}
	if page.HasNext() {
		fmt.Fprintf(&sb, "Next page: %d\n", page.NextPageNumber)
	}
	return sb.String()
}

func formatDetailText(book catalog.BookDetail) string {
	var sb strings.Builder
	sb.WriteString(book.Title)
	sb.WriteString("\n")

	if book.CoverURL != nil {
		fmt.Fprintf(&sb, "Cover: %s\n", *book.CoverURL)
	}
	if book.PageCount != nil {
		fmt.Fprintf(&sb, "Pages: %d\n", *book.PageCount)
	}
	if book.FirstPublishedLabel != nil {
		fmt.Fprintf(&sb, "First published: %s\n", *book.FirstPublishedLabel)
	}
	if book.LastPublishedLabel != nil {
		fmt.Fprintf(&sb, "Last published: %s\n", *book.LastPublishedLabel)
	}
	return sb.String()
}
