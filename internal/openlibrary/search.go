package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchURL builds the search request URL. The page parameter is only sent when page > 0.
func (c *Client) SearchURL(text string, page int) string {
	params := url.Values{}
	params.Set("q", text)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf("%s?%s", c.searchURL, params.Encode())
}

// Search runs a catalog search for text.
func (c *Client) Search(ctx context.Context, text string, page int) (*SearchResponse, error) {
	var response SearchResponse
	if err := c.getJSON(ctx, opSearch, c.SearchURL(text, page), searchSchema, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
