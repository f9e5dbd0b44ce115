package openlibrary

// SearchResponse is the parsed body of GET /search.json.
type SearchResponse struct {
	Docs     []SearchDoc `json:"docs"`
	Start    int         `json:"start"`
	NumFound int         `json:"numFound"`
}

// SearchDoc is a single search hit. Optional fields are pointers or nil slices.
type SearchDoc struct {
	Title            string   `json:"title"`
	FirstPublishYear *int     `json:"first_publish_year,omitempty"`
	AuthorName       []string `json:"author_name,omitempty"`
	Seed             []string `json:"seed,omitempty"`
}

// DetailResponse is the parsed body of GET /api/books?jscmd=data, keyed by bibkey.
type DetailResponse map[string]DetailRecord

// DetailRecord holds the fields of a jscmd=data record the detail view uses.
type DetailRecord struct {
	Title         string  `json:"title"`
	Cover         *Cover  `json:"cover,omitempty"`
	NumberOfPages *int    `json:"number_of_pages,omitempty"`
	PublishDate   *string `json:"publish_date,omitempty"`
}

// Cover lists cover image URLs by size.
type Cover struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}
