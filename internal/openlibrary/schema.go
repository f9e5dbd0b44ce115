package openlibrary

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const searchSchemaJSON = `{
  "type": "object",
  "required": ["docs", "start", "numFound"],
  "properties": {
    "start": {"type": "integer"},
    "numFound": {"type": "integer"},
    "docs": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "first_publish_year": {"type": "integer"},
          "author_name": {"type": "array", "items": {"type": "string"}},
          "seed": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

const detailSchemaJSON = `{
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "properties": {
      "title": {"type": "string"},
      "cover": {
        "type": "object",
        "properties": {"medium": {"type": "string"}}
      },
      "number_of_pages": {"type": "integer"},
      "publish_date": {"type": "string"}
    }
  }
}`

var (
	searchSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(searchSchemaJSON))
	})
	detailSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(detailSchemaJSON))
	})
)

// validateShape checks body against schema before it is decoded.
func validateShape(schema func() (*gojsonschema.Schema, error), body []byte) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("unexpected response shape: %s", strings.Join(problems, "; "))
}
