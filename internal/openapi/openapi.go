// Package openapi loads the OpenAPI document served alongside the mock API.
package openapi

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CampaignsPath is the list endpoint every served document must declare.
const CampaignsPath = "/api/3/campaigns"

// ErrMissingCampaignsPath is returned for documents without GET /api/3/campaigns.
var ErrMissingCampaignsPath = errors.New("openapi document does not declare GET " + CampaignsPath)

//go:embed activecampaign-v3.yml
var embedded []byte

// Document is a parsed OpenAPI document.
type Document struct {
	raw  map[string]any
	json []byte
}

// Load reads a YAML or JSON document from path. An empty path loads the
// bundled document.
func Load(path string) (*Document, error) {
	if path == "" {
		return Parse(embedded)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read openapi document: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a document.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}

	root, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("openapi document root must be a mapping")
	}

	doc := &Document{raw: root}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	encoded, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}
	doc.json = encoded
	return doc, nil
}

func (d *Document) validate() error {
	paths, _ := d.raw["paths"].(map[string]any)
	item, _ := paths[CampaignsPath].(map[string]any)
	if item == nil || item["get"] == nil {
		return ErrMissingCampaignsPath
	}
	return nil
}

// JSON returns the document encoded as indented JSON.
func (d *Document) JSON() []byte {
	return d.json
}

// Title returns info.title, or an empty string.
func (d *Document) Title() string {
	info, _ := d.raw["info"].(map[string]any)
	title, _ := info["title"].(string)
	return title
}

// normalize converts YAML mappings with non-string keys (such as unquoted
// response codes) into JSON-compatible maps.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

var referencePage = template.Must(template.New("reference").Parse(`<!doctype html>
<html>
  <head>
    <title>{{.Title}}</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" data-url="{{.SpecURL}}" data-configuration='{"theme":"default","layout":"modern"}'></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>
`))

// WriteReferencePage renders an HTML API explorer that loads the document
// from specURL.
func WriteReferencePage(w io.Writer, title, specURL string) error {
	return referencePage.Execute(w, struct {
		Title   string
		SpecURL string
	}{title, specURL})
}
