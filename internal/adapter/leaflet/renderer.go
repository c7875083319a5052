// Package leaflet realizes a mapview.Spec as a self-contained Leaflet page.
package leaflet

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/couchcryptid/quake-map/internal/mapview"
)

// Leaflet assets loaded by the page.
const (
	DefaultLeafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	DefaultLeafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

const templateName = "map.html.tmpl"

var funcs = template.FuncMap{
	// Swatch colors come from domain.DepthColor, never from feed text, so
	// they are safe to mark as CSS. html/template would otherwise reject the
	// parentheses in rgb().
	"swatch": func(color string) template.CSS {
		return template.CSS("background-color: " + color)
	},
	"rfc3339": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}

// page is the template data: the spec plus asset locations.
type page struct {
	mapview.Spec
	LeafletCSS string
	LeafletJS  string
}

// Renderer executes the embedded map template.
type Renderer struct {
	tmpl       *template.Template
	leafletCSS string
	leafletJS  string
}

// NewRenderer parses the embedded template. It panics if the template is
// invalid, which can only happen on a broken build.
func NewRenderer() *Renderer {
	tmpl := template.Must(template.New(templateName).Funcs(funcs).ParseFS(templateFS, "templates/"+templateName))
	return &Renderer{
		tmpl:       tmpl,
		leafletCSS: DefaultLeafletCSS,
		leafletJS:  DefaultLeafletJS,
	}
}

// Render writes the HTML page for spec to w.
func (r *Renderer) Render(w io.Writer, spec mapview.Spec) error {
	data := page{Spec: spec, LeafletCSS: r.leafletCSS, LeafletJS: r.leafletJS}
	if err := r.tmpl.ExecuteTemplate(w, templateName, data); err != nil {
		return fmt.Errorf("render map page: %w", err)
	}
	return nil
}

// RenderHTML renders into memory so a failed render never leaves a partial page.
func (r *Renderer) RenderHTML(spec mapview.Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, spec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderJSON encodes spec as indented JSON for map.json.
func RenderJSON(spec mapview.Spec) ([]byte, error) {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode map spec: %w", err)
	}
	return append(data, '\n'), nil
}
