package handler

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"

	"github.com/PressureTank/TextGen/backend/template"
)

//go:embed views/*.html
var viewFS embed.FS

var pageNames = []string{"index", "form", "generate", "generated"}

// page is the data handed to every view. Only the fields a view uses are set.
type page struct {
	Title    string
	Messages []string

	// index
	Templates []template.Template

	// form
	Action  string
	Name    string
	Content string

	// generate, generated
	ID           int64
	Placeholders []string
	Preview      string
	Generated    string
}

type views struct {
	pages map[string]*htmltemplate.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*htmltemplate.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := htmltemplate.ParseFS(viewFS, "views/layout.html", "views/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render executes the named view into a buffer first so a failing template
// never leaves a half-written response.
func (v *views) render(w io.Writer, name string, data page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render view %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
