package document

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/psychgraph/dsmviz/pkg/logging"
	"github.com/psychgraph/dsmviz/pkg/metrics"
	"github.com/psychgraph/dsmviz/pkg/style"
)

//go:embed templates/*.tmpl
var templates embed.FS

// WriteError indicates the output document could not be written
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write document to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// templateData carries pre-marshaled JSON into the document template. The
// values are embedded inside <script> blocks, so they are injected as
// template.JS after passing through encoding/json.
type templateData struct {
	Nodes        template.JS
	Edges        template.JS
	Palette      template.JS
	CategoryInfo template.JS
	Metrics      template.JS
}

// Render writes the interactive document to w. The annotated snapshot and
// metrics are embedded verbatim; all interactivity operates on the embedded
// copy and never feeds back.
func Render(w io.Writer, annotated *style.Annotated, m *metrics.Metrics) error {
	tmpl, err := template.ParseFS(templates, "templates/document.html.tmpl")
	if err != nil {
		return fmt.Errorf("parsing document template: %w", err)
	}

	data, err := marshalData(annotated, m)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, data)
}

// Generate renders the document and writes it to path. The write is atomic:
// a failed render never leaves a partial document behind.
func Generate(annotated *style.Annotated, m *metrics.Metrics, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dsmviz-*.html")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Render(tmp, annotated, m); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	logging.Info("wrote document", "path", path,
		"nodes", len(annotated.Nodes), "edges", len(annotated.Edges))
	return nil
}

func marshalData(annotated *style.Annotated, m *metrics.Metrics) (*templateData, error) {
	data := &templateData{}

	fields := []struct {
		value any
		out   *template.JS
	}{
		{annotated.Nodes, &data.Nodes},
		{annotated.Edges, &data.Edges},
		{annotated.Palette, &data.Palette},
		{annotated.CategoryInfo, &data.CategoryInfo},
		{m, &data.Metrics},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("marshaling document data: %w", err)
		}
		*f.out = template.JS(b)
	}

	return data, nil
}
