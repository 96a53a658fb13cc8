// Package view renders the embedded html/template pages used for printable
// document previews.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutName = "layout.html"

var tplCache = struct {
	sync.RWMutex
	m map[string]*template.Template
}{m: map[string]*template.Template{}}

// Funcs returns the func map shared by every page.
func Funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":      func(code string) string { return i18n.T(lang, code) },
		"lang":   func() string { return lang },
		"rupiah": i18n.FormatRupiah,
		"terbilang": func(d decimal.Decimal) string {
			return i18n.Terbilang(d.Round(0).IntPart()) + " rupiah"
		},
		"qty": func(d decimal.Decimal) string { return d.String() },
		"inc": func(i int) int { return i + 1 },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

func lookup(lang, name string) (*template.Template, error) {
	key := lang + "/" + name
	tplCache.RLock()
	t, ok := tplCache.m[key]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	t, err := template.New(layoutName).Funcs(Funcs(lang)).
		ParseFS(templateFS, "templates/"+layoutName, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	tplCache.Lock()
	tplCache.m[key] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes page name inside the layout.
func Render(w io.Writer, lang, name string, data any) error {
	t, err := lookup(lang, name)
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}

// RenderHTTP renders into a buffer first so a template error still yields a
// clean error response.
func RenderHTTP(w http.ResponseWriter, r *http.Request, name string, data any) error {
	var buf bytes.Buffer
	if err := Render(&buf, i18n.LangFromContext(r.Context()), name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// ResetForTests clears the parsed template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}
