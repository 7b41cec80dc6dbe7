// Package views renders the dashboard's server-side HTML pages and serves
// the static assets they reference.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageLogin           = "login.html"
	PageDashboard       = "dashboard.html"
	PageVehicleDetail   = "vehicle_detail.html"
	PageChargingHistory = "charging_history.html"
	PageAlerts          = "alerts.html"
	PageNotFound        = "not_found.html"
	PageError           = "error.html"
)

var pages = []string{
	PageLogin,
	PageDashboard,
	PageVehicleDetail,
	PageChargingHistory,
	PageAlerts,
	PageNotFound,
	PageError,
}

// TimeLayout is how timestamps are shown in tables.
const TimeLayout = "2006-01-02 15:04:05"

// Page is the data passed to every template.
type Page struct {
	Title     string
	Username  string
	Flash     string
	CSRFField template.HTML
	Data      any
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcMap()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		r.pages[name] = tpl
	}
	return r, nil
}

// Render executes page into a buffer and writes it with status. Nothing is
// written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.UTC().Format(TimeLayout)
		},
		"formatTimePtr": func(t *time.Time, empty string) string {
			if t == nil {
				return empty
			}
			return t.UTC().Format(TimeLayout)
		},
		"formatFloat": func(v *float64, unit string) string {
			if v == nil {
				return "-"
			}
			return strings.TrimSpace(fmt.Sprintf("%.1f %s", *v, unit))
		},
		"statusClass": func(s any) string {
			return "status-" + strings.ToLower(fmt.Sprint(s))
		},
	}
}
