// Package site renders the static ranking pages: one page per window
// (daily/monthly/all-time) plus an index that redirects to the monthly view.
// The pages are plain artifacts; serving them is someone else's job.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/dukerupert/ouenpt/internal/model"
	"github.com/dukerupert/ouenpt/internal/rank"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxTableRows = 20

type row struct {
	Rank   int
	Name   string
	Points int
}

type pageData struct {
	Title   string
	Updated string
	Active  string
	Labels  []string
	Values  []int
	Rows    []row
}

// Renderer writes the ranking pages into a directory.
type Renderer struct {
	outDir string
	tmpl   *template.Template
	now    func() time.Time
}

func NewRenderer(outDir string) *Renderer {
	return &Renderer{
		outDir: outDir,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
		now:    time.Now,
	}
}

// Render recomputes all three rankings from the given events and rewrites
// every page. Per-page failures are collected so one bad write does not hide
// the others.
func (r *Renderer) Render(events []model.Event) error {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}

	now := r.now().In(model.JST)
	pages := []struct {
		file   string
		title  string
		active string
		totals []model.Total
	}{
		{"daily.html", "📊 応援pt（日間）", "daily", rank.Totals(events, rank.Daily(now))},
		{"monthly.html", "📊 応援pt（月間）", "monthly", rank.Totals(events, rank.Monthly(now))},
		{"total.html", "📊 応援pt（累計）", "total", rank.Totals(events, rank.AllTime())},
	}

	updated := now.Format("2006-01-02 15:04:05")

	var errs error
	for _, p := range pages {
		// Empty slices, not nil: the chart script wants [] rather than null.
		data := pageData{
			Title:   p.title,
			Updated: updated,
			Active:  p.active,
			Labels:  []string{},
			Values:  []int{},
		}
		for i, t := range p.totals {
			data.Labels = append(data.Labels, t.Name)
			data.Values = append(data.Values, t.Points)
			if i < maxTableRows {
				data.Rows = append(data.Rows, row{Rank: i + 1, Name: t.Name, Points: t.Points})
			}
		}
		if err := r.writePage(p.file, "chart.html", data); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if err := r.writePage("index.html", "index.html", nil); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (r *Renderer) writePage(name, tmplName string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, tmplName, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(r.outDir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
