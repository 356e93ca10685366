package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

const (
	pageTitle  = "Urban Mobility & Traffic Accident Insights"
	pageRegion = "United Kingdom"
	plotlyURL  = "https://cdn.plot.ly/plotly-2.35.2.min.js"
)

//go:embed templates/dashboard.html
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

// pageData is the template input for the dashboard page.
type pageData struct {
	Title        string
	Region       string
	Year         int
	Rows         int
	MapPoints    int
	GeneratedAt  string
	PlotlyURL    string
	MapJSON      template.JS
	WeatherJSON  template.JS
	HourlyJSON   template.JS
	RoadTypeJSON template.JS
}

// Render builds the four figures from v and executes the page template.
func Render(v Views) ([]byte, error) {
	data := pageData{
		Title:       pageTitle,
		Region:      pageRegion,
		Year:        v.Year,
		Rows:        v.Rows,
		MapPoints:   len(v.Points),
		GeneratedAt: domain.Now().UTC().Format(time.RFC3339),
		PlotlyURL:   plotlyURL,
	}

	for _, f := range []struct {
		fig Figure
		dst *template.JS
	}{
		{MapFigure(v.Points, v.Year), &data.MapJSON},
		{WeatherFigure(v.Weather), &data.WeatherJSON},
		{HourlyFigure(v.Hourly), &data.HourlyJSON},
		{RoadTypeFigure(v.RoadTypes), &data.RoadTypeJSON},
	} {
		js, err := marshalTemplateJS(f.fig)
		if err != nil {
			return nil, fmt.Errorf("marshal figure: %w", err)
		}
		*f.dst = js
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

// marshalTemplateJS encodes v as JSON for direct use inside a script block.
func marshalTemplateJS(v any) (template.JS, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(payload), nil
}
