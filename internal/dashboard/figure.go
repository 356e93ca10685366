package dashboard

import (
	"fmt"
)

// Severity palette. Unknown severities use fallbackColor.
var severityColors = map[string]string{
	"Slight":  "#2a9d8f",
	"Serious": "#f4a261",
	"Fatal":   "#e76f51",
}

const (
	fallbackColor = "#7f8c8d"
	weatherColor  = "#2a9d8f"
	hourlyColor   = "#f4a261"
	unknownLabel  = "Unknown"
)

// Figure is a plotly.js figure: traces plus layout.
type Figure struct {
	Data   []any  `json:"data"`
	Layout Layout `json:"layout"`
}

// Layout is the subset of the plotly layout the dashboard sets.
type Layout struct {
	Title  Title    `json:"title"`
	Height int      `json:"height,omitempty"`
	Margin *Margin  `json:"margin,omitempty"`
	Map    *MapView `json:"map,omitempty"`
	XAxis  *Axis    `json:"xaxis,omitempty"`
	YAxis  *Axis    `json:"yaxis,omitempty"`
	Legend *Legend  `json:"legend,omitempty"`
}

// Title is a chart or axis title.
type Title struct {
	Text string `json:"text"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

// MapView configures the tile map: style, zoom and centre.
type MapView struct {
	Style  string  `json:"style"`
	Zoom   float64 `json:"zoom"`
	Center *LatLon `json:"center,omitempty"`
}

// LatLon is a map coordinate.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Axis configures a cartesian axis.
type Axis struct {
	Title    Title  `json:"title"`
	TickMode string `json:"tickmode,omitempty"`
	DTick    int    `json:"dtick,omitempty"`
}

// Legend configures the chart legend.
type Legend struct {
	Title Title `json:"title"`
}

// Marker sets the colour of a trace's markers or bars.
type Marker struct {
	Color string `json:"color"`
}

// ScatterMapTrace is one severity group on the tile map.
type ScatterMapTrace struct {
	Type          string      `json:"type"`
	Mode          string      `json:"mode"`
	Name          string      `json:"name"`
	Lat           []float64   `json:"lat"`
	Lon           []float64   `json:"lon"`
	Text          []string    `json:"text"`
	CustomData    [][3]string `json:"customdata"`
	HoverTemplate string      `json:"hovertemplate"`
	Marker        Marker      `json:"marker"`
}

// BarTrace is a vertical bar chart series.
type BarTrace struct {
	Type   string `json:"type"`
	X      []any  `json:"x"`
	Y      []int  `json:"y"`
	Marker Marker `json:"marker"`
}

// PieTrace is a pie or donut series.
type PieTrace struct {
	Type   string   `json:"type"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Hole   float64  `json:"hole"`
}

const mapHoverTemplate = "<b>%{text}</b><br>" +
	"Road_Type=%{customdata[0]}<br>" +
	"Weather_Conditions=%{customdata[1]}<br>" +
	"Speed_limit=%{customdata[2]}<br>" +
	"Latitude=%{lat}<br>Longitude=%{lon}<extra></extra>"

// MapFigure plots points as one trace per severity, in the order severities
// first appear, centred on the mean position.
func MapFigure(points []MapPoint, year int) Figure {
	var traces []*ScatterMapTrace
	bySeverity := make(map[string]*ScatterMapTrace)
	var sumLat, sumLon float64

	for _, p := range points {
		name := p.Severity
		if name == "" {
			name = unknownLabel
		}
		tr, ok := bySeverity[name]
		if !ok {
			color, known := severityColors[name]
			if !known {
				color = fallbackColor
			}
			tr = &ScatterMapTrace{
				Type:          "scattermap",
				Mode:          "markers",
				Name:          name,
				HoverTemplate: mapHoverTemplate,
				Marker:        Marker{Color: color},
			}
			bySeverity[name] = tr
			traces = append(traces, tr)
		}
		tr.Lat = append(tr.Lat, p.Lat)
		tr.Lon = append(tr.Lon, p.Lon)
		tr.Text = append(tr.Text, p.ID)
		tr.CustomData = append(tr.CustomData, [3]string{p.RoadType, p.Weather, p.SpeedLimit})
		sumLat += p.Lat
		sumLon += p.Lon
	}

	view := &MapView{Style: "open-street-map", Zoom: 5}
	if len(points) > 0 {
		n := float64(len(points))
		view.Center = &LatLon{Lat: sumLat / n, Lon: sumLon / n}
	}

	data := make([]any, len(traces))
	for i, tr := range traces {
		data[i] = tr
	}
	return Figure{
		Data: data,
		Layout: Layout{
			Title:  Title{Text: fmt.Sprintf("Accident Hotspots in the UK (%d)", year)},
			Height: 600,
			Margin: &Margin{R: 0, T: 40, L: 0, B: 0},
			Map:    view,
			Legend: &Legend{Title: Title{Text: "Accident_Severity"}},
		},
	}
}

// WeatherFigure is the bar chart of the most common weather conditions.
func WeatherFigure(counts []Count) Figure {
	x := make([]any, len(counts))
	y := make([]int, len(counts))
	for i, c := range counts {
		x[i] = c.Label
		y[i] = c.N
	}
	return Figure{
		Data: []any{BarTrace{Type: "bar", X: x, Y: y, Marker: Marker{Color: weatherColor}}},
		Layout: Layout{
			Title: Title{Text: "Top 10 Weather Conditions During Accidents"},
			XAxis: &Axis{Title: Title{Text: "Weather Condition"}},
			YAxis: &Axis{Title: Title{Text: "Number of Accidents"}},
		},
	}
}

// HourlyFigure is the bar chart of accidents per hour with one tick per hour.
func HourlyFigure(counts []HourCount) Figure {
	x := make([]any, len(counts))
	y := make([]int, len(counts))
	for i, c := range counts {
		x[i] = c.Hour
		y[i] = c.N
	}
	return Figure{
		Data: []any{BarTrace{Type: "bar", X: x, Y: y, Marker: Marker{Color: hourlyColor}}},
		Layout: Layout{
			Title: Title{Text: "Accidents by Hour of the Day"},
			XAxis: &Axis{Title: Title{Text: "Hour of Day (24h)"}, TickMode: "linear", DTick: 1},
			YAxis: &Axis{Title: Title{Text: "Number of Accidents"}},
		},
	}
}

// RoadTypeFigure is the donut of the most common road types.
func RoadTypeFigure(counts []Count) Figure {
	labels := make([]string, len(counts))
	values := make([]int, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		values[i] = c.N
	}
	return Figure{
		Data: []any{PieTrace{Type: "pie", Labels: labels, Values: values, Hole: 0.3}},
		Layout: Layout{
			Title: Title{Text: "Accident Distribution by Road Type"},
		},
	}
}
