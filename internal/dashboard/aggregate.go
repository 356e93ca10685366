// Package dashboard derives the chart views of an accident extract and
// renders them as a single HTML page.
package dashboard

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

const (
	topWeather   = 10
	topRoadTypes = 5
)

// Options controls how views are derived from an extract.
type Options struct {
	SampleSize int
	SampleSeed uint64
	// SampleAfterTimeFilter draws the map sample from rows with a valid
	// Time instead of from every row.
	SampleAfterTimeFilter bool
}

// Count is a category value and how many rows carry it.
type Count struct {
	Label string
	N     int
}

// HourCount is the number of rows in one hour of the day.
type HourCount struct {
	Hour int
	N    int
}

// MapPoint is one plotted accident.
type MapPoint struct {
	Lat        float64
	Lon        float64
	Severity   string
	ID         string
	RoadType   string
	Weather    string
	SpeedLimit string
}

// Timed is a record with its hour of day.
type Timed struct {
	domain.Record
	Hour int
}

// Views holds everything the page draws for one extract.
type Views struct {
	Year      int
	Rows      int
	TimedRows int
	Points    []MapPoint
	Weather   []Count
	Hourly    []HourCount
	RoadTypes []Count
}

// BuildViews computes the map sample and the three aggregates. year is used
// for titles when records carry none.
func BuildViews(records []domain.Record, year int, opts Options) Views {
	if y, err := domain.LatestYear(records); err == nil {
		year = y
	}

	timed := DeriveHours(records)

	sampleFrom := records
	if opts.SampleAfterTimeFilter {
		sampleFrom = make([]domain.Record, len(timed))
		for i := range timed {
			sampleFrom[i] = timed[i].Record
		}
	}
	sample := Sample(sampleFrom, opts.SampleSize, opts.SampleSeed)

	weather := make([]string, len(timed))
	roads := make([]string, len(timed))
	for i := range timed {
		weather[i] = timed[i].WeatherConditions
		roads[i] = timed[i].RoadType
	}

	return Views{
		Year:      year,
		Rows:      len(records),
		TimedRows: len(timed),
		Points:    MapPoints(sample),
		Weather:   TopN(weather, topWeather),
		Hourly:    HourlyCounts(timed),
		RoadTypes: TopN(roads, topRoadTypes),
	}
}

// Sample returns n records chosen uniformly with a generator seeded by seed.
// The chosen records keep their source order. When there are at most n
// records all of them are returned.
func Sample(records []domain.Record, n int, seed uint64) []domain.Record {
	if n <= 0 || len(records) <= n {
		return records
	}

	r := rand.New(rand.NewPCG(seed, seed))
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	for i := range n {
		j := i + r.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	chosen := idx[:n]
	slices.Sort(chosen)

	out := make([]domain.Record, n)
	for i, k := range chosen {
		out[i] = records[k]
	}
	return out
}

// DeriveHours keeps the records whose Time parses as HH:MM and attaches the
// hour. Other records are dropped.
func DeriveHours(records []domain.Record) []Timed {
	out := make([]Timed, 0, len(records))
	for _, r := range records {
		h, ok := domain.ParseHour(r.Time)
		if !ok {
			continue
		}
		out = append(out, Timed{Record: r, Hour: h})
	}
	return out
}

// TopN counts non-null values and returns the n most frequent, highest
// first. Ties keep the order in which values first appear.
func TopN(values []string, n int) []Count {
	pos := make(map[string]int)
	var counts []Count
	for _, v := range values {
		if domain.IsNull(v) {
			continue
		}
		i, ok := pos[v]
		if !ok {
			i = len(counts)
			pos[v] = i
			counts = append(counts, Count{Label: v})
		}
		counts[i].N++
	}

	slices.SortStableFunc(counts, func(a, b Count) int {
		return cmp.Compare(b.N, a.N)
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// HourlyCounts returns the row count of each hour that occurs, by ascending hour.
func HourlyCounts(timed []Timed) []HourCount {
	var perHour [24]int
	for i := range timed {
		perHour[timed[i].Hour]++
	}
	var out []HourCount
	for h, n := range perHour {
		if n > 0 {
			out = append(out, HourCount{Hour: h, N: n})
		}
	}
	return out
}

// MapPoints converts records to plotted points, skipping rows whose
// coordinates are not finite numbers within latitude/longitude range.
func MapPoints(records []domain.Record) []MapPoint {
	out := make([]MapPoint, 0, len(records))
	for _, r := range records {
		lat, ok := parseCoord(r.Latitude, 90)
		if !ok {
			continue
		}
		lon, ok := parseCoord(r.Longitude, 180)
		if !ok {
			continue
		}
		out = append(out, MapPoint{
			Lat:        lat,
			Lon:        lon,
			Severity:   r.Severity,
			ID:         r.AccidentIndex,
			RoadType:   r.RoadType,
			Weather:    r.WeatherConditions,
			SpeedLimit: r.SpeedLimit,
		})
	}
	return out
}

func parseCoord(s string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, false
	}
	return v, true
}
