package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccidentA = "2016A0001"
	testAccidentB = "2016A0002"
	testAccidentC = "2015A0003"
)

func accident(id, date string) AccidentRecord {
	return AccidentRecord{
		AccidentIndex:     id,
		Severity:          "Slight",
		Date:              date,
		Time:              "17:42",
		Latitude:          "51.5074",
		Longitude:         "-0.1278",
		RoadType:          "Single carriageway",
		SpeedLimit:        "30",
		LightConditions:   "Daylight",
		WeatherConditions: "Fine no high winds",
		RoadSurface:       "Dry",
		UrbanOrRural:      "Urban",
	}
}

func vehicle(id, vehicleType string) VehicleRecord {
	return VehicleRecord{
		AccidentIndex:  id,
		VehicleType:    vehicleType,
		LeftHandDrive:  "No",
		DriverSex:      "Male",
		DriverAgeBand:  "26 - 35",
		EngineCapacity: "1598",
		Make:           "FORD",
		JourneyPurpose: "Commuting to/from work",
	}
}

func TestJoinVehicles(t *testing.T) {
	t.Run("one row per vehicle in vehicle order", func(t *testing.T) {
		accidents := []AccidentRecord{accident(testAccidentA, "2016-03-21")}
		vehicles := []VehicleRecord{
			vehicle(testAccidentA, "Car"),
			vehicle(testAccidentB, "Bus"),
			vehicle(testAccidentA, "Pedal cycle"),
		}

		got := JoinVehicles(accidents, vehicles)

		require.Len(t, got, 2)
		assert.Equal(t, "Car", got[0].VehicleType)
		assert.Equal(t, "Pedal cycle", got[1].VehicleType)
		for _, r := range got {
			assert.Equal(t, testAccidentA, r.AccidentIndex)
			assert.Equal(t, "Slight", r.Severity)
		}
	})

	t.Run("accident without vehicle keeps empty vehicle fields", func(t *testing.T) {
		accidents := []AccidentRecord{accident(testAccidentA, "2016-03-21"), accident(testAccidentB, "2016-04-01")}
		vehicles := []VehicleRecord{vehicle(testAccidentB, "Car")}

		got := JoinVehicles(accidents, vehicles)

		require.Len(t, got, 2)
		assert.Equal(t, testAccidentA, got[0].AccidentIndex)
		assert.Empty(t, got[0].VehicleType)
		assert.Empty(t, got[0].Make)
		assert.Equal(t, testAccidentB, got[1].AccidentIndex)
		assert.Equal(t, "Car", got[1].VehicleType)
	})

	t.Run("null keys never match", func(t *testing.T) {
		accidents := []AccidentRecord{accident("", "2016-03-21")}
		vehicles := []VehicleRecord{vehicle("", "Car")}

		got := JoinVehicles(accidents, vehicles)

		require.Len(t, got, 1)
		assert.Empty(t, got[0].VehicleType)
	})

	t.Run("null spellings become empty", func(t *testing.T) {
		a := accident(testAccidentA, "2016-03-21")
		a.WeatherConditions = "NaN"
		v := vehicle(testAccidentA, "Car")
		v.Make = "NULL"

		got := JoinVehicles([]AccidentRecord{a}, []VehicleRecord{v})

		require.Len(t, got, 1)
		assert.Empty(t, got[0].WeatherConditions)
		assert.Empty(t, got[0].Make)
	})
}

func TestDropMissingVehicle(t *testing.T) {
	records := []Record{
		{AccidentIndex: testAccidentA, VehicleType: "Car"},
		{AccidentIndex: testAccidentB},
		{AccidentIndex: testAccidentC, VehicleType: "NA"},
	}

	got := DropMissingVehicle(records)

	require.Len(t, got, 1)
	assert.Equal(t, testAccidentA, got[0].AccidentIndex)
	assert.Len(t, records, 3, "input must not be modified")
}

func TestDropMissingLocation(t *testing.T) {
	records := []Record{
		{AccidentIndex: "keep", Latitude: "51.5", Longitude: "-0.1"},
		{AccidentIndex: "no-lat", Longitude: "-0.1"},
		{AccidentIndex: "no-lon", Latitude: "51.5"},
		{AccidentIndex: "nan-lat", Latitude: "nan", Longitude: "-0.1"},
	}

	got := DropMissingLocation(records)

	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].AccidentIndex)
}

func TestParseDates(t *testing.T) {
	records := []Record{
		{AccidentIndex: "iso", Date: "2016-03-21"},
		{AccidentIndex: "slashes", Date: "21/03/2016"},
		{AccidentIndex: "with-time", Date: "2016-03-21 10:00"},
		{AccidentIndex: "invalid-day", Date: "2016-02-30"},
		{AccidentIndex: "empty", Date: ""},
		{AccidentIndex: "older", Date: "2015-01-01"},
	}

	got := ParseDates(records)

	require.Len(t, got, 2)
	assert.Equal(t, "iso", got[0].AccidentIndex)
	assert.Equal(t, 2016, got[0].Year)
	assert.Equal(t, "2016-03-21", got[0].Date)
	assert.Equal(t, "older", got[1].AccidentIndex)
	assert.Equal(t, 2015, got[1].Year)
}

func TestLatestYear(t *testing.T) {
	t.Run("maximum year", func(t *testing.T) {
		year, err := LatestYear([]Record{{Year: 2015}, {Year: 2017}, {Year: 2016}})
		require.NoError(t, err)
		assert.Equal(t, 2017, year)
	})

	t.Run("no rows", func(t *testing.T) {
		_, err := LatestYear(nil)
		require.ErrorIs(t, err, ErrNoDatedRows)
	})
}

func TestFilterYear(t *testing.T) {
	records := []Record{
		{AccidentIndex: "a", Year: 2016},
		{AccidentIndex: "b", Year: 2015},
		{AccidentIndex: "c", Year: 2016},
	}

	got := FilterYear(records, 2016)

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.AccidentIndex)
	}
	if diff := cmp.Diff([]string{"a", "c"}, ids); diff != "" {
		t.Fatalf("filtered ids mismatch (-want +got):\n%s", diff)
	}
}

func TestStages_LatestYearScenario(t *testing.T) {
	accidents := []AccidentRecord{
		accident(testAccidentA, "2016-03-21"),
		accident(testAccidentC, "2015-01-01"),
		accident(testAccidentB, "2016-07-04"), // no vehicle
	}
	vehicles := []VehicleRecord{
		vehicle(testAccidentA, "Car"),
		vehicle(testAccidentC, "Car"),
	}

	records := JoinVehicles(accidents, vehicles)
	records = DropMissingVehicle(records)
	records = DropMissingLocation(records)
	records = ParseDates(records)
	year, err := LatestYear(records)
	require.NoError(t, err)
	records = FilterYear(records, year)

	assert.Equal(t, 2016, year)
	assert.Equal(t, "uk_accidents_2016.csv", ExtractFileName(year))
	require.Len(t, records, 1)
	assert.Equal(t, testAccidentA, records[0].AccidentIndex)
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		name  string
		input string
		hour  int
		ok    bool
	}{
		{"afternoon", "17:42", 17, true},
		{"midnight", "00:00", 0, true},
		{"single digit hour", "9:05", 9, true},
		{"single digit minute", "9:5", 9, true},
		{"three digit minute", "9:005", 0, false},
		{"last minute", "23:59", 23, true},
		{"out of range", "25:61", 0, false},
		{"minute out of range", "12:60", 0, false},
		{"with seconds", "12:30:00", 0, false},
		{"empty", "", 0, false},
		{"text", "noon", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, ok := ParseHour(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.hour, hour)
		})
	}
}

func TestIsNull(t *testing.T) {
	tests := []struct {
		input string
		null  bool
	}{
		{"", true},
		{"NA", true},
		{"NaN", true},
		{"NULL", true},
		{"#N/A", true},
		{"None", true},
		{"0", false},
		{"Car", false},
		{" ", false},
		{"na", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.null, IsNull(tt.input))
		})
	}
}

func TestExtractFileName(t *testing.T) {
	assert.Equal(t, "uk_accidents_2016.csv", ExtractFileName(2016))

	year, ok := ParseExtractFileName("uk_accidents_2017.csv")
	require.True(t, ok)
	assert.Equal(t, 2017, year)

	for _, name := range []string{"uk_accidents.csv", "uk_accidents_2017.csv.bak", "Accident_Information.csv", "uk_accidents_17.csv"} {
		_, ok := ParseExtractFileName(name)
		assert.False(t, ok, name)
	}
}

func TestNewExtractNotice(t *testing.T) {
	fixed := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	notice := NewExtractNotice(2016, "data/processed/uk_accidents_2016.csv", 42)

	assert.Equal(t, 2016, notice.Year)
	assert.Equal(t, 42, notice.Rows)
	assert.Equal(t, fixed, notice.GeneratedAt)
	assert.Len(t, notice.Columns, 20)
	assert.Equal(t, ColAccidentIndex, notice.Columns[0])
	assert.Equal(t, ColYear, notice.Columns[19])
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		assert.Equal(t, fixedTime, Now())
		SetClock(nil)
	})

	t.Run("reset to real clock", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		SetClock(nil)
		assert.True(t, time.Since(Now()) < time.Second)
	})
}
