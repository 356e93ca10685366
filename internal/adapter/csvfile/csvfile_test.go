package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

const accidentsCSV = "\ufeffAccident_Index,1st_Road_Class,Accident_Severity,Date,Time,Latitude,Longitude,Road_Type,Speed_limit,Light_Conditions,Weather_Conditions,Road_Surface_Conditions,Urban_or_Rural_Area\n" +
	"2016A0001,A,Slight,2016-03-21,17:42,51.5074,-0.1278,Single carriageway,30,Daylight,Fine no high winds,Dry,Urban\n" +
	"2015A0002,B,Serious,2015-01-01,08:05,,-2.2426,Roundabout,40,Darkness - lights lit,\"Raining, no high winds\",Wet or damp,Rural\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSource_ExtractAccidents(t *testing.T) {
	path := writeFile(t, "acc.csv", []byte(accidentsCSV))

	got, err := NewSource(path, "").ExtractAccidents(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "2016A0001", got[0].AccidentIndex, "BOM must be stripped from the first column")
	assert.Equal(t, "Slight", got[0].Severity)
	assert.Equal(t, "17:42", got[0].Time)
	assert.Equal(t, "Raining, no high winds", got[1].WeatherConditions)
	assert.Empty(t, got[1].Latitude)
}

func TestSource_ExtractVehiclesLatin1(t *testing.T) {
	header := "Accident_Index,Vehicle_Reference,Vehicle_Type,Was_Vehicle_Left_Hand_Drive,Sex_of_Driver,Age_Band_of_Driver,Engine_Capacity_.CC.,make,Journey_Purpose_of_Driver\n"
	row := []byte("2016A0001,1,Car,No,Female,26 - 35,1598,CITRO")
	row = append(row, 0xCB) // Latin-1 E with diaeresis
	row = append(row, []byte("N,Journey as part of work\n")...)
	path := writeFile(t, "veh.csv", append([]byte(header), row...))

	got, err := NewSource("", path).ExtractVehicles(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "CITROËN", got[0].Make)
	assert.Equal(t, "Car", got[0].VehicleType)
	assert.Equal(t, "1598", got[0].EngineCapacity)
}

func TestSource_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewSource(filepath.Join(t.TempDir(), "absent.csv"), "").ExtractAccidents(ctx)
		require.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", nil)
		_, err := NewSource(path, "").ExtractAccidents(ctx)
		require.ErrorIs(t, err, domain.ErrEmptyFile)
	})

	t.Run("missing columns", func(t *testing.T) {
		path := writeFile(t, "acc.csv", []byte("Accident_Index,Date,Time\n1,2016-01-01,10:00\n"))
		_, err := NewSource(path, "").ExtractAccidents(ctx)

		var colErr *domain.MissingColumnsError
		require.ErrorAs(t, err, &colErr)
		assert.Equal(t, path, colErr.Path)
		assert.Contains(t, colErr.Columns, domain.ColSeverity)
		assert.Contains(t, colErr.Columns, domain.ColUrbanOrRural)
		assert.NotContains(t, colErr.Columns, domain.ColDate)
	})

	t.Run("invalid utf-8 in accidents", func(t *testing.T) {
		data := []byte(accidentsCSV)
		data = append(data, []byte("2016A0003,A,Slight,2016-02-02,10:00,51.1,-0.1,Single carriageway,30,Daylight,Fine")...)
		data = append(data, 0xFF)
		data = append(data, []byte(",Dry,Urban\n")...)
		path := writeFile(t, "acc.csv", data)

		_, err := NewSource(path, "").ExtractAccidents(ctx)

		var encErr *domain.EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, 4, encErr.Line)
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeFile(t, "acc.csv", []byte(accidentsCSV))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewSource(path, "").ExtractAccidents(cctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			AccidentIndex: "2016A0001", Severity: "Slight", Date: "2016-03-21", Time: "17:42",
			Latitude: "51.5074", Longitude: "-0.1278", RoadType: "Single carriageway", SpeedLimit: "30",
			LightConditions: "Daylight", WeatherConditions: "Fine no high winds", RoadSurface: "Dry",
			UrbanOrRural: "Urban", VehicleType: "Car", LeftHandDrive: "No", DriverSex: "Male",
			DriverAgeBand: "26 - 35", EngineCapacity: "1598", Make: "FORD",
			JourneyPurpose: "Commuting to/from work", Year: 2016,
		},
		{
			AccidentIndex: "2016A0002", Severity: "Fatal", Date: "2016-07-04", Time: "",
			Latitude: "53.4808", Longitude: "-2.2426", RoadType: "Roundabout", SpeedLimit: "40",
			WeatherConditions: "Raining, no high winds", VehicleType: "Bus", Make: "CITROËN", Year: 2016,
		},
	}
}

func TestSink_Load(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed")
	sink := NewSink(dir)

	path, err := sink.Load(context.Background(), 2016, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "uk_accidents_2016.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(domain.ExtractColumns, ","), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",2016"))
	assert.Contains(t, lines[2], `"Raining, no high winds"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")
}

func TestSink_LoadIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir)

	path, err := sink.Load(context.Background(), 2016, sampleRecords())
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = sink.Load(context.Background(), 2016, sampleRecords())
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSink_LoadEmptyWritesHeader(t *testing.T) {
	path, err := NewSink(t.TempDir()).Load(context.Background(), 2016, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(domain.ExtractColumns, ",")+"\n", string(data))
}

func TestExtractFile_RoundTrip(t *testing.T) {
	want := sampleRecords()
	path, err := NewSink(t.TempDir()).Load(context.Background(), 2016, want)
	require.NoError(t, err)

	got, err := ExtractFile{Path: path}.LoadRecords(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLatestExtract(t *testing.T) {
	t.Run("picks highest year", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"uk_accidents_2015.csv", "uk_accidents_2017.csv", "uk_accidents_2016.csv", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		got, err := LatestExtract(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "uk_accidents_2017.csv"), got)
	})

	t.Run("empty dir", func(t *testing.T) {
		_, err := LatestExtract(t.TempDir())
		require.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := LatestExtract(filepath.Join(t.TempDir(), "absent"))
		require.ErrorIs(t, err, domain.ErrFileNotFound)
	})
}
