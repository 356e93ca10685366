// Command genmock writes a reproducible pair of synthetic raw input files in
// the layout of the published UK accident dataset: the accident table as
// UTF-8 and the vehicle table as Latin-1. The data exercises every filter of
// the preprocessor: accidents without vehicles, missing coordinates,
// unparseable dates and times, and several years.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/raw -accidents 5000 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"golang.org/x/text/encoding/charmap"
)

// rawAccident mirrors the raw accident file, including columns the
// preprocessor ignores.
type rawAccident struct {
	AccidentIndex     string `csv:"Accident_Index"`
	FirstRoadClass    string `csv:"1st_Road_Class"`
	Severity          string `csv:"Accident_Severity"`
	Date              string `csv:"Date"`
	DayOfWeek         string `csv:"Day_of_Week"`
	Latitude          string `csv:"Latitude"`
	LightConditions   string `csv:"Light_Conditions"`
	Longitude         string `csv:"Longitude"`
	RoadSurface       string `csv:"Road_Surface_Conditions"`
	RoadType          string `csv:"Road_Type"`
	SpeedLimit        string `csv:"Speed_limit"`
	Time              string `csv:"Time"`
	UrbanOrRural      string `csv:"Urban_or_Rural_Area"`
	WeatherConditions string `csv:"Weather_Conditions"`
	Year              string `csv:"Year"`
}

// rawVehicle mirrors the raw vehicle file.
type rawVehicle struct {
	AccidentIndex    string `csv:"Accident_Index"`
	AgeBandOfDriver  string `csv:"Age_Band_of_Driver"`
	EngineCapacity   string `csv:"Engine_Capacity_.CC."`
	JourneyPurpose   string `csv:"Journey_Purpose_of_Driver"`
	SexOfDriver      string `csv:"Sex_of_Driver"`
	VehicleReference string `csv:"Vehicle_Reference"`
	VehicleType      string `csv:"Vehicle_Type"`
	LeftHandDrive    string `csv:"Was_Vehicle_Left_Hand_Drive"`
	Make             string `csv:"make"`
	Model            string `csv:"model"`
}

var (
	severities = []weighted{{"Slight", 84}, {"Serious", 14}, {"Fatal", 2}}
	roadTypes  = []weighted{{"Single carriageway", 74}, {"Dual carriageway", 15}, {"Roundabout", 6}, {"One way street", 2}, {"Slip road", 1}, {"Unknown", 2}}
	weather    = []weighted{
		{"Fine no high winds", 80}, {"Raining no high winds", 11}, {"Other", 2}, {"Unknown", 2},
		{"Raining + high winds", 1}, {"Fine + high winds", 1}, {"Snowing no high winds", 1},
		{"Fog or mist", 1}, {"Snowing + high winds", 1},
		{"NaN", 1},
	}
	light        = []weighted{{"Daylight", 72}, {"Darkness - lights lit", 20}, {"Darkness - no lighting", 6}, {"Darkness - lighting unknown", 2}}
	surfaces     = []weighted{{"Dry", 70}, {"Wet or damp", 26}, {"Frost or ice", 3}, {"Snow", 1}}
	vehicleTypes = []weighted{{"Car", 75}, {"Van / Goods 3.5 tonnes mgw or under", 6}, {"Pedal cycle", 6}, {"Motorcycle 125cc and under", 4}, {"Bus or coach (17 or more pass seats)", 3}, {"Taxi/Private hire car", 3}, {"Goods 7.5 tonnes mgw and over", 3}}
	makes        = []weighted{{"FORD", 20}, {"VAUXHALL", 15}, {"VOLKSWAGEN", 10}, {"CITROËN", 6}, {"PEUGEOT", 8}, {"RENAULT", 6}, {"TOYOTA", 8}, {"NISSAN", 6}, {"BMW", 6}, {"NA", 3}}
	purposes     = []weighted{{"Journey as part of work", 20}, {"Commuting to/from work", 15}, {"Other", 20}, {"Not known", 25}, {"Pupil riding to/from school", 2}, {"Taking pupil to/from school", 3}}
	ageBands     = []string{"16 - 20", "21 - 25", "26 - 35", "36 - 45", "46 - 55", "56 - 65", "66 - 75", "Over 75"}
	days         = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	cities       = [][2]float64{{51.5074, -0.1278}, {53.4808, -2.2426}, {52.4862, -1.8904}, {53.8008, -1.5491}, {55.8642, -4.2518}, {51.4545, -2.5879}, {54.9783, -1.6178}, {55.9533, -3.1883}}
)

type weighted struct {
	value  string
	weight int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/raw", "directory for the generated raw files")
	n := flag.Int("accidents", 5000, "number of accident rows")
	seed := flag.Uint64("seed", 42, "random seed")
	yearsFlag := flag.String("years", "2014,2015,2016", "comma-separated accident years")
	flag.Parse()

	years, err := parseYears(*yearsFlag)
	if err != nil {
		return err
	}
	if *n <= 0 {
		return fmt.Errorf("-accidents must be positive")
	}

	r := rand.New(rand.NewPCG(*seed, *seed))
	accidents, vehicles := generate(r, *n, years)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	accPath := filepath.Join(*outDir, "Accident_Information.csv")
	if err := writeCSV(accPath, accidents, false); err != nil {
		return fmt.Errorf("writing accidents: %w", err)
	}
	log.Printf("wrote %d accidents: %s", len(accidents), accPath)

	vehPath := filepath.Join(*outDir, "Vehicle_Information.csv")
	if err := writeCSV(vehPath, vehicles, true); err != nil {
		return fmt.Errorf("writing vehicles: %w", err)
	}
	log.Printf("wrote %d vehicles: %s", len(vehicles), vehPath)

	printStats(accidents, vehicles, years)
	return nil
}

func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || y < 1900 || y > 9999 {
			return nil, fmt.Errorf("invalid year %q in -years", part)
		}
		years = append(years, y)
	}
	return years, nil
}

func generate(r *rand.Rand, n int, years []int) ([]rawAccident, []rawVehicle) {
	accidents := make([]rawAccident, 0, n)
	var vehicles []rawVehicle

	for i := range n {
		year := years[r.IntN(len(years))]
		month := 1 + r.IntN(12)
		day := 1 + r.IntN(28)
		city := cities[r.IntN(len(cities))]

		a := rawAccident{
			AccidentIndex:     fmt.Sprintf("%dGM%06d", year, i),
			FirstRoadClass:    []string{"A", "B", "C", "Motorway", "Unclassified"}[r.IntN(5)],
			Severity:          pick(r, severities),
			Date:              fmt.Sprintf("%04d-%02d-%02d", year, month, day),
			DayOfWeek:         days[r.IntN(len(days))],
			Latitude:          strconv.FormatFloat(city[0]+r.NormFloat64()*0.15, 'f', 6, 64),
			Longitude:         strconv.FormatFloat(city[1]+r.NormFloat64()*0.2, 'f', 6, 64),
			LightConditions:   pick(r, light),
			RoadSurface:       pick(r, surfaces),
			RoadType:          pick(r, roadTypes),
			SpeedLimit:        strconv.Itoa([]int{20, 30, 30, 30, 40, 50, 60, 70}[r.IntN(8)]),
			Time:              fmt.Sprintf("%02d:%02d", hourOfDay(r), r.IntN(60)),
			UrbanOrRural:      []string{"Urban", "Urban", "Rural"}[r.IntN(3)],
			WeatherConditions: pick(r, weather),
			Year:              strconv.Itoa(year),
		}

		switch k := r.IntN(100); {
		case k < 2:
			a.Latitude, a.Longitude = "", ""
		case k < 3:
			a.Date = "NaN"
		case k < 4:
			a.Time = "25:61"
		case k < 5:
			a.Time = ""
		}
		accidents = append(accidents, a)

		// About one accident in twenty has no vehicle rows.
		count := 1 + r.IntN(3)
		if r.IntN(20) == 0 {
			count = 0
		}
		for ref := 1; ref <= count; ref++ {
			vehicles = append(vehicles, rawVehicle{
				AccidentIndex:    a.AccidentIndex,
				AgeBandOfDriver:  ageBands[r.IntN(len(ageBands))],
				EngineCapacity:   strconv.Itoa(998 + r.IntN(2000)),
				JourneyPurpose:   pick(r, purposes),
				SexOfDriver:      []string{"Male", "Male", "Female", "Not known"}[r.IntN(4)],
				VehicleReference: strconv.Itoa(ref),
				VehicleType:      pick(r, vehicleTypes),
				LeftHandDrive:    []string{"No", "No", "No", "Yes"}[r.IntN(4)],
				Make:             pick(r, makes),
				Model:            "MODEL MISSING",
			})
		}
	}

	// The published vehicle table is not ordered like the accident table.
	r.Shuffle(len(vehicles), func(i, j int) { vehicles[i], vehicles[j] = vehicles[j], vehicles[i] })
	return accidents, vehicles
}

// hourOfDay skews toward the morning and evening peaks.
func hourOfDay(r *rand.Rand) int {
	switch r.IntN(3) {
	case 0:
		return 7 + r.IntN(3)
	case 1:
		return 15 + r.IntN(4)
	default:
		return r.IntN(24)
	}
}

func pick(r *rand.Rand, options []weighted) string {
	total := 0
	for _, o := range options {
		total += o.weight
	}
	k := r.IntN(total)
	for _, o := range options {
		if k < o.weight {
			return o.value
		}
		k -= o.weight
	}
	return options[len(options)-1].value
}

// writeCSV encodes rows with a header into path, optionally as Latin-1.
func writeCSV[T any](path string, rows []T, latin1 bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var dst io.Writer = f
	if latin1 {
		dst = charmap.ISO8859_1.NewEncoder().Writer(f)
	}

	w := csv.NewWriter(dst)
	enc := csvutil.NewEncoder(w)
	for i := range rows {
		if err := enc.Encode(rows[i]); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if c, ok := dst.(io.Closer); ok && latin1 {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}

func printStats(accidents []rawAccident, vehicles []rawVehicle, years []int) {
	perYear := map[string]int{}
	for i := range accidents {
		perYear[accidents[i].Year]++
	}
	withVehicle := map[string]bool{}
	for i := range vehicles {
		withVehicle[vehicles[i].AccidentIndex] = true
	}

	fmt.Println("\n=== Generated raw data ===")
	fmt.Printf("Accidents: %d, vehicles: %d, accidents without vehicles: %d\n",
		len(accidents), len(vehicles), len(accidents)-len(withVehicle))
	sorted := slices.Clone(years)
	slices.Sort(sorted)
	for _, y := range sorted {
		fmt.Printf("  %d: %d accidents\n", y, perYear[strconv.Itoa(y)])
	}
	fmt.Printf("Expected extract year: %d\n", sorted[len(sorted)-1])
}
