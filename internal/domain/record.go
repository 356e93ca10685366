package domain

// Column names shared by the raw inputs and the extract.
const (
	ColAccidentIndex   = "Accident_Index"
	ColSeverity        = "Accident_Severity"
	ColDate            = "Date"
	ColTime            = "Time"
	ColLatitude        = "Latitude"
	ColLongitude       = "Longitude"
	ColRoadType        = "Road_Type"
	ColSpeedLimit      = "Speed_limit"
	ColLightConditions = "Light_Conditions"
	ColWeather         = "Weather_Conditions"
	ColRoadSurface     = "Road_Surface_Conditions"
	ColUrbanOrRural    = "Urban_or_Rural_Area"
	ColVehicleType     = "Vehicle_Type"
	ColLeftHandDrive   = "Was_Vehicle_Left_Hand_Drive"
	ColDriverSex       = "Sex_of_Driver"
	ColDriverAgeBand   = "Age_Band_of_Driver"
	ColEngineCapacity  = "Engine_Capacity_.CC."
	ColMake            = "make"
	ColJourneyPurpose  = "Journey_Purpose_of_Driver"
	ColYear            = "Year"
)

// AccidentColumns lists the accident columns read from the raw accident file.
var AccidentColumns = []string{
	ColAccidentIndex, ColSeverity, ColDate, ColTime, ColLatitude, ColLongitude,
	ColRoadType, ColSpeedLimit, ColLightConditions, ColWeather,
	ColRoadSurface, ColUrbanOrRural,
}

// VehicleColumns lists the vehicle columns read from the raw vehicle file.
// The first entry is the join key.
var VehicleColumns = []string{
	ColAccidentIndex, ColVehicleType, ColLeftHandDrive, ColDriverSex,
	ColDriverAgeBand, ColEngineCapacity, ColMake, ColJourneyPurpose,
}

// ExtractColumns lists the columns of a persisted extract in output order.
var ExtractColumns = append(append(append([]string{}, AccidentColumns...), VehicleColumns[1:]...), ColYear)

// AccidentRecord is one row of the raw accident table restricted to the
// columns the extract needs.
type AccidentRecord struct {
	AccidentIndex     string `csv:"Accident_Index"`
	Severity          string `csv:"Accident_Severity"`
	Date              string `csv:"Date"`
	Time              string `csv:"Time"`
	Latitude          string `csv:"Latitude"`
	Longitude         string `csv:"Longitude"`
	RoadType          string `csv:"Road_Type"`
	SpeedLimit        string `csv:"Speed_limit"`
	LightConditions   string `csv:"Light_Conditions"`
	WeatherConditions string `csv:"Weather_Conditions"`
	RoadSurface       string `csv:"Road_Surface_Conditions"`
	UrbanOrRural      string `csv:"Urban_or_Rural_Area"`
}

// VehicleRecord is one row of the raw vehicle table.
type VehicleRecord struct {
	AccidentIndex  string `csv:"Accident_Index"`
	VehicleType    string `csv:"Vehicle_Type"`
	LeftHandDrive  string `csv:"Was_Vehicle_Left_Hand_Drive"`
	DriverSex      string `csv:"Sex_of_Driver"`
	DriverAgeBand  string `csv:"Age_Band_of_Driver"`
	EngineCapacity string `csv:"Engine_Capacity_.CC."`
	Make           string `csv:"make"`
	JourneyPurpose string `csv:"Journey_Purpose_of_Driver"`
}

// Record is an accident joined with one of its vehicles. Field order matches
// ExtractColumns and is the column order of the persisted extract.
type Record struct {
	AccidentIndex     string `csv:"Accident_Index"`
	Severity          string `csv:"Accident_Severity"`
	Date              string `csv:"Date"`
	Time              string `csv:"Time"`
	Latitude          string `csv:"Latitude"`
	Longitude         string `csv:"Longitude"`
	RoadType          string `csv:"Road_Type"`
	SpeedLimit        string `csv:"Speed_limit"`
	LightConditions   string `csv:"Light_Conditions"`
	WeatherConditions string `csv:"Weather_Conditions"`
	RoadSurface       string `csv:"Road_Surface_Conditions"`
	UrbanOrRural      string `csv:"Urban_or_Rural_Area"`

	VehicleType    string `csv:"Vehicle_Type"`
	LeftHandDrive  string `csv:"Was_Vehicle_Left_Hand_Drive"`
	DriverSex      string `csv:"Sex_of_Driver"`
	DriverAgeBand  string `csv:"Age_Band_of_Driver"`
	EngineCapacity string `csv:"Engine_Capacity_.CC."`
	Make           string `csv:"make"`
	JourneyPurpose string `csv:"Journey_Purpose_of_Driver"`

	Year int `csv:"Year"`
}

// newRecord copies accident fields into a Record with empty vehicle fields.
func newRecord(a AccidentRecord) Record {
	return Record{
		AccidentIndex:     clean(a.AccidentIndex),
		Severity:          clean(a.Severity),
		Date:              clean(a.Date),
		Time:              clean(a.Time),
		Latitude:          clean(a.Latitude),
		Longitude:         clean(a.Longitude),
		RoadType:          clean(a.RoadType),
		SpeedLimit:        clean(a.SpeedLimit),
		LightConditions:   clean(a.LightConditions),
		WeatherConditions: clean(a.WeatherConditions),
		RoadSurface:       clean(a.RoadSurface),
		UrbanOrRural:      clean(a.UrbanOrRural),
	}
}

// withVehicle returns r with the vehicle fields of v.
func (r Record) withVehicle(v VehicleRecord) Record {
	r.VehicleType = clean(v.VehicleType)
	r.LeftHandDrive = clean(v.LeftHandDrive)
	r.DriverSex = clean(v.DriverSex)
	r.DriverAgeBand = clean(v.DriverAgeBand)
	r.EngineCapacity = clean(v.EngineCapacity)
	r.Make = clean(v.Make)
	r.JourneyPurpose = clean(v.JourneyPurpose)
	return r
}
