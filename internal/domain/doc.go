// Package domain models UK road-safety (STATS19) accident and vehicle records
// and the pure transformations that turn them into a single-year extract.
//
// # Data Source
//
// The raw inputs are the Department for Transport accident and vehicle
// tables as republished in CSV form ("Accident_Information.csv" and
// "Vehicle_Information.csv"). One accident row has zero or more vehicle rows,
// joined on Accident_Index. The vehicle table contains non-UTF-8 bytes in
// free-text columns such as make and is read as Latin-1.
//
// # Conventions
//
// Values are kept as raw text so the extract reproduces input formatting.
// A value is null when it is empty or one of the usual spreadsheet/NA
// spellings (see [IsNull]); nulls are written back as empty fields.
//
// Date format:
//
//	"YYYY-MM-DD", e.g. "2016-03-21". Nothing else is accepted.
//
// Time format:
//
//	"HH:MM" in 24-hour notation, e.g. "17:42". Hour and minute may each be
//	a single digit ("9:05", "9:5").
//
// Severity:
//
//	"Slight", "Serious" or "Fatal".
//
// # Extract naming
//
// An extract holds the rows of the latest year present in the joined input
// and is written as "uk_accidents_<year>.csv" (see [ExtractFileName]).
package domain
