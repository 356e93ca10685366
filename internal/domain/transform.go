package domain

// JoinVehicles left-joins accidents to vehicles on Accident_Index.
// An accident with N vehicles yields N records in vehicle order; an accident
// with none yields one record with empty vehicle fields. Accident order is
// preserved and a null key never matches.
func JoinVehicles(accidents []AccidentRecord, vehicles []VehicleRecord) []Record {
	byAccident := make(map[string][]VehicleRecord, len(vehicles))
	for _, v := range vehicles {
		if IsNull(v.AccidentIndex) {
			continue
		}
		byAccident[v.AccidentIndex] = append(byAccident[v.AccidentIndex], v)
	}

	out := make([]Record, 0, len(accidents))
	for _, a := range accidents {
		base := newRecord(a)
		matches := byAccident[a.AccidentIndex]
		if IsNull(a.AccidentIndex) || len(matches) == 0 {
			out = append(out, base)
			continue
		}
		for _, v := range matches {
			out = append(out, base.withVehicle(v))
		}
	}
	return out
}

// DropMissingVehicle keeps records with a vehicle type. This removes accidents
// that matched no vehicle.
func DropMissingVehicle(records []Record) []Record {
	return filter(records, func(r *Record) bool {
		return !IsNull(r.VehicleType)
	})
}

// DropMissingLocation keeps records with both latitude and longitude.
func DropMissingLocation(records []Record) []Record {
	return filter(records, func(r *Record) bool {
		return !IsNull(r.Latitude) && !IsNull(r.Longitude)
	})
}

// ParseDates keeps records whose Date parses as YYYY-MM-DD and sets Year from
// it. Records that fail to parse are dropped.
func ParseDates(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		t, ok := ParseDate(r.Date)
		if !ok {
			continue
		}
		r.Date = t.Format(dateLayout)
		r.Year = t.Year()
		out = append(out, r)
	}
	return out
}

// LatestYear returns the maximum Year across records.
func LatestYear(records []Record) (int, error) {
	if len(records) == 0 {
		return 0, ErrNoDatedRows
	}
	latest := records[0].Year
	for i := range records[1:] {
		if y := records[i+1].Year; y > latest {
			latest = y
		}
	}
	return latest, nil
}

// FilterYear keeps records of the given year.
func FilterYear(records []Record, year int) []Record {
	return filter(records, func(r *Record) bool {
		return r.Year == year
	})
}

// filter returns the records for which keep is true, in order, without
// modifying the input.
func filter(records []Record, keep func(*Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
