package domain

// nullTokens are the spellings read as a missing value, matching the
// defaults of common dataframe CSV readers.
var nullTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether a raw field value represents a missing value.
// Matching is exact; surrounding whitespace is significant.
func IsNull(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

// clean maps null spellings to the empty string and leaves other values as-is.
func clean(s string) string {
	if IsNull(s) {
		return ""
	}
	return s
}
