package flights

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/yegors/flight-tracker/internal/aviation"
)

// MatchAirport reports whether term occurs, ignoring case, in the airport
// name, IATA code, city code or country name.
func MatchAirport(a aviation.AirportRecord, term string) bool {
	return containsAny(term, a.AirportName, a.IATACode, a.CityIATACode, a.CountryName)
}

// MatchAirline reports whether term occurs, ignoring case, in the airline
// name, IATA code, ICAO code or country name.
func MatchAirline(a aviation.AirlineRecord, term string) bool {
	return containsAny(term, a.AirlineName, a.IATACode, a.ICAOCode, a.CountryName)
}

func containsAny(term string, fields ...string) bool {
	needle := strings.ToLower(term)
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// filterEnvelope drops the entries of body's data sequence that do not
// match term. Kept entries are copied byte for byte and every other key of
// the envelope is left as is. Entries are read field by field, so a field of
// an unexpected type never hides a match in another one.
func filterEnvelope[T any](body []byte, term string, parse func(gjson.Result) T, match func(T, string) bool) ([]byte, int, error) {
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, 0, fmt.Errorf("%w: response has no data sequence", ErrNotFound)
	}

	var kept strings.Builder
	kept.WriteByte('[')
	count := 0
	data.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() || !match(parse(entry), term) {
			return true
		}
		if count > 0 {
			kept.WriteByte(',')
		}
		kept.WriteString(entry.Raw)
		count++
		return true
	})
	kept.WriteByte(']')

	filtered, err := sjson.SetRawBytes(body, "data", []byte(kept.String()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to rebuild envelope: %w", err)
	}
	return filtered, count, nil
}
