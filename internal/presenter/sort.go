package presenter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yegors/flight-tracker/internal/aviation"
)

// SortCriterion names the field a flight list is ordered by
type SortCriterion string

const (
	SortByAirline   SortCriterion = "airline"
	SortByDeparture SortCriterion = "departure"
	SortByStatus    SortCriterion = "status"
)

// ParseSortCriterion accepts airline, departure or status
func ParseSortCriterion(s string) (SortCriterion, error) {
	switch c := SortCriterion(strings.ToLower(strings.TrimSpace(s))); c {
	case SortByAirline, SortByDeparture, SortByStatus:
		return c, nil
	default:
		return "", fmt.Errorf("unknown sort criterion %q (want airline, departure or status)", s)
	}
}

func sortKey(c SortCriterion, f aviation.FlightRecord) string {
	switch c {
	case SortByAirline:
		if f.Airline != nil {
			return f.Airline.Name
		}
	case SortByDeparture:
		if f.Departure != nil {
			return f.Departure.Scheduled
		}
	case SortByStatus:
		return string(f.Status)
	}
	return ""
}

// SortFlights returns a copy of list ordered by c. The comparison is byte-wise
// on the field text, missing values sort first and equal keys keep their order.
func SortFlights(list []aviation.FlightRecord, c SortCriterion) []aviation.FlightRecord {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b aviation.FlightRecord) int {
		return strings.Compare(sortKey(c, a), sortKey(c, b))
	})
	return sorted
}
