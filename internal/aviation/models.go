package aviation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Resource is an upstream collection endpoint
type Resource string

const (
	ResourceFlights  Resource = "flights"
	ResourceAirports Resource = "airports"
	ResourceAirlines Resource = "airlines"
)

// FlightStatus is the upstream flight_status value
type FlightStatus string

const (
	StatusScheduled FlightStatus = "scheduled"
	StatusActive    FlightStatus = "active"
	StatusLanded    FlightStatus = "landed"
	StatusCancelled FlightStatus = "cancelled"
	StatusIncident  FlightStatus = "incident"
	StatusDiverted  FlightStatus = "diverted"
	StatusUnknown   FlightStatus = "unknown"
)

// FlightStatuses lists every status the provider reports, in display order
var FlightStatuses = []FlightStatus{
	StatusScheduled,
	StatusActive,
	StatusLanded,
	StatusCancelled,
	StatusIncident,
	StatusDiverted,
}

// Valid reports whether s is one of the known statuses
func (s FlightStatus) Valid() bool {
	if s == StatusUnknown {
		return true
	}
	for _, known := range FlightStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// FlightRecord is a single entry of the flights resource. Every part is optional.
type FlightRecord struct {
	Flight    *FlightIdent    `json:"flight,omitempty"`
	Airline   *AirlineRef     `json:"airline,omitempty"`
	Status    FlightStatus    `json:"flight_status,omitempty"`
	Departure *FlightEndpoint `json:"departure,omitempty"`
	Arrival   *FlightEndpoint `json:"arrival,omitempty"`
	Aircraft  *Aircraft       `json:"aircraft,omitempty"`
}

// FlightIdent identifies a flight
type FlightIdent struct {
	IATA   FlexString `json:"iata,omitempty"`
	ICAO   FlexString `json:"icao,omitempty"`
	Number FlexString `json:"number,omitempty"`
}

// AirlineRef is the airline block embedded in a flight
type AirlineRef struct {
	Name string     `json:"name,omitempty"`
	IATA FlexString `json:"iata,omitempty"`
	ICAO FlexString `json:"icao,omitempty"`
}

// FlightEndpoint is the departure or arrival block of a flight
type FlightEndpoint struct {
	Airport   string `json:"airport,omitempty"`
	IATA      string `json:"iata,omitempty"`
	ICAO      string `json:"icao,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Scheduled string `json:"scheduled,omitempty"`
	Estimated string `json:"estimated,omitempty"`
	Actual    string `json:"actual,omitempty"`
	Terminal  string `json:"terminal,omitempty"`
	Gate      string `json:"gate,omitempty"`
}

// Aircraft is the aircraft block of a flight
type Aircraft struct {
	Registration string `json:"registration,omitempty"`
	IATA         string `json:"iata,omitempty"`
	ICAO         string `json:"icao,omitempty"`
}

// AirportRecord is a single entry of the airports resource
type AirportRecord struct {
	IATACode     string `json:"iata_code,omitempty"`
	ICAOCode     string `json:"icao_code,omitempty"`
	AirportName  string `json:"airport_name,omitempty"`
	CountryName  string `json:"country_name,omitempty"`
	CityIATACode string `json:"city_iata_code,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
}

// AirlineRecord is a single entry of the airlines resource
type AirlineRecord struct {
	IATACode    string  `json:"iata_code,omitempty"`
	ICAOCode    string  `json:"icao_code,omitempty"`
	AirlineName string  `json:"airline_name,omitempty"`
	CountryName string  `json:"country_name,omitempty"`
	FleetSize   FlexInt `json:"fleet_size,omitempty"`
}

// FlexString accepts a JSON string, number or null
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	// numbers and booleans keep their literal text
	*s = FlexString(data)
	return nil
}

// String returns the plain value
func (s FlexString) String() string {
	return string(s)
}

// FlexInt accepts a JSON number, a numeric string or null. The provider sends
// fleet sizes both ways.
type FlexInt struct {
	value int
	valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		return nil
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// unparseable sizes are treated as absent
		return nil
	}
	f.value = int(n)
	f.valid = true
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.value)), nil
}

// Int returns the value and whether it was present
func (f FlexInt) Int() (int, bool) {
	return f.value, f.valid
}

// IsZero lets omitempty-aware encoders skip absent values
func (f FlexInt) IsZero() bool {
	return !f.valid
}
