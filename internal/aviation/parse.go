package aviation

import "github.com/tidwall/gjson"

// The parsers below read provider entries field by field. A field of an
// unexpected JSON type never invalidates the rest of the entry: scalars are
// read as their text, null and missing fields stay empty.

// ParseFlight reads one entry of the flights resource
func ParseFlight(r gjson.Result) FlightRecord {
	f := FlightRecord{Status: FlightStatus(text(r, "flight_status"))}
	if v := r.Get("flight"); v.IsObject() {
		f.Flight = &FlightIdent{
			IATA:   flex(v, "iata"),
			ICAO:   flex(v, "icao"),
			Number: flex(v, "number"),
		}
	}
	if v := r.Get("airline"); v.IsObject() {
		f.Airline = &AirlineRef{
			Name: text(v, "name"),
			IATA: flex(v, "iata"),
			ICAO: flex(v, "icao"),
		}
	}
	f.Departure = parseEndpoint(r.Get("departure"))
	f.Arrival = parseEndpoint(r.Get("arrival"))
	if v := r.Get("aircraft"); v.IsObject() {
		f.Aircraft = &Aircraft{
			Registration: text(v, "registration"),
			IATA:         text(v, "iata"),
			ICAO:         text(v, "icao"),
		}
	}
	return f
}

func parseEndpoint(v gjson.Result) *FlightEndpoint {
	if !v.IsObject() {
		return nil
	}
	return &FlightEndpoint{
		Airport:   text(v, "airport"),
		IATA:      text(v, "iata"),
		ICAO:      text(v, "icao"),
		Timezone:  text(v, "timezone"),
		Scheduled: text(v, "scheduled"),
		Estimated: text(v, "estimated"),
		Actual:    text(v, "actual"),
		Terminal:  text(v, "terminal"),
		Gate:      text(v, "gate"),
	}
}

// ParseAirport reads one entry of the airports resource
func ParseAirport(r gjson.Result) AirportRecord {
	return AirportRecord{
		IATACode:     text(r, "iata_code"),
		ICAOCode:     text(r, "icao_code"),
		AirportName:  text(r, "airport_name"),
		CountryName:  text(r, "country_name"),
		CityIATACode: text(r, "city_iata_code"),
		Timezone:     text(r, "timezone"),
	}
}

// ParseAirline reads one entry of the airlines resource
func ParseAirline(r gjson.Result) AirlineRecord {
	a := AirlineRecord{
		IATACode:    text(r, "iata_code"),
		ICAOCode:    text(r, "icao_code"),
		AirlineName: text(r, "airline_name"),
		CountryName: text(r, "country_name"),
	}
	_ = a.FleetSize.UnmarshalJSON([]byte(r.Get("fleet_size").Raw))
	return a
}

// text returns the field as a string. Objects and arrays have no text.
func text(r gjson.Result, path string) string {
	v := r.Get(path)
	if v.IsObject() || v.IsArray() {
		return ""
	}
	return v.String()
}

func flex(r gjson.Result, path string) FlexString {
	v := r.Get(path)
	var s FlexString
	if v.IsObject() || v.IsArray() {
		return s
	}
	_ = s.UnmarshalJSON([]byte(v.Raw))
	return s
}
