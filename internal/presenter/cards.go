package presenter

import (
	"strconv"

	"github.com/yegors/flight-tracker/internal/aviation"
)

// Placeholders shown for absent fields
const (
	NotAvailable   = "N/A"
	UnknownAirline = "Unknown Airline"
	UnknownAirport = "Unknown Airport"
	UnknownPlace   = "Unknown"
)

// Kind is the record type a card shows
type Kind string

const (
	KindFlight  Kind = "flight"
	KindAirport Kind = "airport"
	KindAirline Kind = "airline"
)

// Field is one labeled value on a card
type Field struct {
	Label string
	Value string
}

// RoutePoint is one end of a flight route
type RoutePoint struct {
	Code string
	Name string
}

// Route is the departure and arrival of a flight card
type Route struct {
	From RoutePoint
	To   RoutePoint
}

// Card is the display form of one record. Every value is already defaulted.
type Card struct {
	Kind   Kind
	Title  string
	Status string // flights only
	Route  *Route // flights only
	Fields []Field
}

func or(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

// flightCard maps a flight record to a card, formatting timestamps with format
func flightCard(f aviation.FlightRecord, format func(string) string) Card {
	var ident aviation.FlightIdent
	if f.Flight != nil {
		ident = *f.Flight
	}
	var airline aviation.AirlineRef
	if f.Airline != nil {
		airline = *f.Airline
	}
	var dep, arr aviation.FlightEndpoint
	if f.Departure != nil {
		dep = *f.Departure
	}
	if f.Arrival != nil {
		arr = *f.Arrival
	}
	var aircraft aviation.Aircraft
	if f.Aircraft != nil {
		aircraft = *f.Aircraft
	}

	return Card{
		Kind:   KindFlight,
		Title:  or(ident.IATA.String(), or(ident.Number.String(), NotAvailable)),
		Status: or(string(f.Status), string(aviation.StatusUnknown)),
		Route: &Route{
			From: RoutePoint{Code: or(dep.IATA, NotAvailable), Name: or(dep.Airport, UnknownPlace)},
			To:   RoutePoint{Code: or(arr.IATA, NotAvailable), Name: or(arr.Airport, UnknownPlace)},
		},
		Fields: []Field{
			{Label: "Airline", Value: or(airline.Name, UnknownAirline)},
			{Label: "Departure", Value: format(dep.Scheduled)},
			{Label: "Arrival", Value: format(arr.Scheduled)},
			{Label: "Aircraft", Value: or(aircraft.Registration, NotAvailable)},
		},
	}
}

// AirportCard maps an airport record to a card
func AirportCard(a aviation.AirportRecord) Card {
	return Card{
		Kind:  KindAirport,
		Title: or(a.IATACode, NotAvailable) + " - " + or(a.AirportName, UnknownAirport),
		Fields: []Field{
			{Label: "Country", Value: or(a.CountryName, NotAvailable)},
			{Label: "City", Value: or(a.CityIATACode, NotAvailable)},
			{Label: "ICAO Code", Value: or(a.ICAOCode, NotAvailable)},
			{Label: "Timezone", Value: or(a.Timezone, NotAvailable)},
		},
	}
}

// AirlineCard maps an airline record to a card. A fleet size of zero shows
// as absent.
func AirlineCard(a aviation.AirlineRecord) Card {
	fleet := NotAvailable
	if n, ok := a.FleetSize.Int(); ok && n != 0 {
		fleet = strconv.Itoa(n)
	}

	return Card{
		Kind:  KindAirline,
		Title: or(a.AirlineName, UnknownAirline),
		Fields: []Field{
			{Label: "IATA Code", Value: or(a.IATACode, NotAvailable)},
			{Label: "ICAO Code", Value: or(a.ICAOCode, NotAvailable)},
			{Label: "Country", Value: or(a.CountryName, NotAvailable)},
			{Label: "Fleet Size", Value: fleet},
		},
	}
}
