package presenter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/yegors/flight-tracker/internal/aviation"
)

func utcFormat(raw string) string {
	return FormatTimestampIn(raw, utc)
}

func TestFlightCard_Complete(t *testing.T) {
	f := aviation.ParseFlight(gjson.Parse(`{
		"flight": {"iata": "BA117", "number": "117"},
		"airline": {"name": "British Airways"},
		"flight_status": "active",
		"departure": {"airport": "Heathrow", "iata": "LHR", "scheduled": "2024-03-01T09:30:00+00:00"},
		"arrival": {"airport": "John F Kennedy International", "iata": "JFK", "scheduled": "2024-03-01T17:45:00+00:00"},
		"aircraft": {"registration": "G-XWBA"}
	}`))

	want := Card{
		Kind:   KindFlight,
		Title:  "BA117",
		Status: "active",
		Route: &Route{
			From: RoutePoint{Code: "LHR", Name: "Heathrow"},
			To:   RoutePoint{Code: "JFK", Name: "John F Kennedy International"},
		},
		Fields: []Field{
			{Label: "Airline", Value: "British Airways"},
			{Label: "Departure", Value: "Mar 1, 09:30 AM"},
			{Label: "Arrival", Value: "Mar 1, 05:45 PM"},
			{Label: "Aircraft", Value: "G-XWBA"},
		},
	}

	if diff := cmp.Diff(want, flightCard(f, utcFormat)); diff != "" {
		t.Errorf("flight card mismatch (-want +got):\n%s", diff)
	}
}

func TestFlightCard_Placeholders(t *testing.T) {
	card := flightCard(aviation.FlightRecord{}, utcFormat)

	want := Card{
		Kind:   KindFlight,
		Title:  "N/A",
		Status: "unknown",
		Route: &Route{
			From: RoutePoint{Code: "N/A", Name: "Unknown"},
			To:   RoutePoint{Code: "N/A", Name: "Unknown"},
		},
		Fields: []Field{
			{Label: "Airline", Value: "Unknown Airline"},
			{Label: "Departure", Value: "N/A"},
			{Label: "Arrival", Value: "N/A"},
			{Label: "Aircraft", Value: "N/A"},
		},
	}

	if diff := cmp.Diff(want, card); diff != "" {
		t.Errorf("flight card mismatch (-want +got):\n%s", diff)
	}
}

func TestFlightCard_NumberFallback(t *testing.T) {
	card := flightCard(aviation.FlightRecord{Flight: &aviation.FlightIdent{Number: "2231"}}, utcFormat)
	assert.Equal(t, "2231", card.Title)
}

func TestFlightCard_DoesNotMutateRecord(t *testing.T) {
	f := aviation.FlightRecord{Departure: &aviation.FlightEndpoint{Scheduled: "not-a-date"}}

	card := flightCard(f, utcFormat)

	assert.Equal(t, "not-a-date", card.Fields[1].Value)
	assert.Equal(t, "not-a-date", f.Departure.Scheduled)
	assert.Nil(t, f.Arrival)
}

func TestAirportCard(t *testing.T) {
	tests := []struct {
		name   string
		record aviation.AirportRecord
		want   Card
	}{
		{
			name: "complete",
			record: aviation.AirportRecord{
				IATACode: "LHR", ICAOCode: "EGLL", AirportName: "London Heathrow",
				CountryName: "United Kingdom", CityIATACode: "LON", Timezone: "Europe/London",
			},
			want: Card{Kind: KindAirport, Title: "LHR - London Heathrow", Fields: []Field{
				{Label: "Country", Value: "United Kingdom"},
				{Label: "City", Value: "LON"},
				{Label: "ICAO Code", Value: "EGLL"},
				{Label: "Timezone", Value: "Europe/London"},
			}},
		},
		{
			name:   "empty",
			record: aviation.AirportRecord{},
			want: Card{Kind: KindAirport, Title: "N/A - Unknown Airport", Fields: []Field{
				{Label: "Country", Value: "N/A"},
				{Label: "City", Value: "N/A"},
				{Label: "ICAO Code", Value: "N/A"},
				{Label: "Timezone", Value: "N/A"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, AirportCard(tt.record)); diff != "" {
				t.Errorf("airport card mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAirlineCard_FleetSize(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		fleet string
	}{
		{"number", `{"fleet_size": 279}`, "279"},
		{"numeric string", `{"fleet_size": "963"}`, "963"},
		{"zero", `{"fleet_size": 0}`, "N/A"},
		{"null", `{"fleet_size": null}`, "N/A"},
		{"absent", `{}`, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := AirlineCard(aviation.ParseAirline(gjson.Parse(tt.json)))

			assert.Equal(t, "Unknown Airline", card.Title)
			require.Len(t, card.Fields, 4)
			assert.Equal(t, Field{Label: "Fleet Size", Value: tt.fleet}, card.Fields[3])
		})
	}
}
