package presenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var renderFixture = []Card{
	{
		Kind:   KindFlight,
		Title:  "BA117",
		Status: "active",
		Route: &Route{
			From: RoutePoint{Code: "LHR", Name: "Heathrow"},
			To:   RoutePoint{Code: "JFK", Name: "Kennedy"},
		},
		Fields: []Field{{Label: "Airline", Value: "British Airways"}},
	},
	{
		Kind:   KindAirport,
		Title:  "ORY - Paris <Orly>",
		Fields: []Field{{Label: "Country", Value: "France"}},
	},
}

func TestHTMLRenderer_Cards(t *testing.T) {
	out := HTMLRenderer{}.RenderCards(renderFixture)

	assert.Contains(t, out, `<div class="flight-card">`)
	assert.Contains(t, out, `<div class="status-badge status-active">active</div>`)
	assert.Contains(t, out, `<div class="airport-code">LHR</div>`)
	assert.Contains(t, out, `<div class="detail-value">British Airways</div>`)
	assert.Contains(t, out, `<div class="airport-card">`)
	assert.Contains(t, out, "Paris &lt;Orly&gt;")
	assert.NotContains(t, out, "<Orly>")
	assert.Equal(t, 1, strings.Count(out, "flight-route"))
}

func TestHTMLRenderer_Message(t *testing.T) {
	r := HTMLRenderer{}

	assert.Equal(t, `<div class="no-results">No flights found matching your criteria.</div>`,
		r.RenderMessage(MessageEmpty, viewSpecs[TabLive].messages.Empty))
	assert.Equal(t, `<div class="error-message">a &amp; b</div>`, r.RenderMessage(MessageError, "a & b"))
}

func TestTerminalRenderer(t *testing.T) {
	r := NewTerminalRenderer()

	out := r.RenderCards(renderFixture)
	for _, want := range []string{"BA117", "active", "LHR → JFK", "British Airways", "ORY - Paris <Orly>", "France"} {
		assert.Contains(t, out, want)
	}

	assert.Contains(t, r.RenderMessage(MessageError, "Failed to load airports. Please try again."), "Failed to load airports")
	assert.Empty(t, r.RenderCards(nil))
}

func TestPane_ReplacesContent(t *testing.T) {
	p := NewPane(HTMLRenderer{})

	p.ShowCards(renderFixture)
	p.ShowMessage(MessageEmpty, "nothing")

	assert.Equal(t, `<div class="no-results">nothing</div>`, p.Content())
	assert.Equal(t, 2, p.Renders())
}
