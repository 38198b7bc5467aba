package sqlite

import "time"

// QueryRecord is one proxied API request as seen by operators. It never
// holds flight, airport or airline payloads.
type QueryRecord struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	Operation  string    `json:"operation"`       // "live_flights", "search_flight", "airports", "airlines"
	Params     string    `json:"params"`          // URL-encoded inbound query, access_key removed
	StatusCode int       `json:"status_code"`     // status returned to the caller
	Records    int       `json:"records"`         // records returned to the caller
	Upstream   int       `json:"upstream"`        // records the provider returned
	Error      string    `json:"error,omitempty"` // error message returned to the caller
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
