package presenter

import "time"

// DisplayLayout is the short form timestamps are shown in
const DisplayLayout = "Jan 2, 03:04 PM"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// dateLayout is a bare calendar date, read as midnight UTC
const dateLayout = "2006-01-02"

// FormatTimestamp formats raw in the local zone
func FormatTimestamp(raw string) string {
	return FormatTimestampIn(raw, time.Local)
}

// FormatTimestampIn formats raw in loc. Empty input yields N/A and input that
// does not parse is returned unchanged. Timestamps without a zone are read
// in loc, a bare date as midnight UTC.
func FormatTimestampIn(raw string, loc *time.Location) string {
	if raw == "" {
		return NotAvailable
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc).Format(DisplayLayout)
		}
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.In(loc).Format(DisplayLayout)
	}
	return raw
}
