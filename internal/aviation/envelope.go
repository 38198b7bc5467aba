package aviation

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Envelope is a raw upstream response body of the form {"data": [...], ...}.
// Keys other than data (pagination and the like) are kept untouched so they
// can be passed through to callers.
type Envelope struct {
	Body []byte
}

// Valid reports whether the body is well-formed JSON
func (e *Envelope) Valid() bool {
	return e != nil && gjson.ValidBytes(e.Body)
}

// Data returns the data member
func (e *Envelope) Data() gjson.Result {
	if !e.Valid() {
		return gjson.Result{}
	}
	return gjson.GetBytes(e.Body, "data")
}

// HasData reports whether the body carries a data sequence, possibly empty
func (e *Envelope) HasData() bool {
	return e.Data().IsArray()
}

// Count returns the number of entries in data
func (e *Envelope) Count() int {
	data := e.Data()
	if !data.IsArray() {
		return 0
	}
	return len(data.Array())
}

// Decode maps every object entry of data through parse. Entries that are
// not objects are skipped and reported through the returned count.
func Decode[T any](e *Envelope, parse func(gjson.Result) T) ([]T, int, error) {
	data := e.Data()
	if !data.IsArray() {
		return nil, 0, fmt.Errorf("response has no data sequence")
	}

	entries := data.Array()
	records := make([]T, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		if !entry.IsObject() {
			skipped++
			continue
		}
		records = append(records, parse(entry))
	}

	return records, skipped, nil
}
