// Package dto holds the JSON shapes exchanged at the API boundary and the
// functions that map persistence models onto them.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// localLayout is an ISO-8601 timestamp without offset, read as UTC.
const localLayout = "2006-01-02T15:04:05"

// DateTime is a timestamp that accepts RFC 3339 as well as a bare
// "2006-01-02T15:04:05" local form. It is always written as RFC 3339 UTC.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime { return DateTime{Time: t.UTC()} }

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("dto: datetime must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, localLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("dto: invalid datetime %q", s)
}
