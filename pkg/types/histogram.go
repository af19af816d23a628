package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Histogram counts rating scores per value, persisted as JSONB.
type Histogram map[string]int64

// Value marshals the map into JSON for Postgres.
func (h Histogram) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (h *Histogram) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("histogram: unsupported scan type %T", value)
	}

	result := make(Histogram)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*h = result
	return nil
}

// Add increments the bucket for the given score.
func (h Histogram) Add(score int) {
	if h == nil {
		return
	}
	h[fmt.Sprintf("%d", score)]++
}
