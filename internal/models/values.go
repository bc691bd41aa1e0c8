package models

import (
	"bytes"
	"encoding/json"
)

// MissingValue is Keepa's "no data" marker inside a history
const MissingValue = -1

var jsonNull = []byte("null")

// OptionalInt is an integer field that may be absent. null, a missing key or
// a value that is not a JSON integer all leave it invalid.
type OptionalInt struct {
	Value int
	Valid bool
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Value, o.Valid = parseInt(data)
	return nil
}

// Get returns the value and whether it was present
func (o OptionalInt) Get() (int, bool) {
	return o.Value, o.Valid
}

// Series is a flat Keepa history. Elements that are null or not integers
// decode as MissingValue, and a value that is not an array leaves the
// series empty.
type Series []int

func (s *Series) UnmarshalJSON(data []byte) error {
	*s = decodeSeries(data)
	return nil
}

// History is the product csv block: one Series per slot, with unusable
// slots left empty.
type History [][]int

func (h *History) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*h = nil
		return nil
	}

	slots := make(History, len(raw))
	for i, slot := range raw {
		slots[i] = decodeSeries(slot)
	}
	*h = slots
	return nil
}

func decodeSeries(data []byte) []int {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil
	}

	series := make([]int, len(raw))
	for i, elem := range raw {
		v, ok := parseInt(elem)
		if !ok {
			v = MissingValue
		}
		series[i] = v
	}
	return series
}

func parseInt(data []byte) (int, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return 0, false
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, false
	}
	return v, true
}
