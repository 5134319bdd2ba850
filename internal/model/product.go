package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Characteristic is a single named technical attribute of a product, in the
// order it was discovered in the source text. Multiple characteristics may
// share a name; discovery order is meaningful because the first weight match
// wins during resolution.
type Characteristic struct {
	Name  string
	Value string
}

// MarshalJSON emits the persisted single-pair object shape, e.g.
// {"Weight": "50 g"}.
func (c Characteristic) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{c.Name: c.Value})
}

// UnmarshalJSON reads the single-pair object shape back into a Characteristic.
func (c *Characteristic) UnmarshalJSON(data []byte) error {
	var pair map[string]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return eris.Wrap(err, "model: decode characteristic")
	}
	if len(pair) != 1 {
		return eris.Errorf("model: characteristic must be a single-pair object, got %d keys", len(pair))
	}
	for name, value := range pair {
		c.Name = name
		c.Value = value
	}
	return nil
}

// Product is one extracted product specification. File is the source filename
// only, never a path. A Product is immutable once created within a run and is
// not persisted across runs.
type Product struct {
	Name            string           `json:"name"`
	File            string           `json:"file"`
	Characteristics []Characteristic `json:"characteristics"`
}
