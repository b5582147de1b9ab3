package models

import (
	"bytes"
	"encoding/json"
)

// QuantileSet holds the ordered quantile values for one forecast step.
type QuantileSet []float64

// QuantileForecast carries the model runner's quantile output for one
// symbol. The runner emits either one quantile set per forecast step
// (a list of lists) or a single flat quantile set when only one step
// exists. Both shapes are preserved verbatim; any other shape decodes
// as malformed and is treated as absent by consumers, never rejected.
type QuantileForecast struct {
	Steps []QuantileSet
	Flat  QuantileSet

	raw json.RawMessage
}

// NewStepQuantiles builds a per-step quantile forecast.
func NewStepQuantiles(steps []QuantileSet) *QuantileForecast {
	raw, _ := json.Marshal(steps)
	return &QuantileForecast{Steps: steps, raw: raw}
}

// NewFlatQuantiles builds a degenerate single-step quantile forecast.
func NewFlatQuantiles(values QuantileSet) *QuantileForecast {
	raw, _ := json.Marshal(values)
	return &QuantileForecast{Flat: values, raw: raw}
}

func (q *QuantileForecast) UnmarshalJSON(data []byte) error {
	q.Steps = nil
	q.Flat = nil
	q.raw = nil

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	q.raw = append(json.RawMessage(nil), trimmed...)

	var steps []QuantileSet
	if err := json.Unmarshal(trimmed, &steps); err == nil {
		q.Steps = steps
		return nil
	}

	var flat QuantileSet
	if err := json.Unmarshal(trimmed, &flat); err == nil {
		q.Flat = flat
		return nil
	}

	// Malformed payloads keep their raw bytes so responses can echo
	// them, but expose no quantile values.
	return nil
}

func (q *QuantileForecast) MarshalJSON() ([]byte, error) {
	if q == nil || len(q.raw) == 0 {
		return []byte("null"), nil
	}
	return q.raw, nil
}

// Empty reports whether no quantile payload is present at all.
func (q *QuantileForecast) Empty() bool {
	return q == nil || len(q.raw) == 0
}

// LastStep returns the quantile set for the final forecast step. For
// the per-step shape that is the last element; for the flat shape the
// whole structure is the set. Malformed payloads yield nil.
func (q *QuantileForecast) LastStep() QuantileSet {
	if q == nil {
		return nil
	}
	if len(q.Steps) > 0 {
		return q.Steps[len(q.Steps)-1]
	}
	if len(q.Flat) > 0 {
		return q.Flat
	}
	return nil
}

// Truncate returns a forecast limited to the first horizon steps. Only
// the per-step shape has a step dimension to cut; flat and malformed
// payloads are returned as is.
func (q *QuantileForecast) Truncate(horizon int) *QuantileForecast {
	if q == nil || horizon <= 0 || len(q.Steps) <= horizon {
		return q
	}
	return NewStepQuantiles(q.Steps[:horizon])
}
