package quality

import (
	"encoding/json"
	"math"
)

// JSON has no encoding for NaN or Inf. The two places where a result can
// legitimately hold one encode it as null: an ANOVA F statistic of +Inf
// (zero within-group variance) and an assumption p-value of NaN.

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON encodes a non-finite F statistic as null
func (r AnovaResult) MarshalJSON() ([]byte, error) {
	type alias AnovaResult
	return json.Marshal(struct {
		alias
		Statistic *float64 `json:"statistic"`
	}{alias(r), finiteOrNil(r.Statistic)})
}

// UnmarshalJSON reads a null F statistic back as +Inf
func (r *AnovaResult) UnmarshalJSON(data []byte) error {
	type alias AnovaResult
	aux := struct {
		*alias
		Statistic *float64 `json:"statistic"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Statistic = math.Inf(1)
	if aux.Statistic != nil {
		r.Statistic = *aux.Statistic
	}
	return nil
}

// MarshalJSON encodes an uncomputable p-value as null
func (c AssumptionCheck) MarshalJSON() ([]byte, error) {
	type alias AssumptionCheck
	return json.Marshal(struct {
		alias
		PValue *float64 `json:"p_value"`
	}{alias(c), finiteOrNil(c.PValue)})
}

// UnmarshalJSON reads a null p-value back as NaN
func (c *AssumptionCheck) UnmarshalJSON(data []byte) error {
	type alias AssumptionCheck
	aux := struct {
		*alias
		PValue *float64 `json:"p_value"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.PValue = math.NaN()
	if aux.PValue != nil {
		c.PValue = *aux.PValue
	}
	return nil
}
