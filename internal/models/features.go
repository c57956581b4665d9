package models

import (
	"fmt"
	"strings"
)

// FeatureOrder is the column order the scaler and classifier were fitted on.
// Row() assembles vectors in exactly this order; changing it silently breaks
// every prediction, so it is pinned here and covered by a test.
var FeatureOrder = []string{
	"RainTomorrow",
	"Rainfall",
	"Humidity3pm",
	"RainToday",
	"Cloud3pm",
	"Sunshine",
}

// FeatureVector is the request schema for POST /api/predict. All six fields
// are required integers; pointers distinguish an absent field from a zero.
type FeatureVector struct {
	RainTomorrow *int `json:"RainTomorrow" validate:"required"`
	Rainfall     *int `json:"Rainfall" validate:"required"`
	Humidity3pm  *int `json:"Humidity3pm" validate:"required"`
	RainToday    *int `json:"RainToday" validate:"required"`
	Cloud3pm     *int `json:"Cloud3pm" validate:"required"`
	Sunshine     *int `json:"Sunshine" validate:"required"`
}

// Row returns the single-row numeric matrix in FeatureOrder. Callers must
// validate the vector first; nil fields are treated as zero here.
func (f FeatureVector) Row() []float64 {
	return []float64{
		float64(intOrZero(f.RainTomorrow)),
		float64(intOrZero(f.Rainfall)),
		float64(intOrZero(f.Humidity3pm)),
		float64(intOrZero(f.RainToday)),
		float64(intOrZero(f.Cloud3pm)),
		float64(intOrZero(f.Sunshine)),
	}
}

// Key returns a stable cache key for the vector. Two vectors with the same
// field values always produce the same key.
func (f FeatureVector) Key() string {
	var b strings.Builder
	b.WriteString("predict")
	for _, v := range []*int{f.RainTomorrow, f.Rainfall, f.Humidity3pm, f.RainToday, f.Cloud3pm, f.Sunshine} {
		fmt.Fprintf(&b, ":%d", intOrZero(v))
	}
	return b.String()
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Prediction is the response body for POST /api/predict. The value is always
// list-shaped: the classifier operates on batches even for a single row.
type Prediction struct {
	Prediction []int `json:"prediction"`
}
