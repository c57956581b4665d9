package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-predict-service/internal/observability"
)

// ErrDimensionMismatch is returned when an input row's width disagrees with
// the dimensions the artifact was fitted on.
var ErrDimensionMismatch = errors.New("input dimensions do not match fitted artifact")

// Scaler is a fitted standard scaler: per-column centering and scaling using
// statistics learned at training time. Immutable after load.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform applies (x - mean) / scale to every row. The input is not
// modified; a new matrix is returned.
func (s *Scaler) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("%w: row has %d columns, scaler fitted on %d", ErrDimensionMismatch, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// validate checks structural consistency of a freshly decoded scaler.
func (s *Scaler) validate() error {
	if len(s.Mean) == 0 {
		return errors.New("scaler has no columns")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean has %d columns, scale has %d", len(s.Mean), len(s.Scale))
	}
	for j, v := range s.Scale {
		if v == 0 {
			return fmt.Errorf("scaler scale[%d] is zero", j)
		}
	}
	return nil
}

// Classifier is a fitted linear classifier. One coefficient row with two
// classes is the binary case (decision > 0 selects Classes[1]); multiple rows
// predict by argmax over per-class decision scores. Immutable after load.
type Classifier struct {
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// Predict returns one class label per input row.
func (c *Classifier) Predict(rows [][]float64) ([]int, error) {
	labels := make([]int, len(rows))
	for i, row := range rows {
		if len(row) != len(c.Coef[0]) {
			return nil, fmt.Errorf("%w: row has %d columns, classifier fitted on %d", ErrDimensionMismatch, len(row), len(c.Coef[0]))
		}
		if len(c.Coef) == 1 && len(c.Classes) == 2 {
			if decision(row, c.Coef[0], c.Intercept[0]) > 0 {
				labels[i] = c.Classes[1]
			} else {
				labels[i] = c.Classes[0]
			}
			continue
		}
		best := 0
		bestScore := decision(row, c.Coef[0], c.Intercept[0])
		for k := 1; k < len(c.Coef); k++ {
			if score := decision(row, c.Coef[k], c.Intercept[k]); score > bestScore {
				best, bestScore = k, score
			}
		}
		labels[i] = c.Classes[best]
	}
	return labels, nil
}

func decision(row, coef []float64, intercept float64) float64 {
	score := intercept
	for j, v := range row {
		score += v * coef[j]
	}
	return score
}

// validate checks structural consistency of a freshly decoded classifier.
func (c *Classifier) validate() error {
	if len(c.Coef) == 0 || len(c.Coef[0]) == 0 {
		return errors.New("classifier has no coefficients")
	}
	width := len(c.Coef[0])
	for k, row := range c.Coef {
		if len(row) != width {
			return fmt.Errorf("classifier coef[%d] has %d columns, coef[0] has %d", k, len(row), width)
		}
	}
	if len(c.Intercept) != len(c.Coef) {
		return fmt.Errorf("classifier has %d intercepts for %d coefficient rows", len(c.Intercept), len(c.Coef))
	}
	switch len(c.Coef) {
	case 1:
		if len(c.Classes) != 2 {
			return fmt.Errorf("binary classifier needs 2 classes, got %d", len(c.Classes))
		}
	default:
		if len(c.Classes) != len(c.Coef) {
			return fmt.Errorf("classifier has %d classes for %d coefficient rows", len(c.Classes), len(c.Coef))
		}
	}
	return nil
}

// LoadScaler loads a fitted scaler from path. Failures are swallowed by
// design: the process favors availability over correctness, so a missing or
// corrupt artifact logs one diagnostic line and yields nil. Inference fails
// fast at request time instead.
func LoadScaler(path string, logger *zap.Logger) *Scaler {
	var s Scaler
	if !loadJSON(path, "scaler", &s, logger) {
		return nil
	}
	if err := s.validate(); err != nil {
		reportCorrupt(path, "scaler", err, logger)
		return nil
	}
	observability.SetArtifactLoaded("scaler", true)
	return &s
}

// LoadClassifier loads a fitted classifier from path. Same swallow-and-continue
// policy as LoadScaler.
func LoadClassifier(path string, logger *zap.Logger) *Classifier {
	var c Classifier
	if !loadJSON(path, "model", &c, logger) {
		return nil
	}
	if err := c.validate(); err != nil {
		reportCorrupt(path, "model", err, logger)
		return nil
	}
	observability.SetArtifactLoaded("model", true)
	return &c
}

// loadJSON reads and decodes one artifact file, logging exactly one line on
// failure. Returns false when the artifact could not be produced.
func loadJSON(path, kind string, v interface{}, logger *zap.Logger) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("artifact not found", zap.String("artifact", kind), zap.String("path", path))
		} else {
			logger.Warn("artifact read failed", zap.String("artifact", kind), zap.String("path", path), zap.Error(err))
		}
		observability.RecordArtifactLoadFailure(kind)
		observability.SetArtifactLoaded(kind, false)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		reportCorrupt(path, kind, err, logger)
		return false
	}
	return true
}

func reportCorrupt(path, kind string, err error, logger *zap.Logger) {
	logger.Warn("artifact corrupt", zap.String("artifact", kind), zap.String("path", path), zap.Error(err))
	observability.RecordArtifactLoadFailure(kind)
	observability.SetArtifactLoaded(kind, false)
}
