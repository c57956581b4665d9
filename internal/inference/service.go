package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-predict-service/internal/artifact"
	"github.com/kjstillabower/weather-predict-service/internal/cache"
	"github.com/kjstillabower/weather-predict-service/internal/models"
	"github.com/kjstillabower/weather-predict-service/internal/observability"
)

// ErrModelUnavailable is returned when inference is attempted while either
// artifact failed to load at startup. The process accepts traffic anyway
// (availability over correctness); the failure is deferred to first use and
// made explicit here instead of panicking inside the math.
var ErrModelUnavailable = errors.New("model or scaler artifact not loaded")

// PredictionService owns the loaded artifacts for the process lifetime.
// Both are set once at construction and never mutated, so the service is safe
// for concurrent use without locking. Either may be nil when its artifact
// failed to load.
type PredictionService struct {
	scaler *artifact.Scaler
	model  *artifact.Classifier
	cache  cache.Cache // optional; nil disables caching
}

// NewPredictionService creates a PredictionService over the loaded artifacts.
// cache may be nil to disable prediction caching.
func NewPredictionService(scaler *artifact.Scaler, model *artifact.Classifier, c cache.Cache) *PredictionService {
	return &PredictionService{scaler: scaler, model: model, cache: c}
}

// ScalerLoaded reports whether the scaler artifact is usable.
func (s *PredictionService) ScalerLoaded() bool { return s.scaler != nil }

// ModelLoaded reports whether the classifier artifact is usable.
func (s *PredictionService) ModelLoaded() bool { return s.model != nil }

// Predict runs the scaler and classifier over one feature vector and returns
// the batch-shaped label list. The vector must already be schema-validated.
// Identical vectors always produce identical output; the cache relies on that.
func (s *PredictionService) Predict(ctx context.Context, vec models.FeatureVector) ([]int, error) {
	logger := loggerFromContext(ctx)

	if s.scaler == nil || s.model == nil {
		observability.PredictionsTotal.WithLabelValues("unavailable").Inc()
		return nil, ErrModelUnavailable
	}

	key := vec.Key()
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			observability.CacheErrorsTotal.WithLabelValues("get").Inc()
			if logger != nil {
				logger.Warn("prediction cache get failed", zap.Error(err))
			}
		} else if ok {
			observability.CacheHitsTotal.WithLabelValues("prediction").Inc()
			observability.PredictionsTotal.WithLabelValues("cache_hit").Inc()
			if logger != nil {
				logger.Debug("prediction cache hit", zap.String("key", key))
			}
			return cached, nil
		}
	}

	start := time.Now()
	scaled, err := s.scaler.Transform([][]float64{vec.Row()})
	if err != nil {
		observability.PredictionsTotal.WithLabelValues("inference_error").Inc()
		return nil, fmt.Errorf("scale features: %w", err)
	}
	labels, err := s.model.Predict(scaled)
	if err != nil {
		observability.PredictionsTotal.WithLabelValues("inference_error").Inc()
		return nil, fmt.Errorf("predict: %w", err)
	}
	observability.RecordPrediction(labels[0], time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, labels); err != nil {
			observability.CacheErrorsTotal.WithLabelValues("set").Inc()
			if logger != nil {
				logger.Warn("prediction cache set failed", zap.Error(err))
			}
		}
	}
	if logger != nil {
		logger.Debug("prediction served", zap.Ints("labels", labels), zap.Duration("duration", time.Since(start)))
	}
	return labels, nil
}

// loggerFromContext extracts a zap.Logger from request context if present.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value("logger"); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}
