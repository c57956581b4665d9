//go:build integration
// +build integration

package inference_test

import (
	"context"
	"testing"

	"github.com/kjstillabower/weather-predict-service/internal/models"
	"github.com/kjstillabower/weather-predict-service/internal/testhelpers"
)

func intPtr(v int) *int { return &v }

// TestPredictionService_Integration runs a prediction through the real
// artifacts and the configured cache backend.
func TestPredictionService_Integration(t *testing.T) {
	cfg := testhelpers.GetIntegrationConfig(t)
	svc, cacheSvc, cleanup := testhelpers.SetupIntegrationService(t, cfg)
	defer cleanup()

	vec := models.FeatureVector{
		RainTomorrow: intPtr(0),
		Rainfall:     intPtr(2),
		Humidity3pm:  intPtr(55),
		RainToday:    intPtr(0),
		Cloud3pm:     intPtr(3),
		Sunshine:     intPtr(7),
	}

	ctx := context.Background()
	labels, err := svc.Predict(ctx, vec)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("Predict() returned %d labels, want 1", len(labels))
	}
	if labels[0] != 0 && labels[0] != 1 {
		t.Errorf("Predict() label = %d, want 0 or 1", labels[0])
	}

	// Second call should be answered from cache with the same result.
	again, err := svc.Predict(ctx, vec)
	if err != nil {
		t.Fatalf("Predict() second call error = %v", err)
	}
	if again[0] != labels[0] {
		t.Errorf("cached label = %d, want %d", again[0], labels[0])
	}

	// The entry is visible in the cache under the feature key.
	if _, ok, _ := cacheSvc.Get(ctx, vec.Key()); !ok {
		t.Error("prediction not present in cache after Predict()")
	}
}
