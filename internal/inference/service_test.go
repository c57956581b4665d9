package inference

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kjstillabower/weather-predict-service/internal/artifact"
	"github.com/kjstillabower/weather-predict-service/internal/models"
)

func intPtr(v int) *int { return &v }

func testScaler() *artifact.Scaler {
	return &artifact.Scaler{
		Mean:  []float64{0, 0, 0, 0, 0, 0},
		Scale: []float64{1, 1, 1, 1, 1, 1},
	}
}

func testClassifier() *artifact.Classifier {
	// Fires when Humidity3pm exceeds 50.
	return &artifact.Classifier{
		Classes:   []int{0, 1},
		Coef:      [][]float64{{0, 0, 1, 0, 0, 0}},
		Intercept: []float64{-50},
	}
}

func testVector() models.FeatureVector {
	return models.FeatureVector{
		RainTomorrow: intPtr(0),
		Rainfall:     intPtr(2),
		Humidity3pm:  intPtr(55),
		RainToday:    intPtr(0),
		Cloud3pm:     intPtr(3),
		Sunshine:     intPtr(7),
	}
}

type fakeCache struct {
	data    map[string][]int
	getErr  error
	setErr  error
	setKeys []string
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]int, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	labels, ok := f.data[key]
	return labels, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, labels []int) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.data == nil {
		f.data = make(map[string][]int)
	}
	f.data[key] = labels
	f.setKeys = append(f.setKeys, key)
	return nil
}

// TestPredict_Success verifies the scale-then-predict pipeline returns a
// single batch-shaped label.
func TestPredict_Success(t *testing.T) {
	svc := NewPredictionService(testScaler(), testClassifier(), nil)

	labels, err := svc.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("Predict() returned %d labels, want 1", len(labels))
	}
	if labels[0] != 1 {
		t.Errorf("Predict() = %d, want 1 (humidity 55 > 50)", labels[0])
	}
}

// TestPredict_AppliesScaler verifies the scaler actually runs before the
// classifier; raw and scaled inputs must be able to flip the decision.
func TestPredict_AppliesScaler(t *testing.T) {
	// Centering humidity at 55 drives the scaled value to 0, below the cut.
	scaler := &artifact.Scaler{
		Mean:  []float64{0, 0, 55, 0, 0, 0},
		Scale: []float64{1, 1, 1, 1, 1, 1},
	}
	svc := NewPredictionService(scaler, testClassifier(), nil)

	labels, err := svc.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if labels[0] != 0 {
		t.Errorf("Predict() = %d, want 0 after centering", labels[0])
	}
}

// TestPredict_ModelUnavailable verifies the explicit fail-fast guard when
// either artifact failed to load at startup.
func TestPredict_ModelUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		scaler  *artifact.Scaler
		model   *artifact.Classifier
	}{
		{"both nil", nil, nil},
		{"scaler nil", nil, testClassifier()},
		{"model nil", testScaler(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPredictionService(tt.scaler, tt.model, nil)
			_, err := svc.Predict(context.Background(), testVector())
			if !errors.Is(err, ErrModelUnavailable) {
				t.Errorf("Predict() error = %v, want ErrModelUnavailable", err)
			}
		})
	}
}

// TestPredict_CacheHit verifies a cached vector short-circuits inference.
func TestPredict_CacheHit(t *testing.T) {
	vec := testVector()
	c := &fakeCache{data: map[string][]int{vec.Key(): {7}}}
	svc := NewPredictionService(testScaler(), testClassifier(), c)

	labels, err := svc.Predict(context.Background(), vec)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if !reflect.DeepEqual(labels, []int{7}) {
		t.Errorf("Predict() = %v, want cached [7]", labels)
	}
}

// TestPredict_CachePopulated verifies a miss computes and stores the result.
func TestPredict_CachePopulated(t *testing.T) {
	vec := testVector()
	c := &fakeCache{}
	svc := NewPredictionService(testScaler(), testClassifier(), c)

	labels, err := svc.Predict(context.Background(), vec)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got, ok := c.data[vec.Key()]; !ok || !reflect.DeepEqual(got, labels) {
		t.Errorf("cache entry = %v (present=%t), want %v", got, ok, labels)
	}
}

// TestPredict_CacheErrorsAreNonFatal verifies cache backend failures degrade
// to computing the prediction instead of failing the request.
func TestPredict_CacheErrorsAreNonFatal(t *testing.T) {
	c := &fakeCache{getErr: errors.New("memcached down"), setErr: errors.New("memcached down")}
	svc := NewPredictionService(testScaler(), testClassifier(), c)

	labels, err := svc.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("Predict() error = %v, want nil despite cache errors", err)
	}
	if len(labels) != 1 {
		t.Errorf("Predict() returned %d labels, want 1", len(labels))
	}
}

// TestPredict_Deterministic verifies identical vectors produce identical
// output across calls, with and without the cache.
func TestPredict_Deterministic(t *testing.T) {
	svc := NewPredictionService(testScaler(), testClassifier(), nil)

	first, err := svc.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	second, err := svc.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Predict() not deterministic: %v then %v", first, second)
	}
}

// TestPredict_DimensionMismatch verifies a scaler fitted on a different
// width surfaces an error, not a panic.
func TestPredict_DimensionMismatch(t *testing.T) {
	scaler := &artifact.Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	svc := NewPredictionService(scaler, testClassifier(), nil)

	_, err := svc.Predict(context.Background(), testVector())
	if !errors.Is(err, artifact.ErrDimensionMismatch) {
		t.Errorf("Predict() error = %v, want ErrDimensionMismatch", err)
	}
}
