//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/weather-predict-service/internal/artifact"
	"github.com/kjstillabower/weather-predict-service/internal/cache"
	"github.com/kjstillabower/weather-predict-service/internal/inference"
	"github.com/kjstillabower/weather-predict-service/internal/observability"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	ModelPath     string
	ScalerPath    string
	CacheBackend  string // "in_memory" or "memcached"
	MemcachedAddr string
}

// GetIntegrationConfig loads integration test configuration from environment.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = "../../pks/model.json"
	}
	scalerPath := os.Getenv("SCALER_PATH")
	if scalerPath == "" {
		scalerPath = "../../pks/scaler.json"
	}

	cacheBackend := os.Getenv("INTEGRATION_CACHE_BACKEND")
	memcachedAddr := os.Getenv("MEMCACHED_ADDRS")
	if memcachedAddr == "" {
		memcachedAddr = "localhost:11211"
	}

	return IntegrationTestConfig{
		ModelPath:     modelPath,
		ScalerPath:    scalerPath,
		CacheBackend:  cacheBackend,
		MemcachedAddr: memcachedAddr,
	}
}

// SetupIntegrationService creates a fully configured prediction service for
// integration tests. Returns the service, cache instance, and cleanup function.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) (*inference.PredictionService, cache.Cache, func()) {
	logger, err := observability.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	scaler := artifact.LoadScaler(cfg.ScalerPath, logger)
	model := artifact.LoadClassifier(cfg.ModelPath, logger)
	if scaler == nil || model == nil {
		t.Skipf("artifacts not available (scaler=%s model=%s), skipping integration test", cfg.ScalerPath, cfg.ModelPath)
	}

	var cacheSvc cache.Cache
	var cleanup func()

	if cfg.CacheBackend == "memcached" {
		memcachedCache, err := cache.NewMemcachedCache(cfg.MemcachedAddr, 500*time.Millisecond, 2, 5*time.Minute)
		if err == nil && memcachedCache.Ping() == nil {
			cacheSvc = memcachedCache
			cleanup = func() { memcachedCache.Close() }
			t.Logf("Using Memcached cache at %s", cfg.MemcachedAddr)
		} else {
			t.Logf("Memcached not available, using in-memory cache")
			cacheSvc = cache.NewInMemoryCache(1024, 5*time.Minute)
			cleanup = func() {}
		}
	} else {
		cacheSvc = cache.NewInMemoryCache(1024, 5*time.Minute)
		cleanup = func() {}
	}

	return inference.NewPredictionService(scaler, model, cacheSvc), cacheSvc, cleanup
}
