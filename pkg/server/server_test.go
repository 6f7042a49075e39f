package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/monitoring"
)

func TestSetupRouterHealth(t *testing.T) {
	logger := logrus.New()
	router := SetupRouter(logger, "support-agent")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["service"] != "support-agent" {
		t.Fatalf("unexpected service name %q", body["service"])
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected status %q", body["status"])
	}
}

func TestSetupRouterMetrics(t *testing.T) {
	logger := logrus.New()
	router := SetupRouter(logger, "support-agent")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected metrics output")
	}
}

func TestSetupServiceRouterHealth(t *testing.T) {
	logger := logrus.New()
	health := monitoring.NewHealthChecker("support-agent", "test")
	health.AddCheck("ok", func() monitoring.CheckResult {
		return monitoring.CheckResult{Status: monitoring.StatusHealthy}
	})
	metrics := monitoring.NewMetricsCollector("support-agent-test", "test", "none")
	router := SetupServiceRouter(logger, "support-agent", health, metrics)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body monitoring.HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body.Status != monitoring.StatusHealthy {
		t.Fatalf("unexpected status %q", body.Status)
	}
	if _, ok := body.Checks["ok"]; !ok {
		t.Fatal("expected check result in payload")
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("PORT", "")
	cfg := DefaultConfig("support-agent", "18090")
	if cfg.Port != "18090" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	t.Setenv("PORT", "9999")
	cfg = DefaultConfig("support-agent", "18090")
	if cfg.Port != "9999" {
		t.Fatalf("expected env port, got %q", cfg.Port)
	}
}
