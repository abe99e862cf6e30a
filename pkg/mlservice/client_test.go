package mlservice_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soilminds/soilminds-backend/pkg/config"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
	"github.com/soilminds/soilminds-backend/pkg/mlservice"
)

func newTestClient(t *testing.T, baseURL string) *mlservice.Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := mlservice.NewClient(context.Background(), config.MLConfig{BaseURL: baseURL}, logg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestPredictHealthSendsWirePayload(t *testing.T) {
	var received map[string]float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ml/health" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"predictions":     map[string]any{"health_score": 72},
			"recommendations": []string{"reduce irrigation"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.PredictHealth(context.Background(), mlservice.HealthInput{
		CO2PPM:      600,
		NitratePPM:  15,
		PH:          6.8,
		TempC:       25,
		MoisturePct: 50,
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	for key, want := range map[string]float64{
		"CO2_ppm":      600,
		"Nitrate_ppm":  15,
		"pH":           6.8,
		"Temp_C":       25,
		"Moisture_pct": 50,
	} {
		if received[key] != want {
			t.Fatalf("wire field %s: expected %v, got %v", key, want, received[key])
		}
	}
	if result.Predictions["health_score"] != float64(72) {
		t.Fatalf("unexpected predictions: %+v", result.Predictions)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("unexpected recommendations: %+v", result.Recommendations)
	}
}

func TestPredictHealthUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.PredictHealth(context.Background(), mlservice.HealthInput{})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestPredictHealthUnreachable(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.PredictHealth(context.Background(), mlservice.HealthInput{})
	if err == nil {
		t.Fatal("expected error for unreachable service")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestStatusProxiesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ml/status" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "ready", "model": "v2"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status["status"] != "ready" || status["model"] != "v2" {
		t.Fatalf("unexpected status: %+v", status)
	}
}
