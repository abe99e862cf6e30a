package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/soilminds/soilminds-backend/pkg/config"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

const (
	healthPath = "/api/ml/health"
	statusPath = "/api/ml/status"
)

var errLoggerRequired = errors.New("ml service logger is required")

// HealthInput is the metric payload the scoring service expects. Field names
// follow the service's wire contract, not Go conventions.
type HealthInput struct {
	CO2PPM      float64 `json:"CO2_ppm"`
	NitratePPM  float64 `json:"Nitrate_ppm"`
	PH          float64 `json:"pH"`
	TempC       float64 `json:"Temp_C"`
	MoisturePct float64 `json:"Moisture_pct"`
}

// HealthPrediction is the scoring response. Predictions stays loosely typed:
// the backend forwards it to the dashboard untouched.
type HealthPrediction struct {
	Predictions     map[string]any `json:"predictions"`
	Recommendations []string       `json:"recommendations"`
}

// Caller is the surface services depend on; the HTTP client implements it.
type Caller interface {
	PredictHealth(ctx context.Context, input HealthInput) (*HealthPrediction, error)
	Status(ctx context.Context) (map[string]any, error)
}

// Client is a thin HTTP wrapper around the external scoring service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the configuration and returns a ready client.
func NewClient(ctx context.Context, cfg config.MLConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ml service base url is required")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}

	logg.Info(logg.WithField(ctx, "ml_base_url", baseURL), "ml service client initialized")
	return c, nil
}

// PredictHealth submits one reading's metrics and returns score plus recommendations.
func (c *Client) PredictHealth(ctx context.Context, input HealthInput) (*HealthPrediction, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ml request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+healthPath, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build ml request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ml service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("ML service error: %s", resp.Status))
	}

	var prediction HealthPrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode ml response")
	}
	return &prediction, nil
}

// Status proxies the model-status endpoint verbatim.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build ml status request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ml service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("ML service error: %s", resp.Status))
	}

	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode ml status")
	}
	return status, nil
}
