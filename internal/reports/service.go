package reports

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
)

const (
	baseHealthScore = 80

	moistureMin = 30.0
	moistureMax = 70.0
	tempMin     = 15.0
	tempMax     = 30.0
	phMin       = 5.5
	phMax       = 7.5
	co2Ceiling  = 800.0
)

// Report is the aggregated soil-health summary for a user's readings.
type Report struct {
	TotalReadings    int                    `json:"totalReadings"`
	DateRange        string                 `json:"dateRange"`
	AvgMoisture      float64                `json:"avgMoisture"`
	AvgTemperature   float64                `json:"avgTemperature"`
	AvgPh            float64                `json:"avgPh"`
	AvgCo2           float64                `json:"avgCo2"`
	AvgNitrate       float64                `json:"avgNitrate"`
	HealthScore      int                    `json:"healthScore"`
	HealthAssessment string                 `json:"healthAssessment"`
	Readings         []models.SensorReading `json:"readings"`
}

// Download is a rendered report file ready to stream to the client.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Service defines report aggregation operations.
type Service interface {
	Build(ctx context.Context, userID uint, fieldID *uint) (*Report, error)
	Render(ctx context.Context, userID uint, fieldID *uint) (*Download, error)
}

// ServiceParams wires the reports service dependencies.
type ServiceParams struct {
	Repo Repository
}

type service struct {
	repo Repository
}

// NewService wires report dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reports repository required")
	}
	return &service{repo: params.Repo}, nil
}

// Build aggregates the user's readings into averages and a health score.
// The score starts at 80 and loses 10 points per out-of-band average
// (moisture, temperature, ph) and 5 for elevated CO2, clamped to [0, 100].
func (s *service) Build(ctx context.Context, userID uint, fieldID *uint) (*Report, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "User ID is required")
	}
	readings, err := s.repo.ListForUser(ctx, userID, fieldID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list readings")
	}

	if len(readings) == 0 {
		return &Report{
			DateRange:        "No data",
			HealthAssessment: "No data available yet",
			Readings:         []models.SensorReading{},
		}, nil
	}

	var sumMoisture, sumTemperature, sumPh, sumCo2, sumNitrate float64
	for _, reading := range readings {
		sumMoisture += reading.SoilMoisture
		sumTemperature += reading.Temperature
		sumPh += reading.Ph
		sumCo2 += reading.Co2
		sumNitrate += reading.Nitrate
	}
	n := float64(len(readings))
	avgMoisture := sumMoisture / n
	avgTemperature := sumTemperature / n
	avgPh := sumPh / n
	avgCo2 := sumCo2 / n
	avgNitrate := sumNitrate / n

	score := float64(baseHealthScore)
	if avgMoisture < moistureMin || avgMoisture > moistureMax {
		score -= 10
	}
	if avgTemperature < tempMin || avgTemperature > tempMax {
		score -= 10
	}
	if avgPh < phMin || avgPh > phMax {
		score -= 10
	}
	if avgCo2 > co2Ceiling {
		score -= 5
	}
	score = math.Max(0, math.Min(100, score))

	first := readings[0].Timestamp
	last := readings[len(readings)-1].Timestamp

	return &Report{
		TotalReadings:    len(readings),
		DateRange:        fmt.Sprintf("%s - %s", formatDate(first), formatDate(last)),
		AvgMoisture:      round2(avgMoisture),
		AvgTemperature:   round2(avgTemperature),
		AvgPh:            round2(avgPh),
		AvgCo2:           round2(avgCo2),
		AvgNitrate:       round2(avgNitrate),
		HealthScore:      int(math.Round(score)),
		HealthAssessment: "Auto-generated soil health summary",
		Readings:         readings,
	}, nil
}

// Render produces the downloadable HTML summary. PDF rendering stays with
// the dashboard.
func (s *service) Render(ctx context.Context, userID uint, fieldID *uint) (*Download, error) {
	report, err := s.Build(ctx, userID, fieldID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	body := fmt.Sprintf(`<html>
  <head><title>Soil Health Report</title></head>
  <body>
    <h1>Soil Health Report</h1>
    <p>Total Readings: %d</p>
    <p>Date Range: %s</p>
    <p>Health Score: %d</p>
    <p>Generated: %s</p>
  </body>
</html>
`, report.TotalReadings, report.DateRange, report.HealthScore, now.Format("1/2/2006, 3:04:05 PM"))

	return &Download{
		Filename:    fmt.Sprintf("soil-health-report-%s.html", now.Format("2006-01-02")),
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(body),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatDate(t time.Time) string {
	return t.Format("1/2/2006")
}
