package readings

import (
	"time"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
)

// GenerateParams carries a generation request into the service. Both fields
// are optional: user defaults to the provisioned account, farm scopes the
// rotation to that farm's fields.
type GenerateParams struct {
	UserID *uint
	FarmID *uint
}

// GenerateResult reports the assigned field, the stored reading, and the farm
// the rotation ran in (nil when unscoped).
type GenerateResult struct {
	AssignedFieldID uint                  `json:"assignedFieldId"`
	Reading         *models.SensorReading `json:"reading"`
	FarmID          *uint                 `json:"farmId"`
}

// MetricReading is one dashboard gauge: a value with its display unit. Value
// is "--" when no reading exists yet.
type MetricReading struct {
	Value     any        `json:"value"`
	Unit      string     `json:"unit"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// LatestReadings groups the five gauges under their dashboard keys.
type LatestReadings struct {
	SoilMoisture MetricReading `json:"soilmoisture"`
	Temperature  MetricReading `json:"temperature"`
	Co2          MetricReading `json:"co2"`
	Nitrate      MetricReading `json:"nitrate"`
	Ph           MetricReading `json:"ph"`
}

// LatestResult carries the formatted gauges plus the raw row (nil when the
// filter matched nothing).
type LatestResult struct {
	Readings LatestReadings
	Raw      *models.SensorReading
}

// ListQuery filters and pages the reading timeline.
type ListQuery struct {
	FieldID *uint
	FarmID  *uint
	Limit   int
	Skip    int
}

// ListResult is one timeline page with the unpaged total.
type ListResult struct {
	Total    int64
	Readings []models.SensorReading
}

// PredictResult pairs the scored reading with the model output.
type PredictResult struct {
	Reading         *models.SensorReading `json:"reading"`
	Predictions     map[string]any        `json:"predictions"`
	Recommendations []string              `json:"recommendations"`
}
