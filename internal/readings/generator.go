package readings

import (
	"math"
	"math/rand"
	"time"
)

type metricRange struct {
	min float64
	max float64
}

// Simulated sensor ranges. Integer metrics draw from the inclusive range,
// ph keeps one decimal place.
var sensorRanges = map[string]metricRange{
	"soilMoisture": {min: 20, max: 80},
	"temperature":  {min: 15, max: 35},
	"co2":          {min: 300, max: 1000},
	"nitrate":      {min: 5, max: 30},
	"ph":           {min: 5.5, max: 7.5},
}

// Sample is one generated set of sensor values.
type Sample struct {
	SoilMoisture float64
	Temperature  float64
	Co2          float64
	Nitrate      float64
	Ph           float64
}

// Generator produces random samples from a dedicated source so tests can
// seed it deterministically.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator backed by rng, or a time-seeded source
// when rng is nil.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Next draws one sample.
func (g *Generator) Next() Sample {
	return Sample{
		SoilMoisture: g.drawInt(sensorRanges["soilMoisture"]),
		Temperature:  g.drawInt(sensorRanges["temperature"]),
		Co2:          g.drawInt(sensorRanges["co2"]),
		Nitrate:      g.drawInt(sensorRanges["nitrate"]),
		Ph:           g.drawDecimal(sensorRanges["ph"]),
	}
}

// drawInt covers the inclusive [min, max] range: floor(rand*(max-min+1))+min.
func (g *Generator) drawInt(r metricRange) float64 {
	return math.Floor(g.rng.Float64()*(r.max-r.min+1)) + r.min
}

// drawDecimal draws from [min, max) rounded to one decimal place.
func (g *Generator) drawDecimal(r metricRange) float64 {
	return math.Round((g.rng.Float64()*(r.max-r.min)+r.min)*10) / 10
}
