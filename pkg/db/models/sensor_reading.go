package models

import "time"

// SensorReading is one immutable sample of the five soil/air metrics.
// Rows are only ever created and deleted, never updated.
type SensorReading struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SoilMoisture float64   `gorm:"column:soil_moisture;not null" json:"soilMoisture"`
	Temperature  float64   `gorm:"not null" json:"temperature"`
	Co2          float64   `gorm:"column:co2;not null" json:"co2"`
	Nitrate      float64   `gorm:"not null" json:"nitrate"`
	Ph           float64   `gorm:"column:ph;not null" json:"ph"`
	FieldID      uint      `gorm:"column:field_id;not null;index" json:"fieldId"`
	UserID       uint      `gorm:"column:user_id;not null;index" json:"userId"`
	Timestamp    time.Time `gorm:"column:timestamp;autoCreateTime;index" json:"timestamp"`

	Field *Field `gorm:"foreignKey:FieldID" json:"field,omitempty"`
}
