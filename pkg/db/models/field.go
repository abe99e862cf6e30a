package models

import "time"

// Field is a sampling location. FarmID is nullable: fields created before
// farm grouping existed (signup default fields) have no farm.
type Field struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Location  *string   `gorm:"type:text" json:"location"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"userId"`
	FarmID    *uint     `gorm:"column:farm_id;index" json:"farmId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// FieldWithCount augments a field with its reading count for list views.
type FieldWithCount struct {
	Field
	ReadingCount int64 `json:"readingCount"`
}
