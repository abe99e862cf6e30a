package models

import "time"

// Farm groups fields under a user. Once Completed flips to true the farm
// accepts no further generated readings; there is no way back to active.
type Farm struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Location  string    `gorm:"type:text;not null;default:''" json:"location"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"userId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	Fields []Field `gorm:"foreignKey:FarmID" json:"fields,omitempty"`
}
