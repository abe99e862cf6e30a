package models

import "time"

// Contact is an audit row for a contact-form submission. UserID is set when
// the sender was logged in.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	UserID    *uint     `gorm:"column:user_id;index" json:"userId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
