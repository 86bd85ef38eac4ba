package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	NotificationID uint              `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID         uint              `gorm:"column:user_id;index" json:"user_id"`
	Type           string            `gorm:"column:type;size:60" json:"type"` // new_evaluation|evaluation_assigned|submission_<status>
	Title          string            `gorm:"column:title;size:255" json:"title"`
	Message        string            `gorm:"column:message;type:text" json:"message"`
	Data           datatypes.JSONMap `gorm:"column:data" json:"data,omitempty"`
	IsRead         bool              `gorm:"column:is_read;default:false" json:"is_read"`
	ReadAt         *time.Time        `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
