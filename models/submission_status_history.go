package models

import "time"

// SubmissionStatusHistory tracks historical status changes for submissions.
type SubmissionStatusHistory struct {
	HistoryID    uint      `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID uint      `gorm:"column:submission_id;index" json:"submission_id"`
	OldStatus    *string   `gorm:"column:old_status;size:20" json:"old_status"`
	NewStatus    string    `gorm:"column:new_status;size:20" json:"new_status"`
	ChangedBy    uint      `gorm:"column:changed_by" json:"changed_by"`
	Reason       *string   `gorm:"column:reason;type:text" json:"reason"`
	Notes        *string   `gorm:"column:notes;size:255" json:"notes"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for SubmissionStatusHistory.
func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
