package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission statuses
const (
	SubmissionStatusPending     = "pending"
	SubmissionStatusUnderReview = "under_review"
	SubmissionStatusAccepted    = "accepted"
	SubmissionStatusRejected    = "rejected"
	SubmissionStatusRevision    = "revision"
)

// Submission types
const (
	SubmissionTypeOral         = "oral"
	SubmissionTypePoster       = "poster"
	SubmissionTypeDisplayPanel = "display-panel"
)

// Submission represents the submissions table
type Submission struct {
	SubmissionID  uint                        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	EventID       uint                        `gorm:"column:event_id;index" json:"event_id"`
	UserID        uint                        `gorm:"column:user_id;index" json:"user_id"`
	Title         string                      `gorm:"column:title;size:255" json:"title"`
	Abstract      string                      `gorm:"column:abstract;type:text" json:"abstract"`
	Keywords      datatypes.JSONSlice[string] `gorm:"column:keywords" json:"keywords"`
	Type          string                      `gorm:"column:type;size:20" json:"type"`
	Status        string                      `gorm:"column:status;size:20;index;default:pending" json:"status"`
	FilePath      *string                     `gorm:"column:file_path;size:500" json:"file_path,omitempty"`
	AdminComments *string                     `gorm:"column:admin_comments;type:text" json:"admin_comments,omitempty"`
	CreatedAt     time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Event       *Event             `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
	Author      *User              `gorm:"foreignKey:UserID;references:UserID" json:"author,omitempty"`
	CoAuthors   []SubmissionAuthor `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"co_authors,omitempty"`
	Evaluations []Evaluation       `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"evaluations,omitempty"`

	// Computed on read, never stored
	EvaluationsCount int64 `gorm:"-" json:"evaluations_count"`
}

// TableName overrides the table name for Submission
func (Submission) TableName() string {
	return "submissions"
}

// SubmissionAuthor represents a co-author listed on a submission.
type SubmissionAuthor struct {
	SubmissionAuthorID uint      `gorm:"primaryKey;column:submission_author_id" json:"submission_author_id"`
	SubmissionID       uint      `gorm:"column:submission_id;index" json:"submission_id"`
	Name               string    `gorm:"column:name;size:255" json:"name"`
	Email              string    `gorm:"column:email;size:255" json:"email"`
	Institution        *string   `gorm:"column:institution;size:255" json:"institution,omitempty"`
	Order              int       `gorm:"column:author_order" json:"order"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name for SubmissionAuthor
func (SubmissionAuthor) TableName() string {
	return "submission_authors"
}
