package models

import "time"

// Review assignment states
const (
	AssignmentStatusPending   = "pending"
	AssignmentStatusCompleted = "completed"
)

// ReviewAssignment records that an organizer designated a committee member to review a submission.
type ReviewAssignment struct {
	AssignmentID uint       `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	SubmissionID uint       `gorm:"column:submission_id;uniqueIndex:idx_assignment_submission_reviewer" json:"submission_id"`
	ReviewerID   uint       `gorm:"column:reviewer_id;uniqueIndex:idx_assignment_submission_reviewer;index" json:"reviewer_id"`
	AssignedBy   uint       `gorm:"column:assigned_by" json:"assigned_by"`
	Status       string     `gorm:"column:status;size:20;default:pending" json:"status"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`

	Submission *Submission `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"submission,omitempty"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID;references:UserID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for ReviewAssignment.
func (ReviewAssignment) TableName() string {
	return "review_assignments"
}
