package models

import "time"

// Event represents the events table. Only the columns the review workflow reads are mapped.
type Event struct {
	EventID            uint       `gorm:"primaryKey;column:event_id" json:"event_id"`
	Title              string     `gorm:"column:title;size:255" json:"title"`
	Location           *string    `gorm:"column:location;size:255" json:"location,omitempty"`
	StartDate          *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate            *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	SubmissionDeadline *time.Time `gorm:"column:submission_deadline" json:"submission_deadline,omitempty"`
	CreatedBy          uint       `gorm:"column:created_by;index" json:"created_by"`
	Status             string     `gorm:"column:status;size:30;default:published" json:"status"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`

	Organizer *User `gorm:"foreignKey:CreatedBy;references:UserID" json:"organizer,omitempty"`
}

// TableName overrides the table name for Event
func (Event) TableName() string {
	return "events"
}

// SubmissionOpenAt reports whether submissions are still accepted at the given instant.
// Events without a deadline accept submissions.
func (e Event) SubmissionOpenAt(now time.Time) bool {
	if e.SubmissionDeadline == nil {
		return true
	}
	return !now.After(*e.SubmissionDeadline)
}

// Committee represents the committees table (scientific committee membership per event).
type Committee struct {
	CommitteeID     uint      `gorm:"primaryKey;column:committee_id" json:"committee_id"`
	EventID         uint      `gorm:"column:event_id;uniqueIndex:idx_committee_event_user" json:"event_id"`
	UserID          uint      `gorm:"column:user_id;uniqueIndex:idx_committee_event_user" json:"user_id"`
	RoleInCommittee string    `gorm:"column:role_in_committee;size:100" json:"role_in_committee"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`

	User  *User  `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Event *Event `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
}

// TableName overrides the table name for Committee
func (Committee) TableName() string {
	return "committees"
}
