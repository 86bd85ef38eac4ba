package services

import (
	"context"
	"fmt"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
)

// EventDirectory looks up the events submissions are entered into.
type EventDirectory interface {
	FindByID(ctx context.Context, eventID uint) (*models.Event, error)
	IsSubmissionOpen(ctx context.Context, eventID uint) (bool, error)
}

// DBEventDirectory reads events from the events table.
type DBEventDirectory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBEventDirectory(db *gorm.DB) *DBEventDirectory {
	if db == nil {
		db = config.DB
	}
	return &DBEventDirectory{db: db, now: time.Now}
}

// WithClock replaces the clock used for deadline checks.
func (d *DBEventDirectory) WithClock(now func() time.Time) *DBEventDirectory {
	d.now = now
	return d
}

// FindByID returns ErrNotFound when the event does not exist.
func (d *DBEventDirectory) FindByID(ctx context.Context, eventID uint) (*models.Event, error) {
	var event models.Event
	if err := d.db.WithContext(ctx).First(&event, "event_id = ?", eventID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("event")
		}
		return nil, fmt.Errorf("load event %d: %w", eventID, err)
	}
	return &event, nil
}

func (d *DBEventDirectory) IsSubmissionOpen(ctx context.Context, eventID uint) (bool, error) {
	event, err := d.FindByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	return event.SubmissionOpenAt(d.now()), nil
}
