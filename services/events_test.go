package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"conference-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDirectorySubmissionWindow(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	events := NewDBEventDirectory(f.db).WithClock(func() time.Time { return f.now })

	open, err := events.IsSubmissionOpen(ctx, f.event.EventID)
	require.NoError(t, err)
	assert.True(t, open)

	noDeadline := models.Event{Title: "Open call", CreatedBy: f.organizer.UserID}
	require.NoError(t, f.db.Create(&noDeadline).Error)
	open, err = events.IsSubmissionOpen(ctx, noDeadline.EventID)
	require.NoError(t, err)
	assert.True(t, open)

	past := f.now.Add(-time.Minute)
	closed := models.Event{Title: "Closed call", CreatedBy: f.organizer.UserID, SubmissionDeadline: &past}
	require.NoError(t, f.db.Create(&closed).Error)
	open, err = events.IsSubmissionOpen(ctx, closed.EventID)
	require.NoError(t, err)
	assert.False(t, open)

	_, err = events.FindByID(ctx, 9999)
	assert.True(t, errors.Is(err, ErrNotFound))
}
