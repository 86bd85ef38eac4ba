package services

import (
	"fmt"
	"time"

	"conference-review-api/models"

	"gorm.io/gorm"
)

func recordStatusChange(tx *gorm.DB, submissionID uint, oldStatus, newStatus string, changedBy uint, reason *string, note string, at time.Time) error {
	history := models.SubmissionStatusHistory{
		SubmissionID: submissionID,
		NewStatus:    newStatus,
		ChangedBy:    changedBy,
		Reason:       reason,
		CreatedAt:    at,
	}
	if oldStatus != "" {
		old := oldStatus
		history.OldStatus = &old
	}
	if note != "" {
		n := note
		history.Notes = &n
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("log status history: %w", err)
	}
	return nil
}

// advanceToUnderReview moves a pending submission to under_review. The conditional update
// makes it a no-op for any other status, so concurrent callers advance it at most once.
func advanceToUnderReview(tx *gorm.DB, submissionID, actorID uint, note string, at time.Time) (bool, error) {
	res := tx.Model(&models.Submission{}).
		Where("submission_id = ? AND status = ?", submissionID, models.SubmissionStatusPending).
		Updates(map[string]interface{}{
			"status":     models.SubmissionStatusUnderReview,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("advance submission status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := recordStatusChange(tx, submissionID, models.SubmissionStatusPending, models.SubmissionStatusUnderReview, actorID, nil, note, at); err != nil {
		return false, err
	}
	return true, nil
}
