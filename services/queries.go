package services

import (
	"context"
	"fmt"

	"conference-review-api/models"

	"gorm.io/gorm"
)

// loadSubmission fetches the bare submission row.
func loadSubmission(ctx context.Context, db *gorm.DB, submissionID uint) (*models.Submission, error) {
	var submission models.Submission
	if err := db.WithContext(ctx).First(&submission, "submission_id = ?", submissionID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("submission")
		}
		return nil, fmt.Errorf("load submission %d: %w", submissionID, err)
	}
	return &submission, nil
}

// loadSubmissionWithEvaluations fetches the submission with its event, author, co-authors
// and every evaluation with its evaluator.
func loadSubmissionWithEvaluations(ctx context.Context, db *gorm.DB, submissionID uint) (*models.Submission, error) {
	var submission models.Submission
	err := db.WithContext(ctx).
		Preload("Event").
		Preload("Author").
		Preload("CoAuthors", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("author_order ASC")
		}).
		Preload("Evaluations", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, evaluation_id ASC")
		}).
		Preload("Evaluations.Evaluator").
		First(&submission, "submission_id = ?", submissionID).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("submission")
		}
		return nil, fmt.Errorf("load submission %d: %w", submissionID, err)
	}
	submission.EvaluationsCount = int64(len(submission.Evaluations))
	return &submission, nil
}

// loadEvaluations fetches a submission's evaluations with their evaluators, oldest first.
func loadEvaluations(ctx context.Context, db *gorm.DB, submissionID uint) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	if err := db.WithContext(ctx).
		Preload("Evaluator").
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, evaluation_id ASC").
		Find(&evaluations).Error; err != nil {
		return nil, fmt.Errorf("load evaluations of submission %d: %w", submissionID, err)
	}
	return evaluations, nil
}

func evaluationExists(db *gorm.DB, submissionID, evaluatorID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Evaluation{}).
		Where("submission_id = ? AND evaluator_id = ?", submissionID, evaluatorID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check existing evaluation: %w", err)
	}
	return count > 0, nil
}

// attachEvaluationCounts fills EvaluationsCount on each submission with one grouped query.
func attachEvaluationCounts(ctx context.Context, db *gorm.DB, submissions []models.Submission) error {
	if len(submissions) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(submissions))
	for _, s := range submissions {
		ids = append(ids, s.SubmissionID)
	}

	var rows []struct {
		SubmissionID uint
		Total        int64
	}
	if err := db.WithContext(ctx).Model(&models.Evaluation{}).
		Select("submission_id, COUNT(*) AS total").
		Where("submission_id IN ?", ids).
		Group("submission_id").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("count evaluations: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.SubmissionID] = r.Total
	}
	for i := range submissions {
		submissions[i].EvaluationsCount = counts[submissions[i].SubmissionID]
	}
	return nil
}
