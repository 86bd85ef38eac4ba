package services

import (
	"context"
	"fmt"

	"conference-review-api/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AssignmentService designates committee members to review submissions.
type AssignmentService struct {
	deps Dependencies
}

func NewAssignmentService(deps Dependencies) *AssignmentService {
	return &AssignmentService{deps: deps.withDefaults()}
}

// Assign records evaluatorID as a reviewer of the submission and advances a pending
// submission to under_review.
func (s *AssignmentService) Assign(ctx context.Context, submissionID, evaluatorID, actorID uint) (*models.ReviewAssignment, error) {
	if evaluatorID == 0 {
		errs := ValidationErrors{}
		errs.Add("evaluator_id", "evaluator_id is required")
		return nil, errs.Err()
	}

	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, submission.EventID)
	if err != nil {
		return nil, err
	}
	if !roles.canManage() {
		return nil, unauthorized("only the event organizer can assign evaluators")
	}

	var evaluator models.User
	if err := s.deps.DB.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", evaluatorID).
		First(&evaluator).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("evaluator")
		}
		return nil, fmt.Errorf("load evaluator %d: %w", evaluatorID, err)
	}

	eligible, err := s.deps.Access.IsCommitteeMemberOf(ctx, evaluatorID, submission.EventID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, newError(KindNotEligible, "", "this user is not a member of the event's scientific committee")
	}

	now := s.deps.Now()
	assignment := models.ReviewAssignment{
		SubmissionID: submissionID,
		ReviewerID:   evaluatorID,
		AssignedBy:   actorID,
		Status:       models.AssignmentStatusPending,
		CreatedAt:    now,
	}

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		evaluated, err := evaluationExists(tx, submissionID, evaluatorID)
		if err != nil {
			return err
		}
		if evaluated {
			return newError(KindConflict, ErrAlreadyAssigned.Code, "this evaluator has already evaluated the submission")
		}

		var existing int64
		if err := tx.Model(&models.ReviewAssignment{}).
			Where("submission_id = ? AND reviewer_id = ?", submissionID, evaluatorID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing assignment: %w", err)
		}
		if existing > 0 {
			return newError(KindConflict, ErrAlreadyAssigned.Code, "this evaluator is already assigned to the submission")
		}

		if err := tx.Omit("Submission", "Reviewer").Create(&assignment).Error; err != nil {
			if isDuplicateKey(err) {
				return newError(KindConflict, ErrAlreadyAssigned.Code, "this evaluator is already assigned to the submission")
			}
			return fmt.Errorf("create assignment: %w", err)
		}

		_, err = advanceToUnderReview(tx, submissionID, actorID, "evaluator_assigned", now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.deps.Notifier.Notify(ctx, evaluatorID,
		NotificationEvaluationAssigned,
		fmt.Sprintf("A new submission has been assigned to you for evaluation: %s", submission.Title),
		map[string]interface{}{"submission_id": submissionID, "assignment_id": assignment.AssignmentID},
	)

	logrus.WithFields(logrus.Fields{
		"submission_id": submissionID,
		"evaluator_id":  evaluatorID,
		"assigned_by":   actorID,
	}).Info("evaluator assigned")

	assignment.Reviewer = &evaluator
	return &assignment, nil
}

// ListForEvent returns every assignment on the event's submissions.
func (s *AssignmentService) ListForEvent(ctx context.Context, eventID, actorID uint) ([]models.ReviewAssignment, error) {
	if _, err := s.deps.Events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, eventID)
	if err != nil {
		return nil, err
	}
	if !roles.canReview() {
		return nil, unauthorized("you are not allowed to list this event's assignments")
	}

	var assignments []models.ReviewAssignment
	if err := s.deps.DB.WithContext(ctx).
		Preload("Submission").
		Preload("Reviewer").
		Joins("JOIN submissions ON submissions.submission_id = review_assignments.submission_id").
		Where("submissions.event_id = ?", eventID).
		Order("review_assignments.created_at DESC, review_assignments.assignment_id DESC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListMine returns the actor's own review assignments, newest first.
func (s *AssignmentService) ListMine(ctx context.Context, actorID uint) ([]models.ReviewAssignment, error) {
	var assignments []models.ReviewAssignment
	if err := s.deps.DB.WithContext(ctx).
		Preload("Submission").
		Preload("Submission.Event").
		Where("reviewer_id = ?", actorID).
		Order("created_at DESC, assignment_id DESC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("list my assignments: %w", err)
	}
	return assignments, nil
}

// Remove withdraws a pending assignment. Completed assignments are kept with their evaluation.
func (s *AssignmentService) Remove(ctx context.Context, assignmentID, actorID uint) error {
	var assignment models.ReviewAssignment
	if err := s.deps.DB.WithContext(ctx).First(&assignment, "assignment_id = ?", assignmentID).Error; err != nil {
		if isRecordNotFound(err) {
			return notFound("assignment")
		}
		return fmt.Errorf("load assignment %d: %w", assignmentID, err)
	}

	submission, err := loadSubmission(ctx, s.deps.DB, assignment.SubmissionID)
	if err != nil {
		return err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, submission.EventID)
	if err != nil {
		return err
	}
	if !roles.canManage() {
		return unauthorized("only the event organizer can remove an assignment")
	}

	res := s.deps.DB.WithContext(ctx).
		Where("assignment_id = ? AND status = ?", assignmentID, models.AssignmentStatusPending).
		Delete(&models.ReviewAssignment{})
	if res.Error != nil {
		return fmt.Errorf("delete assignment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(KindConflict, ErrAssignmentDone.Code, "this assignment has already been completed")
	}

	logrus.WithFields(logrus.Fields{
		"assignment_id": assignmentID,
		"submission_id": assignment.SubmissionID,
		"reviewer_id":   assignment.ReviewerID,
		"removed_by":    actorID,
	}).Info("assignment removed")
	return nil
}
