package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"conference-review-api/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionService owns submission records and their lifecycle status.
type SubmissionService struct {
	deps Dependencies
}

func NewSubmissionService(deps Dependencies) *SubmissionService {
	return &SubmissionService{deps: deps.withDefaults()}
}

// SubmissionDetail is a submission with its aggregate, present once it has evaluations.
type SubmissionDetail struct {
	*models.Submission
	AverageScore           *float64 `json:"average_score,omitempty"`
	MajorityRecommendation *string  `json:"majority_recommendation,omitempty"`
}

// SubmissionFilter narrows ListForEvent.
type SubmissionFilter struct {
	Status string
	Type   string
}

// Create enters a new pending submission for authorID.
func (s *SubmissionService) Create(ctx context.Context, authorID uint, in SubmissionInput) (*models.Submission, error) {
	in.normalize()
	if err := validateSubmissionInput(in, s.deps.MaxKeywords); err != nil {
		return nil, err
	}

	event, err := s.deps.Events.FindByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	open, err := s.deps.Events.IsSubmissionOpen(ctx, event.EventID)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, newError(KindWindowClosed, "", "the submission deadline has passed")
	}

	now := s.deps.Now()
	submission := models.Submission{
		EventID:   event.EventID,
		UserID:    authorID,
		Title:     in.Title,
		Abstract:  in.Abstract,
		Keywords:  datatypes.NewJSONSlice(in.Keywords),
		Type:      in.Type,
		Status:    models.SubmissionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Event", "Author", "CoAuthors", "Evaluations").Create(&submission).Error; err != nil {
			return fmt.Errorf("create submission: %w", err)
		}
		for i, ca := range in.CoAuthors {
			coAuthor := models.SubmissionAuthor{
				SubmissionID: submission.SubmissionID,
				Name:         ca.Name,
				Email:        ca.Email,
				Institution:  ca.Institution,
				Order:        i + 1,
				CreatedAt:    now,
			}
			if err := tx.Create(&coAuthor).Error; err != nil {
				return fmt.Errorf("create co-author: %w", err)
			}
			submission.CoAuthors = append(submission.CoAuthors, coAuthor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	submission.Event = event
	logrus.WithFields(logrus.Fields{
		"submission_id": submission.SubmissionID,
		"event_id":      submission.EventID,
		"author_id":     authorID,
	}).Info("submission created")
	return &submission, nil
}

// Get returns the submission to its author, the event's organizer or committee, or a super-admin.
func (s *SubmissionService) Get(ctx context.Context, submissionID, actorID uint) (*SubmissionDetail, error) {
	submission, err := loadSubmissionWithEvaluations(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}

	if submission.UserID != actorID {
		roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, submission.EventID)
		if err != nil {
			return nil, err
		}
		if !roles.canReview() {
			return nil, unauthorized("you are not allowed to view this submission")
		}
	}

	detail := &SubmissionDetail{Submission: submission}
	if len(submission.Evaluations) > 0 {
		detail.AverageScore = AverageScore(submission.Evaluations)
		detail.MajorityRecommendation = MajorityRecommendation(submission.Evaluations)
	}
	return detail, nil
}

// UpdateContent applies a partial update while the submission is pending and the window is open.
func (s *SubmissionService) UpdateContent(ctx context.Context, submissionID, actorID uint, upd SubmissionUpdate) (*models.Submission, error) {
	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.UserID != actorID {
		return nil, unauthorized("only the author can modify this submission")
	}

	open, err := s.deps.Events.IsSubmissionOpen(ctx, submission.EventID)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, newError(KindWindowClosed, "", "the submission deadline has passed")
	}
	if submission.Status != models.SubmissionStatusPending {
		return nil, newError(KindConflict, ErrSubmissionLocked.Code, "a submission under evaluation can no longer be modified")
	}

	upd.normalize()
	if err := validateSubmissionUpdate(upd, s.deps.MaxKeywords); err != nil {
		return nil, err
	}
	if upd.empty() {
		return submission, nil
	}

	updates := map[string]interface{}{"updated_at": s.deps.Now()}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Abstract != nil {
		updates["abstract"] = *upd.Abstract
	}
	if upd.Keywords != nil {
		updates["keywords"] = datatypes.NewJSONSlice(*upd.Keywords)
	}
	if upd.Type != nil {
		updates["type"] = *upd.Type
	}

	res := s.deps.DB.WithContext(ctx).Model(&models.Submission{}).
		Where("submission_id = ? AND status = ?", submissionID, models.SubmissionStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update submission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// an evaluation started between the check and the write
		return nil, newError(KindConflict, ErrSubmissionLocked.Code, "a submission under evaluation can no longer be modified")
	}

	return loadSubmission(ctx, s.deps.DB, submissionID)
}

// UpdateStatus sets any status from any status. Organizers of the event and super-admins only.
// The admin comments are replaced on every change and cleared when none are given.
func (s *SubmissionService) UpdateStatus(ctx context.Context, submissionID, actorID uint, status string, adminComments *string) (*models.Submission, error) {
	status = strings.TrimSpace(status)
	if err := validateStatusChange(statusChange{Status: status}); err != nil {
		return nil, err
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
		return nil, unauthorized("only the event organizer can change the submission status")
	}

	now := s.deps.Now()
	comments := optionalText(adminComments)
	oldStatus := submission.Status

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submissionID).
			Updates(map[string]interface{}{
				"status":         status,
				"admin_comments": comments,
				"updated_at":     now,
			}).Error; err != nil {
			return fmt.Errorf("update submission status: %w", err)
		}
		return recordStatusChange(tx, submissionID, oldStatus, status, actorID, comments, "organizer_update", now)
	})
	if err != nil {
		return nil, err
	}

	submission.Status = status
	submission.UpdatedAt = now
	submission.AdminComments = comments

	s.deps.Notifier.Notify(ctx, submission.UserID,
		StatusNotificationType(status),
		fmt.Sprintf("The status of your submission '%s' has been updated: %s", submission.Title, status),
		map[string]interface{}{"submission_id": submission.SubmissionID, "status": status},
	)

	logrus.WithFields(logrus.Fields{
		"submission_id": submissionID,
		"old_status":    oldStatus,
		"new_status":    status,
		"changed_by":    actorID,
	}).Info("submission status updated")
	return submission, nil
}

// Delete removes the submission, everything attached to it and its stored file.
// Only the author may delete; evaluation state is not checked.
func (s *SubmissionService) Delete(ctx context.Context, submissionID, actorID uint) error {
	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return err
	}
	if submission.UserID != actorID {
		return unauthorized("only the author can delete this submission")
	}

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.Evaluation{},
			&models.ReviewAssignment{},
			&models.SubmissionAuthor{},
			&models.SubmissionStatusHistory{},
		} {
			if err := tx.Where("submission_id = ?", submissionID).Delete(child).Error; err != nil {
				return fmt.Errorf("delete submission children: %w", err)
			}
		}
		if err := tx.Delete(&models.Submission{}, "submission_id = ?", submissionID).Error; err != nil {
			return fmt.Errorf("delete submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if submission.FilePath != nil {
		if err := s.deps.Files.Delete(*submission.FilePath); err != nil {
			logrus.WithError(err).WithField("submission_id", submissionID).Warn("failed to remove submission file")
		}
	}
	return nil
}

// ListMine pages through the actor's own submissions, newest first.
func (s *SubmissionService) ListMine(ctx context.Context, actorID uint, page Page) (Paginated[models.Submission], error) {
	page = page.normalized(10)
	query := s.deps.DB.WithContext(ctx).Model(&models.Submission{}).Where("user_id = ?", actorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Paginated[models.Submission]{}, fmt.Errorf("count submissions: %w", err)
	}

	var submissions []models.Submission
	if err := query.
		Preload("Event").
		Preload("CoAuthors", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("author_order ASC")
		}).
		Order("created_at DESC, submission_id DESC").
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&submissions).Error; err != nil {
		return Paginated[models.Submission]{}, fmt.Errorf("list submissions: %w", err)
	}
	if err := attachEvaluationCounts(ctx, s.deps.DB, submissions); err != nil {
		return Paginated[models.Submission]{}, err
	}
	return newPaginated(submissions, total, page), nil
}

// ListForEvent pages through an event's submissions for its organizer, committee or a super-admin.
func (s *SubmissionService) ListForEvent(ctx context.Context, eventID, actorID uint, filter SubmissionFilter, page Page) (Paginated[models.Submission], error) {
	if _, err := s.deps.Events.FindByID(ctx, eventID); err != nil {
		return Paginated[models.Submission]{}, err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, eventID)
	if err != nil {
		return Paginated[models.Submission]{}, err
	}
	if !roles.canReview() {
		return Paginated[models.Submission]{}, unauthorized("you are not allowed to list this event's submissions")
	}

	page = page.normalized(15)
	query := s.deps.DB.WithContext(ctx).Model(&models.Submission{}).Where("event_id = ?", eventID)
	if st := strings.TrimSpace(filter.Status); st != "" {
		query = query.Where("status = ?", st)
	}
	if t := strings.TrimSpace(filter.Type); t != "" {
		query = query.Where("type = ?", t)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Paginated[models.Submission]{}, fmt.Errorf("count submissions: %w", err)
	}

	var submissions []models.Submission
	if err := query.
		Preload("Author").
		Preload("CoAuthors", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("author_order ASC")
		}).
		Order("created_at DESC, submission_id DESC").
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&submissions).Error; err != nil {
		return Paginated[models.Submission]{}, fmt.Errorf("list submissions: %w", err)
	}
	if err := attachEvaluationCounts(ctx, s.deps.DB, submissions); err != nil {
		return Paginated[models.Submission]{}, err
	}
	return newPaginated(submissions, total, page), nil
}

// AttachFile stores a PDF for the submission, replacing any previous file.
func (s *SubmissionService) AttachFile(ctx context.Context, submissionID, actorID uint, filename string, size int64, r io.Reader) (*models.Submission, error) {
	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.UserID != actorID {
		return nil, unauthorized("only the author can upload a file for this submission")
	}

	errs := ValidationErrors{}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		errs.Add("file", "the file must be a PDF")
	}
	if size <= 0 || size > s.deps.MaxUploadSize {
		errs.Add("file", fmt.Sprintf("the file must be between 1 byte and %d MB", s.deps.MaxUploadSize>>20))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !mimetype.Detect(head).Is("application/pdf") {
		errs.Add("file", "the file must be a PDF")
		return nil, errs.Err()
	}

	path, err := s.deps.Files.Save(ctx, ".pdf", io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return nil, err
	}

	if err := s.deps.DB.WithContext(ctx).Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]interface{}{
			"file_path":  path,
			"updated_at": s.deps.Now(),
		}).Error; err != nil {
		_ = s.deps.Files.Delete(path)
		return nil, fmt.Errorf("save submission file path: %w", err)
	}

	if submission.FilePath != nil {
		if err := s.deps.Files.Delete(*submission.FilePath); err != nil {
			logrus.WithError(err).WithField("submission_id", submissionID).Warn("failed to remove previous submission file")
		}
	}
	submission.FilePath = &path
	return submission, nil
}

// RemoveFile deletes the submission's stored file, if any.
func (s *SubmissionService) RemoveFile(ctx context.Context, submissionID, actorID uint) error {
	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return err
	}
	if submission.UserID != actorID {
		return unauthorized("only the author can remove this submission's file")
	}
	if submission.FilePath == nil {
		return nil
	}

	if err := s.deps.DB.WithContext(ctx).Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]interface{}{
			"file_path":  nil,
			"updated_at": s.deps.Now(),
		}).Error; err != nil {
		return fmt.Errorf("clear submission file path: %w", err)
	}
	if err := s.deps.Files.Delete(*submission.FilePath); err != nil {
		logrus.WithError(err).WithField("submission_id", submissionID).Warn("failed to remove submission file")
	}
	return nil
}

// StatusHistory lists every status change of the submission, oldest first.
func (s *SubmissionService) StatusHistory(ctx context.Context, submissionID, actorID uint) ([]models.SubmissionStatusHistory, error) {
	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, submission.EventID)
	if err != nil {
		return nil, err
	}
	if !roles.canManage() {
		return nil, unauthorized("only the event organizer can read the status history")
	}

	var history []models.SubmissionStatusHistory
	if err := s.deps.DB.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, history_id ASC").
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	return history, nil
}
