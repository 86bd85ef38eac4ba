package services

import (
	"context"
	"fmt"
	"strings"

	"conference-review-api/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EvaluationService records scored evaluations and derives aggregate judgments.
type EvaluationService struct {
	deps Dependencies
}

func NewEvaluationService(deps Dependencies) *EvaluationService {
	return &EvaluationService{deps: deps.withDefaults()}
}

// SubmissionEvaluations is a submission's evaluations with their derived aggregate.
type SubmissionEvaluations struct {
	Submission             *models.Submission  `json:"submission"`
	Evaluations            []models.Evaluation `json:"evaluations"`
	AverageScore           *float64            `json:"average_score"`
	MajorityRecommendation *string             `json:"majority_recommendation"`
}

// ReportSubmission identifies the submission a report covers.
type ReportSubmission struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Author string `json:"author"`
}

// ReportRecommendations are the per-recommendation counts and the majority.
type ReportRecommendations struct {
	RecommendationCounts
	Majority *string `json:"majority"`
}

// ReportEvaluation is one flattened evaluation row of a report.
type ReportEvaluation struct {
	Evaluator      string  `json:"evaluator"`
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation"`
	Comments       *string `json:"comments"`
	Date           string  `json:"date"`
}

// EvaluationReport is the read-only review summary organizers decide on.
type EvaluationReport struct {
	Submission      ReportSubmission      `json:"submission"`
	Statistics      EvaluationStatistics  `json:"statistics"`
	Recommendations ReportRecommendations `json:"recommendations"`
	Evaluations     []ReportEvaluation    `json:"evaluations"`
}

// Evaluate records evaluatorID's judgment of the submission. The evaluator must sit on the
// event's committee and may evaluate a submission only once.
func (s *EvaluationService) Evaluate(ctx context.Context, submissionID, evaluatorID uint, in EvaluationInput) (*models.Evaluation, error) {
	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}

	member, err := s.deps.Access.IsCommitteeMemberOf(ctx, evaluatorID, submission.EventID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, unauthorized("you are not a member of this event's scientific committee")
	}

	evaluated, err := evaluationExists(s.deps.DB.WithContext(ctx), submissionID, evaluatorID)
	if err != nil {
		return nil, err
	}
	if evaluated {
		return nil, alreadyEvaluated()
	}

	in.Recommendation = strings.ToLower(strings.TrimSpace(in.Recommendation))
	if err := validateEvaluationInput(in); err != nil {
		return nil, err
	}

	event, err := s.deps.Events.FindByID(ctx, submission.EventID)
	if err != nil {
		return nil, err
	}

	now := s.deps.Now()
	evaluation := models.Evaluation{
		SubmissionID:     submissionID,
		EvaluatorID:      evaluatorID,
		Score:            *in.Score,
		RelevanceScore:   in.RelevanceScore,
		QualityScore:     in.QualityScore,
		OriginalityScore: in.OriginalityScore,
		Comments:         optionalText(in.Comments),
		Recommendation:   in.Recommendation,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := evaluationExists(tx, submissionID, evaluatorID)
		if err != nil {
			return err
		}
		if exists {
			return alreadyEvaluated()
		}

		if err := tx.Omit("Evaluator", "Submission").Create(&evaluation).Error; err != nil {
			if isDuplicateKey(err) {
				return alreadyEvaluated()
			}
			return fmt.Errorf("create evaluation: %w", err)
		}

		if _, err := advanceToUnderReview(tx, submissionID, evaluatorID, "first_evaluation", now); err != nil {
			return err
		}

		if err := tx.Model(&models.ReviewAssignment{}).
			Where("submission_id = ? AND reviewer_id = ? AND status = ?", submissionID, evaluatorID, models.AssignmentStatusPending).
			Updates(map[string]interface{}{
				"status":       models.AssignmentStatusCompleted,
				"completed_at": now,
			}).Error; err != nil {
			return fmt.Errorf("complete assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Notifier.Notify(ctx, event.CreatedBy,
		NotificationNewEvaluation,
		fmt.Sprintf("New evaluation for submission: %s", submission.Title),
		map[string]interface{}{"submission_id": submissionID, "evaluation_id": evaluation.EvaluationID},
	)

	logrus.WithFields(logrus.Fields{
		"submission_id":  submissionID,
		"evaluation_id":  evaluation.EvaluationID,
		"evaluator_id":   evaluatorID,
		"recommendation": evaluation.Recommendation,
	}).Info("evaluation recorded")
	return &evaluation, nil
}

func alreadyEvaluated() *Error {
	return newError(KindConflict, ErrAlreadyEvaluated.Code, "you have already evaluated this submission")
}

// Update changes an evaluation. Only the evaluator who wrote it may update it.
func (s *EvaluationService) Update(ctx context.Context, evaluationID, actorID uint, upd EvaluationUpdate) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := s.deps.DB.WithContext(ctx).First(&evaluation, "evaluation_id = ?", evaluationID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("evaluation")
		}
		return nil, fmt.Errorf("load evaluation %d: %w", evaluationID, err)
	}
	if evaluation.EvaluatorID != actorID {
		return nil, unauthorized("only the evaluator can modify this evaluation")
	}

	if upd.Recommendation != nil {
		r := strings.ToLower(strings.TrimSpace(*upd.Recommendation))
		upd.Recommendation = &r
	}
	if err := validateEvaluationUpdate(upd); err != nil {
		return nil, err
	}
	if upd.empty() {
		return &evaluation, nil
	}

	updates := map[string]interface{}{"updated_at": s.deps.Now()}
	if upd.Score != nil {
		updates["score"] = *upd.Score
	}
	if upd.RelevanceScore != nil {
		updates["relevance_score"] = *upd.RelevanceScore
	}
	if upd.QualityScore != nil {
		updates["quality_score"] = *upd.QualityScore
	}
	if upd.OriginalityScore != nil {
		updates["originality_score"] = *upd.OriginalityScore
	}
	if upd.Comments != nil {
		updates["comments"] = optionalText(upd.Comments)
	}
	if upd.Recommendation != nil {
		updates["recommendation"] = *upd.Recommendation
	}

	if err := s.deps.DB.WithContext(ctx).Model(&models.Evaluation{}).
		Where("evaluation_id = ?", evaluationID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update evaluation: %w", err)
	}

	var updated models.Evaluation
	if err := s.deps.DB.WithContext(ctx).First(&updated, "evaluation_id = ?", evaluationID).Error; err != nil {
		return nil, fmt.Errorf("reload evaluation %d: %w", evaluationID, err)
	}
	return &updated, nil
}

// ListForSubmission returns every evaluation of the submission with the average score and
// majority recommendation, for the event's organizer, committee or a super-admin.
func (s *EvaluationService) ListForSubmission(ctx context.Context, submissionID, actorID uint) (*SubmissionEvaluations, error) {
	submission, err := loadSubmission(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, submission.EventID)
	if err != nil {
		return nil, err
	}
	if !roles.canReview() {
		return nil, unauthorized("you are not allowed to read these evaluations")
	}

	evaluations, err := loadEvaluations(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}
	if evaluations == nil {
		evaluations = []models.Evaluation{}
	}

	var author models.User
	if err := s.deps.DB.WithContext(ctx).First(&author, "user_id = ?", submission.UserID).Error; err == nil {
		submission.Author = &author
	}
	submission.EvaluationsCount = int64(len(evaluations))

	return &SubmissionEvaluations{
		Submission:             submission,
		Evaluations:            evaluations,
		AverageScore:           AverageScore(evaluations),
		MajorityRecommendation: MajorityRecommendation(evaluations),
	}, nil
}

// GenerateReport summarizes the submission's evaluations for its organizer or a super-admin.
func (s *EvaluationService) GenerateReport(ctx context.Context, submissionID, actorID uint) (*EvaluationReport, error) {
	submission, err := loadSubmissionWithEvaluations(ctx, s.deps.DB, submissionID)
	if err != nil {
		return nil, err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, submission.EventID)
	if err != nil {
		return nil, err
	}
	if !roles.canManage() {
		return nil, unauthorized("only the event organizer can generate an evaluation report")
	}

	evaluations := submission.Evaluations
	report := &EvaluationReport{
		Submission: ReportSubmission{
			ID:    submission.SubmissionID,
			Title: submission.Title,
			Type:  submission.Type,
		},
		Statistics: Statistics(evaluations),
		Recommendations: ReportRecommendations{
			RecommendationCounts: CountRecommendations(evaluations),
			Majority:             MajorityRecommendation(evaluations),
		},
		Evaluations: make([]ReportEvaluation, 0, len(evaluations)),
	}
	if submission.Author != nil {
		report.Submission.Author = submission.Author.Name
	}
	for _, e := range evaluations {
		row := ReportEvaluation{
			Score:          e.Score,
			Recommendation: e.Recommendation,
			Comments:       e.Comments,
			Date:           e.CreatedAt.Format("2006-01-02 15:04"),
		}
		if e.Evaluator != nil {
			row.Evaluator = e.Evaluator.Name
		}
		report.Evaluations = append(report.Evaluations, row)
	}
	return report, nil
}

// ListMine pages through the evaluations written by the actor, newest first.
func (s *EvaluationService) ListMine(ctx context.Context, actorID uint, page Page) (Paginated[models.Evaluation], error) {
	page = page.normalized(15)
	query := s.deps.DB.WithContext(ctx).Model(&models.Evaluation{}).Where("evaluator_id = ?", actorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Paginated[models.Evaluation]{}, fmt.Errorf("count evaluations: %w", err)
	}

	var evaluations []models.Evaluation
	if err := query.
		Preload("Submission").
		Preload("Submission.Event").
		Preload("Submission.Author").
		Order("created_at DESC, evaluation_id DESC").
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&evaluations).Error; err != nil {
		return Paginated[models.Evaluation]{}, fmt.Errorf("list evaluations: %w", err)
	}
	return newPaginated(evaluations, total, page), nil
}
