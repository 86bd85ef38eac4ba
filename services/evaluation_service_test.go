package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"conference-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRecordsEvaluationAndNotifiesOrganizer(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)
	reviewer := f.reviewers[0]

	evaluation, err := f.evaluations().Evaluate(context.Background(), submission.SubmissionID, reviewer.UserID, EvaluationInput{
		Score:            floatPtr(7.5),
		RelevanceScore:   intPtr(4),
		QualityScore:     intPtr(3),
		OriginalityScore: intPtr(5),
		Comments:         strPtr("  Solid methodology.  "),
		Recommendation:   " Accept ",
	})
	require.NoError(t, err)
	require.NotZero(t, evaluation.EvaluationID)
	assert.Equal(t, models.RecommendationAccept, evaluation.Recommendation)
	require.NotNil(t, evaluation.Comments)
	assert.Equal(t, "Solid methodology.", *evaluation.Comments)

	assert.Equal(t, models.SubmissionStatusUnderReview, f.reloadSubmission(t, submission.SubmissionID).Status)

	sent := f.notifier.to(f.organizer.UserID)
	require.Len(t, sent, 1)
	assert.Equal(t, NotificationNewEvaluation, sent[0].Kind)
	assert.Contains(t, sent[0].Message, submission.Title)
	assert.Equal(t, evaluation.EvaluationID, sent[0].Data["evaluation_id"])
}

func TestEvaluateRejectsSecondEvaluationBySameEvaluator(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)
	f.evaluate(t, submission.SubmissionID, f.reviewers[0], 8, models.RecommendationAccept)

	_, err := f.evaluations().Evaluate(context.Background(), submission.SubmissionID, f.reviewers[0].UserID, EvaluationInput{
		Score:          floatPtr(3),
		Recommendation: models.RecommendationReject,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyEvaluated))
	assert.True(t, errors.Is(err, ErrConflict))

	assert.EqualValues(t, 1, f.count(t, &models.Evaluation{}, "submission_id = ?", submission.SubmissionID))
}

func TestEvaluateConcurrentAttemptsKeepOneEvaluation(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)
	svc := f.evaluations()

	const attempts = 6
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Evaluate(context.Background(), submission.SubmissionID, f.reviewers[0].UserID, EvaluationInput{
				Score:          floatPtr(float64(i)),
				Recommendation: models.RecommendationRevision,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrAlreadyEvaluated), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, f.count(t, &models.Evaluation{}, "submission_id = ?", submission.SubmissionID))
	assert.EqualValues(t, 1, f.count(t, &models.SubmissionStatusHistory{},
		"submission_id = ? AND new_status = ?", submission.SubmissionID, models.SubmissionStatusUnderReview))
}

func TestEvaluateRequiresCommitteeMembership(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)

	for _, actor := range []models.User{f.outsider, f.organizer, f.author} {
		_, err := f.evaluations().Evaluate(context.Background(), submission.SubmissionID, actor.UserID, EvaluationInput{
			Score:          floatPtr(5),
			Recommendation: models.RecommendationAccept,
		})
		assert.True(t, errors.Is(err, ErrUnauthorized), "actor %s: %v", actor.Name, err)
	}

	assert.Zero(t, f.count(t, &models.Evaluation{}, "submission_id = ?", submission.SubmissionID))
	assert.Equal(t, models.SubmissionStatusPending, f.reloadSubmission(t, submission.SubmissionID).Status)
	assert.Empty(t, f.notifier.to(f.organizer.UserID))
}

func TestEvaluateAdvancesPendingSubmissionOnlyOnce(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)

	f.evaluate(t, submission.SubmissionID, f.reviewers[0], 6, models.RecommendationRevision)
	f.evaluate(t, submission.SubmissionID, f.reviewers[1], 7, models.RecommendationAccept)

	assert.Equal(t, models.SubmissionStatusUnderReview, f.reloadSubmission(t, submission.SubmissionID).Status)

	var history []models.SubmissionStatusHistory
	require.NoError(t, f.db.Where("submission_id = ?", submission.SubmissionID).Find(&history).Error)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].OldStatus)
	assert.Equal(t, models.SubmissionStatusPending, *history[0].OldStatus)
	assert.Equal(t, models.SubmissionStatusUnderReview, history[0].NewStatus)
	assert.Equal(t, f.reviewers[0].UserID, history[0].ChangedBy)
}

func TestEvaluateDoesNotRegressDecidedSubmission(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)
	_, err := f.submissions().UpdateStatus(context.Background(), submission.SubmissionID, f.organizer.UserID, models.SubmissionStatusAccepted, nil)
	require.NoError(t, err)

	f.evaluate(t, submission.SubmissionID, f.reviewers[0], 9, models.RecommendationAccept)

	assert.Equal(t, models.SubmissionStatusAccepted, f.reloadSubmission(t, submission.SubmissionID).Status)
}

func TestEvaluateScoreBoundsAreInclusive(t *testing.T) {
	f := newReviewFixture(t)

	cases := []struct {
		name  string
		input EvaluationInput
		ok    bool
		field string
	}{
		{name: "zero", input: EvaluationInput{Score: floatPtr(0), Recommendation: "reject"}, ok: true},
		{name: "ten", input: EvaluationInput{Score: floatPtr(10), Recommendation: "accept"}, ok: true},
		{name: "sub-scores at bounds", input: EvaluationInput{Score: floatPtr(5), RelevanceScore: intPtr(1), QualityScore: intPtr(5), Recommendation: "revision"}, ok: true},
		{name: "below zero", input: EvaluationInput{Score: floatPtr(-0.01), Recommendation: "accept"}, field: "score"},
		{name: "above ten", input: EvaluationInput{Score: floatPtr(10.01), Recommendation: "accept"}, field: "score"},
		{name: "missing score", input: EvaluationInput{Recommendation: "accept"}, field: "score"},
		{name: "sub-score zero", input: EvaluationInput{Score: floatPtr(5), QualityScore: intPtr(0), Recommendation: "accept"}, field: "quality_score"},
		{name: "sub-score six", input: EvaluationInput{Score: floatPtr(5), OriginalityScore: intPtr(6), Recommendation: "accept"}, field: "originality_score"},
		{name: "unknown recommendation", input: EvaluationInput{Score: floatPtr(5), Recommendation: "maybe"}, field: "recommendation"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submission := f.createSubmission(t)
			_, err := f.evaluations().Evaluate(context.Background(), submission.SubmissionID, f.reviewers[0].UserID, tc.input)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, ErrValidation), "got %v", err)
			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tc.field)
			assert.Zero(t, f.count(t, &models.Evaluation{}, "submission_id = ?", submission.SubmissionID))
		})
	}
}

func TestEvaluateCompletesMatchingAssignment(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)
	reviewer := f.reviewers[1]

	_, err := f.assignments().Assign(context.Background(), submission.SubmissionID, reviewer.UserID, f.organizer.UserID)
	require.NoError(t, err)

	f.evaluate(t, submission.SubmissionID, reviewer, 8, models.RecommendationAccept)

	var assignment models.ReviewAssignment
	require.NoError(t, f.db.First(&assignment, "submission_id = ? AND reviewer_id = ?", submission.SubmissionID, reviewer.UserID).Error)
	assert.Equal(t, models.AssignmentStatusCompleted, assignment.Status)
	assert.NotNil(t, assignment.CompletedAt)
}

func TestUpdateEvaluationOnlyByItsEvaluator(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)
	evaluation := f.evaluate(t, submission.SubmissionID, f.reviewers[0], 4, models.RecommendationRevision)

	for _, actor := range []models.User{f.reviewers[1], f.organizer, f.superAdmin} {
		_, err := f.evaluations().Update(context.Background(), evaluation.EvaluationID, actor.UserID, EvaluationUpdate{Score: floatPtr(9)})
		assert.True(t, errors.Is(err, ErrUnauthorized), "actor %s: %v", actor.Name, err)
	}

	var stored models.Evaluation
	require.NoError(t, f.db.First(&stored, evaluation.EvaluationID).Error)
	assert.Equal(t, 4.0, stored.Score)

	updated, err := f.evaluations().Update(context.Background(), evaluation.EvaluationID, f.reviewers[0].UserID, EvaluationUpdate{
		Score:          floatPtr(9),
		Recommendation: strPtr("ACCEPT"),
	})
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.Score)
	assert.Equal(t, models.RecommendationAccept, updated.Recommendation)
}

func TestUpdateEvaluationValidatesFields(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)
	evaluation := f.evaluate(t, submission.SubmissionID, f.reviewers[0], 4, models.RecommendationRevision)

	_, err := f.evaluations().Update(context.Background(), evaluation.EvaluationID, f.reviewers[0].UserID, EvaluationUpdate{Score: floatPtr(11)})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.evaluations().Update(context.Background(), 9999, f.reviewers[0].UserID, EvaluationUpdate{Score: floatPtr(1)})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListForSubmissionAggregates(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)

	empty, err := f.evaluations().ListForSubmission(context.Background(), submission.SubmissionID, f.organizer.UserID)
	require.NoError(t, err)
	assert.Empty(t, empty.Evaluations)
	assert.Nil(t, empty.AverageScore)
	assert.Nil(t, empty.MajorityRecommendation)

	f.evaluate(t, submission.SubmissionID, f.reviewers[0], 8, models.RecommendationAccept)
	f.evaluate(t, submission.SubmissionID, f.reviewers[1], 6, models.RecommendationReject)
	f.evaluate(t, submission.SubmissionID, f.reviewers[2], 10, models.RecommendationRevision)

	result, err := f.evaluations().ListForSubmission(context.Background(), submission.SubmissionID, f.reviewers[2].UserID)
	require.NoError(t, err)
	require.Len(t, result.Evaluations, 3)
	require.NotNil(t, result.AverageScore)
	assert.InDelta(t, 8.0, *result.AverageScore, 1e-9)
	require.NotNil(t, result.MajorityRecommendation)
	assert.Equal(t, models.RecommendationAccept, *result.MajorityRecommendation)
	require.NotNil(t, result.Evaluations[0].Evaluator)
	assert.Equal(t, f.reviewers[0].Name, result.Evaluations[0].Evaluator.Name)

	_, err = f.evaluations().ListForSubmission(context.Background(), submission.SubmissionID, f.outsider.UserID)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestGenerateReport(t *testing.T) {
	f := newReviewFixture(t)
	submission := f.createSubmission(t)

	_, err := f.evaluations().Evaluate(context.Background(), submission.SubmissionID, f.reviewers[0].UserID, EvaluationInput{
		Score: floatPtr(9), RelevanceScore: intPtr(5), QualityScore: intPtr(4),
		Comments: strPtr("Strong"), Recommendation: models.RecommendationAccept,
	})
	require.NoError(t, err)
	_, err = f.evaluations().Evaluate(context.Background(), submission.SubmissionID, f.reviewers[1].UserID, EvaluationInput{
		Score: floatPtr(5), RelevanceScore: intPtr(3), Recommendation: models.RecommendationRevision,
	})
	require.NoError(t, err)
	f.evaluate(t, submission.SubmissionID, f.reviewers[2], 7, models.RecommendationRevision)

	report, err := f.evaluations().GenerateReport(context.Background(), submission.SubmissionID, f.organizer.UserID)
	require.NoError(t, err)

	assert.Equal(t, submission.SubmissionID, report.Submission.ID)
	assert.Equal(t, f.author.Name, report.Submission.Author)
	assert.Equal(t, 3, report.Statistics.TotalEvaluations)
	require.NotNil(t, report.Statistics.AverageScore)
	assert.InDelta(t, 7.0, *report.Statistics.AverageScore, 1e-9)
	require.NotNil(t, report.Statistics.AverageRelevance)
	assert.InDelta(t, 4.0, *report.Statistics.AverageRelevance, 1e-9)
	require.NotNil(t, report.Statistics.AverageQuality)
	assert.InDelta(t, 4.0, *report.Statistics.AverageQuality, 1e-9)
	assert.Nil(t, report.Statistics.AverageOriginality)

	assert.Equal(t, RecommendationCounts{Accept: 1, Revision: 2}, report.Recommendations.RecommendationCounts)
	require.NotNil(t, report.Recommendations.Majority)
	assert.Equal(t, models.RecommendationRevision, *report.Recommendations.Majority)

	require.Len(t, report.Evaluations, 3)
	assert.Equal(t, f.reviewers[0].Name, report.Evaluations[0].Evaluator)
	assert.Equal(t, "2025-03-10 09:30", report.Evaluations[0].Date)

	_, err = f.evaluations().GenerateReport(context.Background(), submission.SubmissionID, f.reviewers[0].UserID)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = f.evaluations().GenerateReport(context.Background(), submission.SubmissionID, f.superAdmin.UserID)
	assert.NoError(t, err)
}

func TestListMineEvaluations(t *testing.T) {
	f := newReviewFixture(t)
	first := f.createSubmission(t)
	second := f.createSubmission(t)
	f.evaluate(t, first.SubmissionID, f.reviewers[0], 5, models.RecommendationRevision)
	f.evaluate(t, second.SubmissionID, f.reviewers[0], 6, models.RecommendationAccept)
	f.evaluate(t, second.SubmissionID, f.reviewers[1], 6, models.RecommendationAccept)

	page, err := f.evaluations().ListMine(context.Background(), f.reviewers[0].UserID, Page{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Data, 1)
	require.NotNil(t, page.Data[0].Submission)
	assert.Equal(t, second.SubmissionID, page.Data[0].Submission.SubmissionID)
	require.NotNil(t, page.Data[0].Submission.Event)
	assert.Equal(t, f.event.Title, page.Data[0].Submission.Event.Title)
}
