package services

import (
	"context"
	"errors"
	"testing"

	"conference-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitteeListings(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	members, err := f.committees().ListForEvent(ctx, f.event.EventID, f.organizer.UserID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	require.NotNil(t, members[0].User)
	assert.Equal(t, f.reviewers[0].Name, members[0].User.Name)

	_, err = f.committees().ListForEvent(ctx, f.event.EventID, f.outsider.UserID)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = f.committees().ListForEvent(ctx, 555, f.organizer.UserID)
	assert.True(t, errors.Is(err, ErrNotFound))

	mine, err := f.committees().ListMine(ctx, f.reviewers[1].UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, f.event.Title, mine[0].Event.Title)

	none, err := f.committees().ListMine(ctx, f.author.UserID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddCommitteeMember(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	in := CommitteeMemberInput{UserID: f.outsider.UserID, RoleInCommittee: " reviewer "}

	_, err := f.committees().Add(ctx, f.event.EventID, f.reviewers[0].UserID, in)
	assert.True(t, errors.Is(err, ErrUnauthorized), "got %v", err)

	member, err := f.committees().Add(ctx, f.event.EventID, f.organizer.UserID, in)
	require.NoError(t, err)
	assert.Equal(t, "reviewer", member.RoleInCommittee)
	require.NotNil(t, member.User)
	assert.Equal(t, f.outsider.Name, member.User.Name)

	ok, err := NewDBAccessChecker(f.db).IsCommitteeMemberOf(ctx, f.outsider.UserID, f.event.EventID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.committees().Add(ctx, f.event.EventID, f.organizer.UserID, in)
	assert.True(t, errors.Is(err, ErrAlreadyMember), "got %v", err)

	_, err = f.committees().Add(ctx, f.event.EventID, f.organizer.UserID, CommitteeMemberInput{UserID: 9999, RoleInCommittee: "chair"})
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, err = f.committees().Add(ctx, f.event.EventID, f.organizer.UserID, CommitteeMemberInput{UserID: f.author.UserID})
	assert.True(t, errors.Is(err, ErrValidation), "got %v", err)

	_, err = f.committees().Add(ctx, 555, f.organizer.UserID, CommitteeMemberInput{UserID: f.author.UserID, RoleInCommittee: "chair"})
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	// a newly added member can evaluate
	submission := f.createSubmission(t)
	f.evaluate(t, submission.SubmissionID, f.outsider, 7, models.RecommendationAccept)
}

func TestUpdateAndRemoveCommitteeMember(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	var row models.Committee
	require.NoError(t, f.db.First(&row, "event_id = ? AND user_id = ?", f.event.EventID, f.reviewers[2].UserID).Error)

	_, err := f.committees().UpdateRole(ctx, row.CommitteeID, f.author.UserID, CommitteeRoleUpdate{RoleInCommittee: "chair"})
	assert.True(t, errors.Is(err, ErrUnauthorized), "got %v", err)

	_, err = f.committees().UpdateRole(ctx, row.CommitteeID, f.organizer.UserID, CommitteeRoleUpdate{RoleInCommittee: "  "})
	assert.True(t, errors.Is(err, ErrValidation), "got %v", err)

	updated, err := f.committees().UpdateRole(ctx, row.CommitteeID, f.organizer.UserID, CommitteeRoleUpdate{RoleInCommittee: "chair"})
	require.NoError(t, err)
	assert.Equal(t, "chair", updated.RoleInCommittee)

	var stored models.Committee
	require.NoError(t, f.db.First(&stored, row.CommitteeID).Error)
	assert.Equal(t, "chair", stored.RoleInCommittee)

	require.NoError(t, f.committees().Remove(ctx, row.CommitteeID, f.organizer.UserID))
	assert.Zero(t, f.count(t, &models.Committee{}, "committee_id = ?", row.CommitteeID))

	err = f.committees().Remove(ctx, row.CommitteeID, f.organizer.UserID)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	// removed members lose the right to evaluate
	submission := f.createSubmission(t)
	_, err = f.evaluations().Evaluate(ctx, submission.SubmissionID, f.reviewers[2].UserID, EvaluationInput{
		Score:          floatPtr(5),
		Recommendation: models.RecommendationAccept,
	})
	assert.True(t, errors.Is(err, ErrUnauthorized), "got %v", err)
}
