package services

import (
	"context"
	"fmt"

	"conference-review-api/models"
	"conference-review-api/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"
)

// CommitteeService manages scientific committee membership.
type CommitteeService struct {
	deps Dependencies
}

func NewCommitteeService(deps Dependencies) *CommitteeService {
	return &CommitteeService{deps: deps.withDefaults()}
}

// ListForEvent returns the event's committee members. Any member, the organizer or a
// super-admin may read it.
func (s *CommitteeService) ListForEvent(ctx context.Context, eventID, actorID uint) ([]models.Committee, error) {
	if _, err := s.deps.Events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, eventID)
	if err != nil {
		return nil, err
	}
	if !roles.canReview() {
		return nil, unauthorized("you are not allowed to view this committee")
	}

	var members []models.Committee
	if err := s.deps.DB.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("committee_id ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list committee: %w", err)
	}
	return members, nil
}

// ListMine returns the committees the actor sits on with their events.
func (s *CommitteeService) ListMine(ctx context.Context, actorID uint) ([]models.Committee, error) {
	var memberships []models.Committee
	if err := s.deps.DB.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", actorID).
		Order("created_at DESC, committee_id DESC").
		Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("list my committees: %w", err)
	}
	return memberships, nil
}

// Add puts a user on the event's committee. Organizers of the event and super-admins only.
func (s *CommitteeService) Add(ctx context.Context, eventID, actorID uint, in CommitteeMemberInput) (*models.Committee, error) {
	in.RoleInCommittee = utils.SanitizeInput(in.RoleInCommittee)
	if err := validateCommitteeMember(in); err != nil {
		return nil, err
	}
	if _, err := s.deps.Events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, actorID, eventID); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.deps.DB.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", in.UserID).
		First(&user).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("load user %d: %w", in.UserID, err)
	}

	member, err := s.deps.Access.IsCommitteeMemberOf(ctx, in.UserID, eventID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, alreadyMember()
	}

	row := models.Committee{
		EventID:         eventID,
		UserID:          in.UserID,
		RoleInCommittee: in.RoleInCommittee,
		CreatedAt:       s.deps.Now(),
	}
	if err := s.deps.DB.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, alreadyMember()
		}
		return nil, fmt.Errorf("add committee member: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": eventID,
		"user_id":  in.UserID,
		"added_by": actorID,
	}).Info("committee member added")

	row.User = &user
	return &row, nil
}

func alreadyMember() *Error {
	return newError(KindConflict, ErrAlreadyMember.Code, "this user is already on the committee")
}

// UpdateRole changes a member's role in the committee.
func (s *CommitteeService) UpdateRole(ctx context.Context, committeeID, actorID uint, upd CommitteeRoleUpdate) (*models.Committee, error) {
	upd.RoleInCommittee = utils.SanitizeInput(upd.RoleInCommittee)
	if err := validateCommitteeRole(upd); err != nil {
		return nil, err
	}
	row, err := s.loadMember(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, actorID, row.EventID); err != nil {
		return nil, err
	}

	if err := s.deps.DB.WithContext(ctx).Model(&models.Committee{}).
		Where("committee_id = ?", committeeID).
		Update("role_in_committee", upd.RoleInCommittee).Error; err != nil {
		return nil, fmt.Errorf("update committee member: %w", err)
	}
	row.RoleInCommittee = upd.RoleInCommittee
	return row, nil
}

// Remove takes a member off the committee. Their evaluations stay; they can no longer
// be assigned to or evaluate the event's submissions.
func (s *CommitteeService) Remove(ctx context.Context, committeeID, actorID uint) error {
	row, err := s.loadMember(ctx, committeeID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, actorID, row.EventID); err != nil {
		return err
	}

	if err := s.deps.DB.WithContext(ctx).Delete(&models.Committee{}, "committee_id = ?", committeeID).Error; err != nil {
		return fmt.Errorf("remove committee member: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id":   row.EventID,
		"user_id":    row.UserID,
		"removed_by": actorID,
	}).Info("committee member removed")
	return nil
}

func (s *CommitteeService) loadMember(ctx context.Context, committeeID uint) (*models.Committee, error) {
	var row models.Committee
	if err := s.deps.DB.WithContext(ctx).First(&row, "committee_id = ?", committeeID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("committee member")
		}
		return nil, fmt.Errorf("load committee member %d: %w", committeeID, err)
	}
	return &row, nil
}

func (s *CommitteeService) requireManager(ctx context.Context, actorID, eventID uint) error {
	roles, err := resolveEventRoles(ctx, s.deps.Access, actorID, eventID)
	if err != nil {
		return err
	}
	if !roles.canManage() {
		return unauthorized("only the event organizer can manage the committee")
	}
	return nil
}
