package services

import (
	"context"
	"fmt"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
)

// AccessChecker answers the relationship questions every workflow operation asks about its actor.
type AccessChecker interface {
	IsCommitteeMemberOf(ctx context.Context, userID, eventID uint) (bool, error)
	IsOrganizerOf(ctx context.Context, userID, eventID uint) (bool, error)
	IsSuperAdmin(ctx context.Context, userID uint) (bool, error)
}

// DBAccessChecker resolves roles from the committees, events and roles tables.
// Share one instance across requests so the role lookup stays cached.
type DBAccessChecker struct {
	db    *gorm.DB
	roles roleCache
}

func NewDBAccessChecker(db *gorm.DB) *DBAccessChecker {
	if db == nil {
		db = config.DB
	}
	return &DBAccessChecker{db: db}
}

func (a *DBAccessChecker) IsCommitteeMemberOf(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).Model(&models.Committee{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check committee membership: %w", err)
	}
	return count > 0, nil
}

func (a *DBAccessChecker) IsOrganizerOf(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).Model(&models.Event{}).
		Where("event_id = ? AND created_by = ?", eventID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check event organizer: %w", err)
	}
	return count > 0, nil
}

func (a *DBAccessChecker) IsSuperAdmin(ctx context.Context, userID uint) (bool, error) {
	roleID, ok, err := a.roles.id(ctx, a.db, models.RoleSuperAdmin)
	if err != nil || !ok {
		return false, err
	}

	var count int64
	if err := a.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ? AND role_id = ? AND deleted_at IS NULL", userID, roleID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check super admin: %w", err)
	}
	return count > 0, nil
}

// eventRoles are the actor's relationships to one event, resolved once per operation.
type eventRoles struct {
	organizer  bool
	committee  bool
	superAdmin bool
}

func (r eventRoles) canManage() bool { return r.organizer || r.superAdmin }

func (r eventRoles) canReview() bool { return r.organizer || r.committee || r.superAdmin }

func resolveEventRoles(ctx context.Context, access AccessChecker, userID, eventID uint) (eventRoles, error) {
	var roles eventRoles
	var err error
	if roles.organizer, err = access.IsOrganizerOf(ctx, userID, eventID); err != nil {
		return roles, err
	}
	if roles.committee, err = access.IsCommitteeMemberOf(ctx, userID, eventID); err != nil {
		return roles, err
	}
	if roles.superAdmin, err = access.IsSuperAdmin(ctx, userID); err != nil {
		return roles, err
	}
	return roles, nil
}
