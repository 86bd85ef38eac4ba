package models

import (
	"time"
)

// Role names stored in roles.role
const (
	RoleSuperAdmin      = "super_admin"
	RoleOrganizer       = "organizer"
	RoleAuthor          = "author"
	RoleCommitteeMember = "committee_member"
	RoleParticipant     = "participant"
)

type User struct {
	UserID      uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name        string     `gorm:"column:name;size:255" json:"name"`
	Email       string     `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Institution *string    `gorm:"column:institution;size:255" json:"institution,omitempty"`
	Country     *string    `gorm:"column:country;size:100" json:"country,omitempty"`
	Password    string     `gorm:"column:password" json:"-"`
	RoleID      uint       `gorm:"column:role_id" json:"role_id"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID    uint      `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role      string    `gorm:"column:role;size:50;uniqueIndex" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}
