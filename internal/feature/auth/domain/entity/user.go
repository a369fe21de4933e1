// Package entity defines the domain entities for the auth feature.
package entity

import (
	"strings"
	"time"

	"drive_backend/internal/shared/apperr"
)

// Role is the kind of account a user holds.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
)

// Profile is the role-specific part of a user. Exactly one of Student or
// Instructor implements it, so an instructor carrying a profile type cannot be built.
type Profile interface {
	Role() Role
	isProfile()
}

// Student is the profile of a learner driver. ProfileType is required.
type Student struct {
	ProfileType string
}

// Role returns RoleStudent.
func (Student) Role() Role { return RoleStudent }
func (Student) isProfile() {}

// Instructor is the profile of a driving instructor. It carries no profile type.
type Instructor struct{}

// Role returns RoleInstructor.
func (Instructor) Role() Role { return RoleInstructor }
func (Instructor) isProfile() {}

// NewProfile builds a Profile from the wire representation used by clients.
// A student must have a non-blank profile type. An instructor must not send the field at all,
// not even an empty or blank string.
func NewProfile(role string, profileType *string) (Profile, error) {
	switch Role(role) {
	case RoleStudent:
		if profileType == nil || strings.TrimSpace(*profileType) == "" {
			return nil, apperr.Validation("profile type is required for students")
		}
		return Student{ProfileType: strings.TrimSpace(*profileType)}, nil
	case RoleInstructor:
		if profileType != nil {
			return nil, apperr.Validation("profile type must not be set for instructors")
		}
		return Instructor{}, nil
	default:
		return nil, apperr.Validation("role must be STUDENT or INSTRUCTOR")
	}
}

// User represents a registered user in the system.
type User struct {
	// ID is an opaque UUID.
	ID string `gorm:"primaryKey;size:36"`

	// Email is unique and compared case-sensitively as stored.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash. It is never returned to callers.
	Password string `gorm:"size:255;not null"`

	Name string `gorm:"size:255;not null"`
	Role Role   `gorm:"size:16;not null;index"`

	// ProfileType is set only for students.
	ProfileType *string `gorm:"size:64"`

	// SocialID is set only for students and is unique.
	SocialID *string `gorm:"uniqueIndex;size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile returns the tagged-union view of the user's role fields.
func (u *User) Profile() Profile {
	if u.Role == RoleStudent {
		pt := ""
		if u.ProfileType != nil {
			pt = *u.ProfileType
		}
		return Student{ProfileType: pt}
	}
	return Instructor{}
}

// IsStudent reports whether the user holds the student role.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// WithoutPassword returns a copy of the user with the password hash cleared.
func (u *User) WithoutPassword() *User {
	cp := *u
	cp.Password = ""
	return &cp
}
