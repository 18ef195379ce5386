package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	AuthID     string                      `gorm:"type:text;uniqueIndex;not null" json:"-"`
	Email      string                      `gorm:"type:text" json:"email"`
	Name       string                      `gorm:"type:text" json:"name"`
	Industry   string                      `gorm:"type:text" json:"industry"`
	Experience *int                        `json:"experience,omitempty"`
	Bio        string                      `gorm:"type:text" json:"bio"`
	Skills     datatypes.JSONSlice[string] `json:"skills"`
	CreatedAt  time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsOnboarded reports whether the user has completed the profile step that
// gates insight generation.
func (u *User) IsOnboarded() bool {
	return strings.TrimSpace(u.Industry) != ""
}

type OnboardingRequest struct {
	Industry   string   `json:"industry"`
	Experience *int     `json:"experience,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

type OnboardingStatusResponse struct {
	IsOnboarded bool   `json:"is_onboarded"`
	Industry    string `json:"industry,omitempty"`
}
