package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resume is the single persisted artifact per user: the markdown projection
// of the form, never the form itself.
type Resume struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	AtsScore  *float64  `gorm:"type:decimal(5,2)" json:"ats_score,omitempty"`
	Feedback  *string   `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}

// ContactInfo fields are all optional; each is rendered into the markdown
// contact line only when non-empty.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

func (c ContactInfo) IsEmpty() bool {
	return c.Email == "" && c.Mobile == "" && c.LinkedIn == "" && c.Twitter == ""
}

// Entry is the repeated unit shared by the experience, education and
// projects collections.
type Entry struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Current      bool   `json:"current,omitempty"`
	Description  string `json:"description,omitempty"`
}

// ResumeForm holds the structured resume fields. It is the source of truth
// while the editor is in structured-edit mode and is never persisted
// directly.
type ResumeForm struct {
	ContactInfo ContactInfo `json:"contact_info"`
	Summary     string      `json:"summary"`
	Skills      string      `json:"skills"`
	Experience  []Entry     `json:"experience"`
	Education   []Entry     `json:"education"`
	Projects    []Entry     `json:"projects"`
}

func (f *ResumeForm) IsEmpty() bool {
	return f.ContactInfo.IsEmpty() &&
		strings.TrimSpace(f.Summary) == "" &&
		strings.TrimSpace(f.Skills) == "" &&
		len(f.Experience) == 0 &&
		len(f.Education) == 0 &&
		len(f.Projects) == 0
}

type SaveResumeRequest struct {
	Content string `json:"content"`
}

type ImproveRequest struct {
	Current string `json:"current"`
	Type    string `json:"type"`
}

type ImproveResponse struct {
	Improved string `json:"improved"`
}

type SetModeRequest struct {
	Mode string `json:"mode"`
}

type SessionResponse struct {
	Mode    string      `json:"mode"`
	Content string      `json:"content"`
	Form    *ResumeForm `json:"form"`
	Warning string      `json:"warning,omitempty"`
}
