package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uptrack/career-coach/internal/models"
)

// ResumeRepository is the persistence gateway for resume documents. There is
// at most one document per user; Upsert keeps that invariant.
type ResumeRepository interface {
	Upsert(userID uuid.UUID, content string) (*models.Resume, error)
	FindByUser(userID uuid.UUID) (*models.Resume, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Upsert(userID uuid.UUID, content string) (*models.Resume, error) {
	content = strings.TrimSpace(content)

	var resume models.Resume
	err := r.db.Where("user_id = ?", userID).First(&resume).Error
	if err == gorm.ErrRecordNotFound {
		resume = models.Resume{
			ID:        uuid.New(),
			UserID:    userID,
			Content:   content,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.db.Create(&resume).Error; err != nil {
			return nil, fmt.Errorf("failed to create resume: %w", err)
		}
		return &resume, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}

	resume.Content = content
	resume.UpdatedAt = time.Now()
	if err := r.db.Model(&models.Resume{}).
		Where("id = ?", resume.ID).
		Updates(map[string]interface{}{
			"content":    resume.Content,
			"updated_at": resume.UpdatedAt,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}

	return &resume, nil
}

func (r *resumeRepository) FindByUser(userID uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("user_id = ?", userID).First(&resume).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}
