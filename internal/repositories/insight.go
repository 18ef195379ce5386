package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"uptrack/career-coach/internal/models"
)

type InsightRepository interface {
	Create(insight *models.IndustryInsight) error
	FindByIndustry(industry string) (*models.IndustryInsight, error)
	Update(insight *models.IndustryInsight) error
	FindStale(now time.Time, limit int) ([]models.IndustryInsight, error)
}

type insightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) Create(insight *models.IndustryInsight) error {
	if err := r.db.Create(insight).Error; err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

func (r *insightRepository) FindByIndustry(industry string) (*models.IndustryInsight, error) {
	var insight models.IndustryInsight
	if err := r.db.Where("industry = ?", industry).First(&insight).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find insight: %w", err)
	}
	return &insight, nil
}

func (r *insightRepository) Update(insight *models.IndustryInsight) error {
	insight.UpdatedAt = time.Now()
	result := r.db.Model(&models.IndustryInsight{}).
		Where("id = ?", insight.ID).
		Updates(map[string]interface{}{
			"salary_ranges":      insight.SalaryRanges,
			"growth_rate":        insight.GrowthRate,
			"demand_level":       insight.DemandLevel,
			"top_skills":         insight.TopSkills,
			"market_outlook":     insight.MarketOutlook,
			"key_trends":         insight.KeyTrends,
			"recommended_skills": insight.RecommendedSkills,
			"next_update":        insight.NextUpdate,
			"updated_at":         insight.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update insight: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("insight not found")
	}
	return nil
}

func (r *insightRepository) FindStale(now time.Time, limit int) ([]models.IndustryInsight, error) {
	var insights []models.IndustryInsight
	err := r.db.
		Where("next_update < ?", now).
		Order("next_update ASC").
		Limit(limit).
		Find(&insights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale insights: %w", err)
	}
	return insights, nil
}
