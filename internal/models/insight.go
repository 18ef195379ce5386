package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DemandLevel string

const (
	DemandHigh   DemandLevel = "HIGH"
	DemandMedium DemandLevel = "MEDIUM"
	DemandLow    DemandLevel = "LOW"
)

type MarketOutlook string

const (
	OutlookPositive MarketOutlook = "POSITIVE"
	OutlookNeutral  MarketOutlook = "NEUTRAL"
	OutlookNegative MarketOutlook = "NEGATIVE"
)

type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// IndustryInsight is the cached AI-generated market snapshot for one
// industry. NextUpdate marks the end of the freshness window.
type IndustryInsight struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Industry          string                      `gorm:"type:text;uniqueIndex;not null" json:"industry"`
	SalaryRanges      datatypes.JSON              `json:"salary_ranges"`
	GrowthRate        float64                     `json:"growth_rate"`
	DemandLevel       DemandLevel                 `gorm:"type:text" json:"demand_level"`
	TopSkills         datatypes.JSONSlice[string] `json:"top_skills"`
	MarketOutlook     MarketOutlook               `gorm:"type:text" json:"market_outlook"`
	KeyTrends         datatypes.JSONSlice[string] `json:"key_trends"`
	RecommendedSkills datatypes.JSONSlice[string] `json:"recommended_skills"`
	NextUpdate        time.Time                   `json:"next_update"`
	CreatedAt         time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (IndustryInsight) TableName() string {
	return "industry_insights"
}

func (i *IndustryInsight) IsStale(now time.Time) bool {
	return now.After(i.NextUpdate)
}

// GeneratedInsights mirrors the strict JSON shape the model is prompted to
// return.
type GeneratedInsights struct {
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       DemandLevel   `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     MarketOutlook `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
}
