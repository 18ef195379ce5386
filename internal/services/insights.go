package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"uptrack/career-coach/internal/models"
	"uptrack/career-coach/internal/repositories"
)

// InsightGenerator produces the market snapshot for one industry. The
// production implementation asks Gemini; tests substitute a fake.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, industry string) (*models.GeneratedInsights, error)
}

type geminiInsightGenerator struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewGeminiInsightGenerator(gemini GeminiService, maxRetries int) InsightGenerator {
	return &geminiInsightGenerator{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

func (g *geminiInsightGenerator) GenerateInsights(ctx context.Context, industry string) (*models.GeneratedInsights, error) {
	prompt := g.promptBuilder.BuildInsightsPrompt(industry)

	response, err := g.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, g.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}

	var insights models.GeneratedInsights
	if err := json.Unmarshal([]byte(extractJSON(response)), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse insights JSON: %w", err)
	}
	return &insights, nil
}

// InsightsService serves cached industry insights, generating on first
// access and refreshing after the freshness window. A failed refresh returns
// the stale record instead of failing the request.
type InsightsService interface {
	GetInsights(ctx context.Context, userID uuid.UUID) (*models.IndustryInsight, error)
	RefreshInsight(ctx context.Context, insight *models.IndustryInsight) error
}

type insightsService struct {
	userRepo      repositories.UserRepository
	insightRepo   repositories.InsightRepository
	generator     InsightGenerator
	refreshWindow time.Duration
}

func NewInsightsService(
	userRepo repositories.UserRepository,
	insightRepo repositories.InsightRepository,
	generator InsightGenerator,
	refreshWindow time.Duration,
) InsightsService {
	return &insightsService{
		userRepo:      userRepo,
		insightRepo:   insightRepo,
		generator:     generator,
		refreshWindow: refreshWindow,
	}
}

func (s *insightsService) GetInsights(ctx context.Context, userID uuid.UUID) (*models.IndustryInsight, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	industry := strings.TrimSpace(user.Industry)
	if industry == "" {
		return nil, models.ErrIndustryNotSet
	}

	insight, err := s.insightRepo.FindByIndustry(industry)
	if err == gorm.ErrRecordNotFound {
		return s.createInsight(ctx, industry)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load insight: %w", err)
	}

	if insight.IsStale(time.Now()) {
		if err := s.RefreshInsight(ctx, insight); err != nil {
			// Stale beats unavailable.
			log.Printf("⚠️  Failed to refresh insights for %q, serving stale record: %v", industry, err)
		}
	}

	return insight, nil
}

func (s *insightsService) createInsight(ctx context.Context, industry string) (*models.IndustryInsight, error) {
	generated, err := s.generator.GenerateInsights(ctx, industry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights for %q: %w", industry, err)
	}

	insight := &models.IndustryInsight{
		ID:         uuid.New(),
		Industry:   industry,
		NextUpdate: time.Now().Add(s.refreshWindow),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	applyGenerated(insight, generated)

	if err := s.insightRepo.Create(insight); err != nil {
		// Lost a concurrent first-access race on the industry unique index:
		// serve the record the winner stored.
		if existing, findErr := s.insightRepo.FindByIndustry(industry); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to store insights: %w", err)
	}
	return insight, nil
}

// RefreshInsight regenerates an existing record in place and pushes the
// freshness window forward.
func (s *insightsService) RefreshInsight(ctx context.Context, insight *models.IndustryInsight) error {
	generated, err := s.generator.GenerateInsights(ctx, insight.Industry)
	if err != nil {
		return fmt.Errorf("failed to regenerate insights for %q: %w", insight.Industry, err)
	}

	refreshed := *insight
	applyGenerated(&refreshed, generated)
	refreshed.NextUpdate = time.Now().Add(s.refreshWindow)

	if err := s.insightRepo.Update(&refreshed); err != nil {
		return fmt.Errorf("failed to store refreshed insights: %w", err)
	}

	*insight = refreshed
	return nil
}

func applyGenerated(insight *models.IndustryInsight, generated *models.GeneratedInsights) {
	ranges, _ := json.Marshal(generated.SalaryRanges)
	insight.SalaryRanges = datatypes.JSON(ranges)
	insight.GrowthRate = generated.GrowthRate
	insight.DemandLevel = generated.DemandLevel
	insight.TopSkills = datatypes.NewJSONSlice(generated.TopSkills)
	insight.MarketOutlook = generated.MarketOutlook
	insight.KeyTrends = datatypes.NewJSONSlice(generated.KeyTrends)
	insight.RecommendedSkills = datatypes.NewJSONSlice(generated.RecommendedSkills)
}
