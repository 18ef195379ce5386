package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"uptrack/career-coach/internal/models"
)

type fakeInsightRepo struct {
	byIndustry map[string]*models.IndustryInsight
	createErr  error
	updateErr  error
	updates    int
	findMisses int
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{byIndustry: map[string]*models.IndustryInsight{}}
}

func (f *fakeInsightRepo) Create(insight *models.IndustryInsight) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byIndustry[insight.Industry] = insight
	return nil
}

func (f *fakeInsightRepo) FindByIndustry(industry string) (*models.IndustryInsight, error) {
	if f.findMisses > 0 {
		f.findMisses--
		return nil, gorm.ErrRecordNotFound
	}
	insight, ok := f.byIndustry[industry]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *insight
	return &copied, nil
}

func (f *fakeInsightRepo) Update(insight *models.IndustryInsight) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *insight
	f.byIndustry[insight.Industry] = &copied
	return nil
}

func (f *fakeInsightRepo) FindStale(now time.Time, limit int) ([]models.IndustryInsight, error) {
	var stale []models.IndustryInsight
	for _, insight := range f.byIndustry {
		if insight.IsStale(now) {
			stale = append(stale, *insight)
		}
	}
	return stale, nil
}

type fakeGenerator struct {
	insights *models.GeneratedInsights
	err      error
	calls    int
}

func (f *fakeGenerator) GenerateInsights(ctx context.Context, industry string) (*models.GeneratedInsights, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.insights, nil
}

func sampleGenerated() *models.GeneratedInsights {
	return &models.GeneratedInsights{
		SalaryRanges: []models.SalaryRange{
			{Role: "Backend Engineer", Min: 90000, Max: 180000, Median: 130000, Location: "US"},
		},
		GrowthRate:        7.5,
		DemandLevel:       models.DemandHigh,
		TopSkills:         []string{"Go", "SQL"},
		MarketOutlook:     models.OutlookPositive,
		KeyTrends:         []string{"AI tooling"},
		RecommendedSkills: []string{"Kubernetes"},
	}
}

func insightsFixture(industry string, generator InsightGenerator, repo *fakeInsightRepo) (InsightsService, uuid.UUID) {
	userID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Industry: industry},
	}}
	return NewInsightsService(users, repo, generator, 7*24*time.Hour), userID
}

func TestGetInsightsRequiresIndustry(t *testing.T) {
	generator := &fakeGenerator{insights: sampleGenerated()}
	service, userID := insightsFixture("", generator, newFakeInsightRepo())

	_, err := service.GetInsights(context.Background(), userID)

	assert.ErrorIs(t, err, models.ErrIndustryNotSet)
	assert.Equal(t, 0, generator.calls)
}

func TestGetInsightsGeneratesOnFirstAccess(t *testing.T) {
	repo := newFakeInsightRepo()
	generator := &fakeGenerator{insights: sampleGenerated()}
	service, userID := insightsFixture("tech", generator, repo)

	insight, err := service.GetInsights(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "tech", insight.Industry)
	assert.Equal(t, models.DemandHigh, insight.DemandLevel)
	assert.Equal(t, 1, generator.calls)
	assert.True(t, insight.NextUpdate.After(time.Now().Add(6*24*time.Hour)))

	// Second access serves the cached record.
	_, err = service.GetInsights(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, generator.calls)
}

func TestGetInsightsServesWinnerAfterLosingCreateRace(t *testing.T) {
	repo := newFakeInsightRepo()
	winnerID := uuid.New()
	// The first lookup misses, then a concurrent request commits first and
	// the unique index rejects our insert.
	repo.findMisses = 1
	repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_industry_insights_industry"`)
	repo.byIndustry["tech"] = &models.IndustryInsight{
		ID:          winnerID,
		Industry:    "tech",
		DemandLevel: models.DemandHigh,
		NextUpdate:  time.Now().Add(time.Hour),
	}
	generator := &fakeGenerator{insights: sampleGenerated()}
	service, userID := insightsFixture("tech", generator, repo)

	insight, err := service.GetInsights(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, winnerID, insight.ID)
	assert.Equal(t, 1, generator.calls)
}

func TestGetInsightsRefreshesStaleRecord(t *testing.T) {
	repo := newFakeInsightRepo()
	repo.byIndustry["tech"] = &models.IndustryInsight{
		ID:          uuid.New(),
		Industry:    "tech",
		DemandLevel: models.DemandLow,
		NextUpdate:  time.Now().Add(-time.Hour),
	}
	generator := &fakeGenerator{insights: sampleGenerated()}
	service, userID := insightsFixture("tech", generator, repo)

	insight, err := service.GetInsights(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, generator.calls)
	assert.Equal(t, models.DemandHigh, insight.DemandLevel)
	assert.False(t, insight.IsStale(time.Now()))
}

func TestGetInsightsFallsBackToStaleOnRefreshFailure(t *testing.T) {
	repo := newFakeInsightRepo()
	staleID := uuid.New()
	repo.byIndustry["tech"] = &models.IndustryInsight{
		ID:          staleID,
		Industry:    "tech",
		DemandLevel: models.DemandMedium,
		NextUpdate:  time.Now().Add(-time.Hour),
	}
	generator := &fakeGenerator{err: errors.New("gemini unavailable")}
	service, userID := insightsFixture("tech", generator, repo)

	insight, err := service.GetInsights(context.Background(), userID)

	// The stale record is served, not an error.
	require.NoError(t, err)
	assert.Equal(t, staleID, insight.ID)
	assert.Equal(t, models.DemandMedium, insight.DemandLevel)
	assert.Equal(t, 0, repo.updates)
}

func TestGetInsightsFallsBackToStaleOnStoreFailure(t *testing.T) {
	repo := newFakeInsightRepo()
	repo.byIndustry["tech"] = &models.IndustryInsight{
		ID:          uuid.New(),
		Industry:    "tech",
		DemandLevel: models.DemandMedium,
		NextUpdate:  time.Now().Add(-time.Hour),
	}
	repo.updateErr = errors.New("db down")
	generator := &fakeGenerator{insights: sampleGenerated()}
	service, userID := insightsFixture("tech", generator, repo)

	insight, err := service.GetInsights(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, models.DemandMedium, insight.DemandLevel)
}

func TestGeminiInsightGeneratorParsesFencedJSON(t *testing.T) {
	gemini := &fakeGemini{response: "```json\n{\"growthRate\": 5.5, \"demandLevel\": \"HIGH\", \"topSkills\": [\"Go\"]}\n```"}
	generator := NewGeminiInsightGenerator(gemini, 1)

	insights, err := generator.GenerateInsights(context.Background(), "tech")
	require.NoError(t, err)

	assert.Equal(t, 5.5, insights.GrowthRate)
	assert.Equal(t, models.DemandHigh, insights.DemandLevel)
	assert.Equal(t, []string{"Go"}, insights.TopSkills)
}

func TestGeminiInsightGeneratorRejectsMalformedJSON(t *testing.T) {
	gemini := &fakeGemini{response: "sorry, I cannot help with that"}
	generator := NewGeminiInsightGenerator(gemini, 1)

	_, err := generator.GenerateInsights(context.Background(), "tech")
	assert.Error(t, err)
}
