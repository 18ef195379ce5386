package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"uptrack/career-coach/internal/models"
	"uptrack/career-coach/internal/repositories"
)

// ImproveService rewrites a single resume section with AI, parameterized by
// the user's industry.
type ImproveService interface {
	Improve(ctx context.Context, userID uuid.UUID, current, sectionType string) (string, error)
}

type improveService struct {
	userRepo      repositories.UserRepository
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewImproveService(userRepo repositories.UserRepository, gemini GeminiService, maxRetries int) ImproveService {
	return &improveService{
		userRepo:      userRepo,
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// Improve validates its inputs before any external call and treats an empty
// model response as a failure, never a silent no-op.
func (s *improveService) Improve(ctx context.Context, userID uuid.UUID, current, sectionType string) (string, error) {
	if strings.TrimSpace(current) == "" {
		return "", fmt.Errorf("%w: content is required", models.ErrInvalidInput)
	}
	if strings.TrimSpace(sectionType) == "" {
		return "", fmt.Errorf("%w: section type is required", models.ErrInvalidInput)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	industry := strings.TrimSpace(user.Industry)
	if industry == "" {
		industry = "general"
	}

	prompt := s.promptBuilder.BuildImprovePrompt(current, sectionType, industry)
	improved, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.4, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to improve content: %w", err)
	}

	improved = strings.TrimSpace(improved)
	if improved == "" {
		return "", models.ErrEmptyAIResponse
	}
	return improved, nil
}
