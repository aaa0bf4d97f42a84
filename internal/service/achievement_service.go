package service

import (
	"context"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"
)

// --- Service Interface ---

// AchievementService exposes the user's unlocked achievements. Unlocking is
// driven externally by consumers of session events; this module only reads
// the ledger.
type AchievementService interface {
	ListUnlocked(ctx context.Context, caller Caller) ([]domain.Achievement, error)
}

// --- Service Implementation ---

type achievementService struct {
	achievementRepo repository.AchievementRepository
}

// NewAchievementService creates a new instance of achievementService.
func NewAchievementService(achievementRepo repository.AchievementRepository) AchievementService {
	return &achievementService{achievementRepo: achievementRepo}
}

// ListUnlocked returns the caller's achievements, most recent first.
func (s *achievementService) ListUnlocked(ctx context.Context, caller Caller) ([]domain.Achievement, error) {
	return s.achievementRepo.ListUnlockedByOwner(ctx, caller.ID)
}
