package awards

import (
	"context"
	"testing"
	"time"

	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/pkg/logger"
)

type mockCache struct {
	entries map[string]string
	gets    int
	sets    int
	dels    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]string)}
}

func (m *mockCache) Get(_ context.Context, key string) (string, error) {
	m.gets++
	return m.entries[key], nil
}

func (m *mockCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.sets++
	m.entries[key] = value
	return nil
}

func (m *mockCache) Del(_ context.Context, keys ...string) error {
	m.dels++
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func setupLeaderboardEngine(c *mockCache) (*Engine, *mockAwardRepository, *mockVolunteerRepository) {
	awardRepo := newMockAwardRepository()
	criteriaRepo := newMockCriteriaRepository()
	volunteerRepo := newMockVolunteerRepository()
	stats := newMockStatsProvider()
	log := logger.New("debug", "text", "stdout")

	engine := NewEngineWithInterfaces(awardRepo, criteriaRepo, volunteerRepo, stats, c, nil, log)
	return engine, awardRepo, volunteerRepo
}

func grantAwards(t *testing.T, awardRepo *mockAwardRepository, volunteerID uint, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		award := models.Award{
			VolunteerID: volunteerID,
			BadgeName:   "badge",
			BadgeTier:   models.TierBronze,
			DateEarned:  time.Now(),
		}
		if err := awardRepo.Save(&award); err != nil {
			t.Fatalf("Failed to save award: %v", err)
		}
	}
}

func TestLeaderboard_RanksByAwardCount(t *testing.T) {
	engine, awardRepo, volunteerRepo := setupLeaderboardEngine(newMockCache())
	addVolunteer(volunteerRepo, 1, "Alice")
	addVolunteer(volunteerRepo, 2, "Bob")
	addVolunteer(volunteerRepo, 3, "Carol")

	grantAwards(t, awardRepo, 2, 5)
	grantAwards(t, awardRepo, 1, 3)
	grantAwards(t, awardRepo, 3, 1)

	entries, err := engine.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].VolunteerID != 2 || entries[0].Rank != 1 {
		t.Errorf("Expected volunteer 2 at rank 1, got volunteer %d at rank %d", entries[0].VolunteerID, entries[0].Rank)
	}
	if entries[0].Name != "Bob" {
		t.Errorf("Expected name resolved to Bob, got %q", entries[0].Name)
	}
	if entries[2].VolunteerID != 3 || entries[2].Rank != 3 {
		t.Errorf("Expected volunteer 3 at rank 3, got volunteer %d at rank %d", entries[2].VolunteerID, entries[2].Rank)
	}
}

func TestLeaderboard_TieBrokenByAscendingID(t *testing.T) {
	engine, awardRepo, volunteerRepo := setupLeaderboardEngine(newMockCache())
	addVolunteer(volunteerRepo, 4, "Dave")
	addVolunteer(volunteerRepo, 9, "Erin")

	grantAwards(t, awardRepo, 9, 2)
	grantAwards(t, awardRepo, 4, 2)

	entries, err := engine.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}

	if entries[0].VolunteerID != 4 {
		t.Errorf("Expected lower volunteer id 4 to win the tie, got %d", entries[0].VolunteerID)
	}
	if entries[1].VolunteerID != 9 {
		t.Errorf("Expected volunteer 9 second, got %d", entries[1].VolunteerID)
	}
}

func TestLeaderboard_AppliesLimit(t *testing.T) {
	engine, awardRepo, volunteerRepo := setupLeaderboardEngine(newMockCache())
	for id := uint(1); id <= 5; id++ {
		addVolunteer(volunteerRepo, id, "volunteer")
		grantAwards(t, awardRepo, id, int(id))
	}

	entries, err := engine.Leaderboard(context.Background(), 2)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestLeaderboard_CachesFullRanking(t *testing.T) {
	cache := newMockCache()
	engine, awardRepo, volunteerRepo := setupLeaderboardEngine(cache)
	addVolunteer(volunteerRepo, 1, "Alice")
	grantAwards(t, awardRepo, 1, 2)

	if _, err := engine.Leaderboard(context.Background(), 0); err != nil {
		t.Fatalf("First Leaderboard() failed: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("Expected 1 cache write, got %d", cache.sets)
	}

	// Second read is served from the cache without recounting.
	grantAwards(t, awardRepo, 1, 1)
	entries, err := engine.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("Second Leaderboard() failed: %v", err)
	}
	if entries[0].AwardCount != 2 {
		t.Errorf("Expected cached count 2, got %d", entries[0].AwardCount)
	}
}

func TestLeaderboard_InvalidatedByNewAward(t *testing.T) {
	cache := newMockCache()
	engine, awardRepo, volunteerRepo := setupLeaderboardEngine(cache)
	addVolunteer(volunteerRepo, 1, "Alice")
	grantAwards(t, awardRepo, 1, 2)

	if _, err := engine.Leaderboard(context.Background(), 0); err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}

	// A manual assignment drops the cached ranking.
	_, err := engine.AssignAward(context.Background(), &models.Award{
		VolunteerID: 1,
		BadgeName:   "Community Spirit",
		BadgeTier:   models.TierGold,
	})
	if err != nil {
		t.Fatalf("AssignAward() failed: %v", err)
	}

	entries, err := engine.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("Leaderboard() after invalidation failed: %v", err)
	}
	if entries[0].AwardCount != 3 {
		t.Errorf("Expected recomputed count 3, got %d", entries[0].AwardCount)
	}
}
