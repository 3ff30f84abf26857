package awards

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	leaderboardCacheKey = "vms:leaderboard:awards"
	leaderboardCacheTTL = time.Minute
)

// LeaderboardEntry is one row of the award leaderboard.
type LeaderboardEntry struct {
	VolunteerID uint   `json:"volunteer_id"`
	Name        string `json:"name"`
	AwardCount  int    `json:"award_count"`
	Rank        int    `json:"rank"`
}

// Leaderboard ranks volunteers by award count descending, ties broken by
// ascending volunteer id. The full ranking is cached; limit is applied after.
func (e *Engine) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if entries, ok := e.cachedLeaderboard(ctx); ok {
		return applyLimit(entries, limit), nil
	}

	counts, err := e.awardRepo.CountByVolunteer()
	if err != nil {
		return nil, fmt.Errorf("failed to count awards: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(counts))
	for _, c := range counts {
		entry := LeaderboardEntry{
			VolunteerID: c.VolunteerID,
			AwardCount:  c.AwardCount,
		}
		volunteer, err := e.volunteerRepo.FindByID(c.VolunteerID)
		if err != nil {
			e.log.Warn().Err(err).Uint("volunteer_id", c.VolunteerID).Msg("Failed to resolve volunteer for leaderboard")
		} else {
			entry.Name = volunteer.Name
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}

	e.storeLeaderboard(ctx, entries)
	return applyLimit(entries, limit), nil
}

func (e *Engine) cachedLeaderboard(ctx context.Context) ([]LeaderboardEntry, bool) {
	if e.cache == nil {
		return nil, false
	}
	raw, err := e.cache.Get(ctx, leaderboardCacheKey)
	if err != nil {
		e.log.Warn().Err(err).Msg("Leaderboard cache read failed")
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		e.log.Warn().Err(err).Msg("Leaderboard cache entry is corrupt")
		return nil, false
	}
	return entries, true
}

func (e *Engine) storeLeaderboard(ctx context.Context, entries []LeaderboardEntry) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, leaderboardCacheKey, string(raw), leaderboardCacheTTL); err != nil {
		e.log.Warn().Err(err).Msg("Leaderboard cache write failed")
	}
}

func (e *Engine) invalidateLeaderboard(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Del(ctx, leaderboardCacheKey); err != nil {
		e.log.Warn().Err(err).Msg("Leaderboard cache invalidation failed")
	}
}

func applyLimit(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
