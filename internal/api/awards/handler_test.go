//nolint:noctx // Test file uses http.NewRequest for simplicity
package awards

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/internal/service/awards"
	"github.com/fstgc/vms/internal/service/hours"
	"github.com/fstgc/vms/pkg/logger"
)

// Mock Award Service
type mockAwardService struct {
	awards      map[uint][]models.Award
	leaderboard []awards.LeaderboardEntry
	assignErr   error
	nextID      uint
}

func newMockAwardService() *mockAwardService {
	return &mockAwardService{awards: make(map[uint][]models.Award), nextID: 1}
}

func (m *mockAwardService) CheckAndAssignAutomaticAwards(ctx context.Context, volunteerID uint) ([]models.Award, error) {
	return m.awards[volunteerID], nil
}

func (m *mockAwardService) AssignAward(ctx context.Context, award *models.Award) (*models.Award, error) {
	if m.assignErr != nil {
		return nil, m.assignErr
	}
	award.ID = m.nextID
	m.nextID++
	award.DateEarned = time.Now()
	m.awards[award.VolunteerID] = append(m.awards[award.VolunteerID], *award)
	return award, nil
}

func (m *mockAwardService) AwardsByVolunteer(ctx context.Context, volunteerID uint) ([]models.Award, error) {
	return m.awards[volunteerID], nil
}

func (m *mockAwardService) AwardsByTier(ctx context.Context, tier models.BadgeTier) ([]models.Award, error) {
	if !models.ValidBadgeTier(tier) {
		return nil, apperrors.Validationf("badge tier %q is not valid", tier)
	}
	var result []models.Award
	for _, list := range m.awards {
		for _, a := range list {
			if a.BadgeTier == tier {
				result = append(result, a)
			}
		}
	}
	return result, nil
}

func (m *mockAwardService) FeaturedAwards(ctx context.Context) ([]models.Award, error) {
	var result []models.Award
	for _, list := range m.awards {
		for _, a := range list {
			if a.Featured {
				result = append(result, a)
			}
		}
	}
	return result, nil
}

func (m *mockAwardService) SetFeatured(ctx context.Context, awardID uint, featured bool) (*models.Award, error) {
	for volunteerID, list := range m.awards {
		for i := range list {
			if list[i].ID == awardID {
				m.awards[volunteerID][i].Featured = featured
				a := m.awards[volunteerID][i]
				return &a, nil
			}
		}
	}
	return nil, apperrors.NotFound("award", awardID)
}

func (m *mockAwardService) Leaderboard(ctx context.Context, limit int) ([]awards.LeaderboardEntry, error) {
	entries := m.leaderboard
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Mock Stats Service
type mockStatsService struct {
	stats map[uint]hours.Stats
}

func newMockStatsService() *mockStatsService {
	return &mockStatsService{stats: make(map[uint]hours.Stats)}
}

func (m *mockStatsService) StatsFor(ctx context.Context, volunteerID uint) (hours.Stats, error) {
	return m.stats[volunteerID], nil
}

// Test Setup
func setupTestHandler() (*Handler, *mockAwardService, *mockStatsService) {
	awardService := newMockAwardService()
	statsService := newMockStatsService()
	log := logger.New("debug", "text", "stdout")

	handler := NewHandlerWithInterfaces(awardService, statsService, log)

	return handler, awardService, statsService
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api/v1")
	api.POST("/awards", handler.AssignAward)
	api.GET("/awards/featured", handler.GetFeaturedAwards)
	api.GET("/awards/tier/:tier", handler.GetAwardsByTier)
	api.PUT("/awards/:id/featured", handler.SetFeatured)
	api.GET("/leaderboard", handler.GetLeaderboard)
	api.GET("/volunteers/:id/awards", handler.GetVolunteerAwards)
	api.POST("/volunteers/:id/awards/check", handler.CheckAwards)

	return router
}

// Tests

func TestAssignAward_Success(t *testing.T) {
	handler, _, _ := setupTestHandler()
	router := setupRouter(handler)

	body, _ := json.Marshal(map[string]interface{}{
		"volunteer_id": 1,
		"badge_name":   "Community Spirit",
		"badge_tier":   "gold",
	})
	req, _ := http.NewRequest("POST", "/api/v1/awards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response, "award")
}

func TestAssignAward_InvalidBody(t *testing.T) {
	handler, _, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("POST", "/api/v1/awards", bytes.NewReader([]byte(`{"badge_name":"X"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignAward_DuplicateConflict(t *testing.T) {
	handler, awardService, _ := setupTestHandler()
	router := setupRouter(handler)

	awardService.assignErr = &apperrors.DuplicateAwardError{VolunteerID: 1, CriteriaID: 3}

	body, _ := json.Marshal(map[string]interface{}{
		"volunteer_id": 1,
		"badge_name":   "First Steps",
		"badge_tier":   "bronze",
		"criteria_id":  3,
	})
	req, _ := http.NewRequest("POST", "/api/v1/awards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignAward_UnknownVolunteer(t *testing.T) {
	handler, awardService, _ := setupTestHandler()
	router := setupRouter(handler)

	awardService.assignErr = apperrors.NotFound("volunteer", 99)

	body, _ := json.Marshal(map[string]interface{}{
		"volunteer_id": 99,
		"badge_name":   "First Steps",
		"badge_tier":   "bronze",
	})
	req, _ := http.NewRequest("POST", "/api/v1/awards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVolunteerAwards_Success(t *testing.T) {
	handler, awardService, statsService := setupTestHandler()
	router := setupRouter(handler)

	awardService.awards[1] = []models.Award{
		{ID: 1, VolunteerID: 1, BadgeName: "First Steps", BadgeTier: models.TierBronze},
	}
	statsService.stats[1] = hours.Stats{TotalHours: 45.5, EventCount: 6}

	req, _ := http.NewRequest("GET", "/api/v1/volunteers/1/awards", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), response["total_awards"])
	assert.Equal(t, 45.5, response["total_hours"])
	assert.Equal(t, float64(6), response["event_count"])
}

func TestGetVolunteerAwards_InvalidID(t *testing.T) {
	handler, _, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("GET", "/api/v1/volunteers/abc/awards", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAwards_Success(t *testing.T) {
	handler, awardService, _ := setupTestHandler()
	router := setupRouter(handler)

	awardService.awards[1] = []models.Award{
		{ID: 1, VolunteerID: 1, BadgeName: "First Steps", BadgeTier: models.TierBronze},
		{ID: 2, VolunteerID: 1, BadgeName: "Event Enthusiast", BadgeTier: models.TierBronze},
	}

	req, _ := http.NewRequest("POST", "/api/v1/volunteers/1/awards/check", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(2), response["total_granted"])
}

func TestGetAwardsByTier_Invalid(t *testing.T) {
	handler, _, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("GET", "/api/v1/awards/tier/diamond", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLeaderboard_Success(t *testing.T) {
	handler, awardService, _ := setupTestHandler()
	router := setupRouter(handler)

	awardService.leaderboard = []awards.LeaderboardEntry{
		{VolunteerID: 2, Name: "Bob", AwardCount: 5, Rank: 1},
		{VolunteerID: 1, Name: "Alice", AwardCount: 3, Rank: 2},
	}

	req, _ := http.NewRequest("GET", "/api/v1/leaderboard?limit=10", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(2), response["total_entries"])
}

func TestGetLeaderboard_InvalidLimit(t *testing.T) {
	handler, _, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("GET", "/api/v1/leaderboard?limit=0", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetFeatured_Success(t *testing.T) {
	handler, awardService, _ := setupTestHandler()
	router := setupRouter(handler)

	awardService.awards[1] = []models.Award{
		{ID: 7, VolunteerID: 1, BadgeName: "Elite Volunteer", BadgeTier: models.TierGold},
	}

	body, _ := json.Marshal(map[string]interface{}{"featured": true})
	req, _ := http.NewRequest("PUT", "/api/v1/awards/7/featured", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, awardService.awards[1][0].Featured)
}
