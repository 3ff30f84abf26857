package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fstgc/vms/internal/api/attendance"
	"github.com/fstgc/vms/internal/api/awards"
	"github.com/fstgc/vms/internal/api/timesheets"
	"github.com/fstgc/vms/internal/cache"
	"github.com/fstgc/vms/internal/config"
	"github.com/fstgc/vms/internal/notify"
	"github.com/fstgc/vms/internal/repository"
	attendancesvc "github.com/fstgc/vms/internal/service/attendance"
	awardssvc "github.com/fstgc/vms/internal/service/awards"
	"github.com/fstgc/vms/internal/service/hours"
	"github.com/fstgc/vms/internal/service/scheduler"
	timesheetssvc "github.com/fstgc/vms/internal/service/timesheets"
	"github.com/fstgc/vms/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("VMS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	log.Info().
		Int("port", cfg.Server.Port).
		Str("environment", cfg.Server.Environment).
		Msg("Starting volunteer management service")

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Redis is optional. Without it the leaderboard is computed on every request.
	var leaderboardCache cache.Cache
	var redisCache *cache.Redis
	if cfg.Database.Redis.Host != "" {
		redisCache, err = cache.NewRedis(&cfg.Database.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, leaderboard caching disabled")
		} else {
			leaderboardCache = redisCache
		}
	}

	var notifier notify.Notifier
	if cfg.Notifications.Enabled {
		notifier = notify.NewWebhook(&cfg.Notifications, log)
	}

	// Repositories
	volunteerRepo := repository.NewVolunteerRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	awardRepo := repository.NewAwardRepository(db)
	criteriaRepo := repository.NewCriteriaRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)

	// Services
	aggregator := hours.NewAggregator(attendanceRepo)
	awardEngine := awardssvc.NewEngine(awardRepo, criteriaRepo, volunteerRepo, aggregator, leaderboardCache, notifier, log)
	timesheetService := timesheetssvc.NewService(timesheetRepo, attendanceRepo, log)
	attendanceService := attendancesvc.NewService(attendanceRepo, eventRepo, volunteerRepo, timesheetService, awardEngine, log)

	if cfg.Awards.SeedDefaultCatalog {
		if err := awardEngine.SeedDefaultCriteria(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed badge criteria")
		}
	}

	// Handlers
	awardsHandler := awards.NewHandler(awardEngine, aggregator, log)
	timesheetsHandler := timesheets.NewHandler(timesheetService, log)
	attendanceHandler := attendance.NewHandler(attendanceService, log)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, db, awardsHandler, timesheetsHandler, attendanceHandler)

	schedulerService := scheduler.NewService(cfg, volunteerRepo, awardEngine, log)
	if err := schedulerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	schedulerService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis")
		}
	}

	log.Info().Msg("Server stopped")
}

// setupRouter registers all API routes.
func setupRouter(
	cfg *config.Config,
	db *repository.DB,
	awardsHandler *awards.Handler,
	timesheetsHandler *timesheets.Handler,
	attendanceHandler *attendance.Handler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/attendance/check-in", attendanceHandler.CheckIn)
		v1.POST("/attendance/:id/check-out", attendanceHandler.CheckOut)
		v1.POST("/attendance", attendanceHandler.RecordFull)
		v1.PUT("/attendance/:id/status", attendanceHandler.UpdateStatus)
		v1.DELETE("/attendance/:id", attendanceHandler.Delete)

		v1.POST("/awards", awardsHandler.AssignAward)
		v1.GET("/awards/featured", awardsHandler.GetFeaturedAwards)
		v1.GET("/awards/tier/:tier", awardsHandler.GetAwardsByTier)
		v1.PUT("/awards/:id/featured", awardsHandler.SetFeatured)
		v1.GET("/leaderboard", awardsHandler.GetLeaderboard)

		v1.POST("/timesheets/generate", timesheetsHandler.Generate)
		v1.POST("/timesheets/event", timesheetsHandler.SubmitForEvent)
		v1.GET("/timesheets/pending", timesheetsHandler.GetPendingApprovals)
		v1.POST("/timesheets/:id/approve", timesheetsHandler.Approve)
		v1.POST("/timesheets/:id/reject", timesheetsHandler.Reject)
		v1.PUT("/timesheets/:id", timesheetsHandler.Update)
		v1.DELETE("/timesheets/:id", timesheetsHandler.Delete)

		v1.GET("/volunteers/:id/attendance", attendanceHandler.GetVolunteerAttendance)
		v1.GET("/volunteers/:id/awards", awardsHandler.GetVolunteerAwards)
		v1.POST("/volunteers/:id/awards/check", awardsHandler.CheckAwards)
		v1.GET("/volunteers/:id/timesheets", timesheetsHandler.GetVolunteerTimesheets)
	}

	return router
}
