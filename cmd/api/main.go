package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutorhive/tutorhive-api/api/swagger"
	"github.com/tutorhive/tutorhive-api/internal/handler"
	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/repository"
	"github.com/tutorhive/tutorhive-api/internal/service"
	"github.com/tutorhive/tutorhive-api/pkg/cache"
	"github.com/tutorhive/tutorhive-api/pkg/config"
	"github.com/tutorhive/tutorhive-api/pkg/database"
	"github.com/tutorhive/tutorhive-api/pkg/jobs"
	"github.com/tutorhive/tutorhive-api/pkg/logger"
	"github.com/tutorhive/tutorhive-api/pkg/mailer"
	corsmiddleware "github.com/tutorhive/tutorhive-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorhive/tutorhive-api/pkg/middleware/requestid"
)

// @title TutorHive API
// @version 1.0.0
// @description Tutoring marketplace booking API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(redisClient)

	notifications := service.NewNotificationService(mailer.NewSMTP(cfg.SMTP), metrics, logr, jobs.Config{
		Workers:    cfg.Notifications.WorkerConcurrency,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	})
	notifications.Start(ctx)
	defer notifications.Stop()

	waitlist := service.NewWaitlistService(waitlistRepo, cfg.Waitlist.KeyPrefix, metrics, logr)
	authService := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	bookingService := service.NewBookingService(lessonRepo, availabilityRepo, tutorRepo, userRepo, waitlist, notifications, validate, metrics, logr)
	lessonService := service.NewLessonService(lessonRepo)
	availabilityService := service.NewAvailabilityService(availabilityRepo, validate, logr)
	reviewService := service.NewReviewService(reviewRepo, tutorRepo, validate, logr)
	tutorService := service.NewTutorService(tutorRepo, subjectRepo, availabilityRepo)
	subjectService := service.NewSubjectService(subjectRepo)

	authHandler := handler.NewAuthHandler(authService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	lessonHandler := handler.NewLessonHandler(lessonService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	tutorHandler := handler.NewTutorHandler(tutorService, lessonService, reviewService)
	subjectHandler := handler.NewSubjectHandler(subjectService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	api.GET("/subjects", subjectHandler.List)
	api.GET("/tutors", tutorHandler.List)
	api.GET("/tutors/search", tutorHandler.Search)
	api.GET("/tutors/:id", tutorHandler.Get)
	api.GET("/tutors/:id/reviews", tutorHandler.Reviews)
	api.GET("/tutors/:id/availabilities", availabilityHandler.List)

	auth := api.Group("", middleware.Auth(authService))
	auth.GET("/lessons", lessonHandler.List)
	auth.GET("/lessons/:id", lessonHandler.Get)
	auth.GET("/tutors/:id/lessons", tutorHandler.Lessons)

	auth.POST("/bookings", middleware.RequireRoles(models.RoleStudent), bookingHandler.Create)
	auth.PUT("/bookings/:id", bookingHandler.Modify)
	auth.DELETE("/bookings/:id", bookingHandler.Delete)

	auth.PUT("/tutors/:id/availabilities", middleware.RequireRoles(models.RoleTutor), availabilityHandler.Replace)

	auth.POST("/reviews", middleware.RequireRoles(models.RoleStudent), reviewHandler.Create)
	auth.PUT("/reviews/:id", middleware.RequireRoles(models.RoleStudent), reviewHandler.Update)
	auth.POST("/reviews/:id/response", middleware.RequireRoles(models.RoleTutor), reviewHandler.Respond)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown error", "error", err)
	}
}
