// Package main runs the smart campus HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/config"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/assignments"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/attendance"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/auth"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/faculty"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/middleware"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/notifications"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/realtime"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/students"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/syllabus"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/timetable"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/database"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/queue"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/redis"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			SubmissionsBucket:    cfg.AWS.SubmissionsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	defer hub.Close()

	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Rosters
	studentRepo := students.NewRepository(pool)
	studentHandler := students.NewHandler(studentRepo)
	facultyRepo := faculty.NewRepository(pool)
	facultyHandler := faculty.NewHandler(facultyRepo)

	// Attendance (QR scan intake, finalize, queries)
	attendanceRepo := attendance.NewRepository(pool)
	scanBook := attendance.NewScanBook()
	attendanceHandler := attendance.NewHandler(attendanceRepo, studentRepo, scanBook, hub, logger)

	// Assignments (S3-backed submissions)
	assignmentRepo := assignments.NewRepository(pool)
	assignmentHandler := assignments.NewHandler(assignmentRepo, s3Client, logger)

	// Timetable and syllabus
	timetableRepo := timetable.NewRepository(pool)
	timetableHandler := timetable.NewHandler(timetableRepo)
	syllabusRepo := syllabus.NewRepository(pool)
	syllabusHandler := syllabus.NewHandler(syllabusRepo)

	// Notifications (live broadcast + queued dispatch)
	notificationRepo := notifications.NewRepository(pool)
	notificationHandler := notifications.NewHandler(notificationRepo, hub, jobQueue, logger)

	jwtValidate := func(token string) (userID, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID.String(), claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Students
		api.GET("/students", studentHandler.List)
		api.POST("/students", middleware.RequireRole("admin"), studentHandler.Create)
		api.GET("/students/:id", studentHandler.GetByID)
		api.PUT("/students/:id", middleware.RequireRole("admin"), studentHandler.Update)
		api.DELETE("/students/:id", middleware.RequireRole("admin"), studentHandler.Delete)

		// Faculty
		api.GET("/faculty", facultyHandler.List)
		api.POST("/faculty", middleware.RequireRole("admin"), facultyHandler.Create)
		api.GET("/faculty/:id", facultyHandler.GetByID)
		api.PUT("/faculty/:id", middleware.RequireRole("admin"), facultyHandler.Update)
		api.DELETE("/faculty/:id", middleware.RequireRole("admin"), facultyHandler.Delete)

		// Attendance
		api.POST("/attendance/qr-scans", attendanceHandler.SubmitScan)
		api.POST("/attendance/finalize", middleware.RequireRole("faculty", "admin"), attendanceHandler.Finalize)
		api.GET("/attendance/check", attendanceHandler.Check)
		api.GET("/attendance/by-date-subject", middleware.RequireRole("faculty", "admin"), attendanceHandler.ListByDateSubject)
		api.GET("/attendance/sessions/qr.png", middleware.RequireRole("faculty", "admin"), attendanceHandler.SessionQR)
		api.GET("/attendance/student/:id", attendanceHandler.StudentSummary)

		// Assignments
		api.GET("/assignments", assignmentHandler.List)
		api.POST("/assignments", middleware.RequireRole("faculty", "admin"), assignmentHandler.Create)
		api.GET("/assignments/:id", assignmentHandler.GetByID)
		api.DELETE("/assignments/:id", middleware.RequireRole("faculty", "admin"), assignmentHandler.Delete)
		api.POST("/assignments/:id/submissions/presign", assignmentHandler.PresignSubmission)
		api.GET("/assignments/:id/submissions", middleware.RequireRole("faculty", "admin"), assignmentHandler.ListSubmissions)
		api.GET("/assignments/submissions/:id/download", middleware.RequireRole("faculty", "admin"), assignmentHandler.SubmissionDownloadURL)
		api.POST("/assignments/submissions/:id/evaluate", middleware.RequireRole("faculty", "admin"), assignmentHandler.Evaluate)

		// Timetable
		api.GET("/timetable", timetableHandler.List)
		api.POST("/timetable", middleware.RequireRole("admin"), timetableHandler.Create)
		api.DELETE("/timetable/:id", middleware.RequireRole("admin"), timetableHandler.Delete)

		// Syllabus
		api.GET("/syllabus", syllabusHandler.List)
		api.POST("/syllabus", middleware.RequireRole("faculty", "admin"), syllabusHandler.Create)
		api.DELETE("/syllabus/:id", middleware.RequireRole("faculty", "admin"), syllabusHandler.Delete)

		// Notifications
		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications", middleware.RequireRole("faculty", "admin"), notificationHandler.Create)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
