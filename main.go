package main

import (
	"log"

	api "jobtrail-backend/cmd/api"
	authdomain "jobtrail-backend/internal/auth/domain"
	authRepo "jobtrail-backend/internal/auth/repository"
	authUsecase "jobtrail-backend/internal/auth/usecase"
	"jobtrail-backend/internal/email/classifier"
	emaildomain "jobtrail-backend/internal/email/domain"
	emailRepo "jobtrail-backend/internal/email/repository"
	emailUsecase "jobtrail-backend/internal/email/usecase"
	jobdomain "jobtrail-backend/internal/job/domain"
	jobRepo "jobtrail-backend/internal/job/repository"
	jobUsecase "jobtrail-backend/internal/job/usecase"
	"jobtrail-backend/internal/notification"
	"jobtrail-backend/pkg/config"
	"jobtrail-backend/pkg/database"
	"jobtrail-backend/pkg/fcm"
	"jobtrail-backend/pkg/gmail"
	"jobtrail-backend/pkg/imap"
	"jobtrail-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.FCMToken{},
		&jobdomain.Job{},
		&emaildomain.EmailEvent{},
		&emaildomain.MonitoringState{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	jobRepository := jobRepo.NewJobRepository(db)
	eventRepo := emailRepo.NewEmailEventRepository(db)
	stateRepo := emailRepo.NewMonitoringStateRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize mail providers
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	imapService := imap.NewService()

	// Initialize FCM Client (optional, notifications degrade to SSE only)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
			fcmClient = nil
		}
	} else {
		log.Println("[WARN] No Firebase credentials configured, FCM disabled")
	}

	// Initialize classifier, from an external rule file when configured
	var cls *classifier.Classifier
	if cfg.ClassifierRulesPath != "" {
		cls, err = classifier.NewFromFile(cfg.ClassifierRulesPath, cfg.ClassifierMinConfidence)
		if err != nil {
			log.Fatal("Failed to load classifier rules:", err)
		}
		log.Printf("Classifier rules loaded from %s", cfg.ClassifierRulesPath)
	} else {
		cls = classifier.New(cfg.ClassifierMinConfidence)
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, cfg)
	jobUsecaseInstance := jobUsecase.NewJobUsecase(jobRepository)
	monitorUsecaseInstance := emailUsecase.NewMonitorUsecase(
		eventRepo, stateRepo, jobRepository, userRepo,
		gmailService, imapService, cls, cfg,
	)

	// Wire the notification sink: reconciler outcomes go to SSE and FCM
	notifService := notification.NewService(sseManager, fcmClient, fcmTokenRepo)
	monitorUsecaseInstance.SetNotifier(notifService)

	// Restart monitoring loops that were active before the last shutdown
	if err := monitorUsecaseInstance.ResumeActiveLoops(); err != nil {
		log.Printf("[WARN] Failed to resume monitoring loops: %v", err)
	}
	defer monitorUsecaseInstance.Shutdown()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, jobUsecaseInstance, monitorUsecaseInstance, sseManager, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
