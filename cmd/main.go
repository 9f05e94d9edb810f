package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/sportshive/chat"
	"github.com/Dosada05/sportshive/config"
	"github.com/Dosada05/sportshive/db"
	"github.com/Dosada05/sportshive/handlers"
	"github.com/Dosada05/sportshive/jobs"
	"github.com/Dosada05/sportshive/realtime"
	"github.com/Dosada05/sportshive/repositories"
	api "github.com/Dosada05/sportshive/routes"
	"github.com/Dosada05/sportshive/services"
	"github.com/Dosada05/sportshive/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.RunMigrations {
		if err := db.Migrate(dbConn); err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Хранилище файлов необязательно: без бакета загрузка аватаров и логотипов отключена.
	var uploader storage.FileUploader
	if cfg.Storage.Enabled() {
		uploader, err = storage.NewS3Uploader(context.Background(), storage.S3UploaderConfig{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			BucketName:      cfg.Storage.Bucket,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize S3 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("S3 uploader initialized", slog.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Warn("S3 bucket not configured, file uploads are disabled")
	}

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub(logger.With(slog.String("component", "ws_hub")))
	go wsHub.Run(appCtx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	transactor := repositories.NewPostgresTransactor(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	invitationRepo := repositories.NewPostgresInvitationRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	connectionRepo := repositories.NewPostgresConnectionRepository(dbConn)
	maintenanceRepo := repositories.NewPostgresMaintenanceRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	notificationService := services.NewNotificationService(connectionRepo, invitationRepo, wsHub, logger)
	authService := services.NewAuthService(userRepo)
	profileService := services.NewProfileService(profileRepo, userRepo, teamRepo, connectionRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, invitationRepo, transactor, notificationService, uploader, logger)
	invitationService := services.NewInvitationService(invitationRepo, teamRepo, profileRepo, transactor, notificationService, uploader)
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, transactor, uploader, logger)
	connectionService := services.NewConnectionService(connectionRepo, userRepo, profileRepo, transactor, notificationService, uploader)
	chatClient := chat.NewClient(chat.Config{
		APIURL: cfg.Chat.APIURL,
		APIKey: cfg.Chat.APIKey,
		Model:  cfg.Chat.Model,
	})
	chatService := services.NewChatService(chatClient, tournamentRepo, logger)
	cleanupService := services.NewCleanupService(maintenanceRepo, logger)
	if cfg.Chat.APIKey == "" {
		logger.Warn("CHAT_API_KEY not set, chat function will answer with an error")
	}
	logger.Info("services initialized")

	// Планировщик фоновых задач
	scheduler, err := jobs.NewScheduler(logger.With(slog.String("component", "scheduler")))
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	if _, err := jobs.RegisterCleanupJob(scheduler, cleanupService, cfg.Jobs.CleanupSchedule); err != nil {
		logger.Error("failed to register cleanup job", slog.Any("error", err))
		os.Exit(1)
	}
	if _, err := jobs.RegisterStatusRefreshJob(scheduler, tournamentService, cfg.Jobs.StatusSchedule); err != nil {
		logger.Error("failed to register status refresh job", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Profile:      handlers.NewProfileHandler(profileService),
		Team:         handlers.NewTeamHandler(teamService),
		Invitation:   handlers.NewInvitationHandler(invitationService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Connection:   handlers.NewConnectionHandler(connectionService),
		Notification: handlers.NewNotificationHandler(notificationService, wsHub, cfg.CORSAllowedOrigins, logger),
		Function:     handlers.NewFunctionHandler(chatService, cleanupService, cfg.Jobs.CleanupToken),
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, h, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера.
	// WriteTimeout больше таймаута чата, чтобы прокси успевал ответить.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: chat.DefaultTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			exitCode = 1
		} else {
			logger.Info("server shutdown complete")
		}
	}

	if err := scheduler.Stop(); err != nil {
		logger.Error("failed to stop scheduler", slog.Any("error", err))
	}
	stopApp()

	logger.Info("application exited")
	if exitCode != 0 {
		// defer не выполнится после os.Exit, поэтому соединение закрываем явно.
		dbConn.Close()
		os.Exit(exitCode)
	}
}
