package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gradus/internal/agenda"
	membus "gradus/internal/bus/memory"
	redisbus "gradus/internal/bus/redis"
	"gradus/internal/config"
	"gradus/internal/email/noop"
	"gradus/internal/email/ses"
	"gradus/internal/handler"
	"gradus/internal/port"
	"gradus/internal/repository/postgres"
	"gradus/internal/router"
	"gradus/internal/service"
	s3storage "gradus/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	groupRepo := postgres.NewGroupRepo(db)
	setRepo := postgres.NewProposalSetRepo(db)
	thesisRepo := postgres.NewThesisRepo(db)
	chapterRepo := postgres.NewChapterRepo(db)
	requirementRepo := postgres.NewRequirementRepo(db)
	notificationRepo := postgres.NewNotificationRepo(db)
	agendaRepo := postgres.NewAgendaRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Event bus: Redis when an address is configured, otherwise the
	// in-process bus.
	var bus port.EventBus
	if cfg.Redis.Addr != "" {
		bus, err = redisbus.NewBus(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	} else {
		bus = membus.NewBus()
	}
	defer bus.Close()

	var emailSender port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	resolver := agenda.NewResolver(agenda.Policy{HeadNotesOptional: cfg.Review.HeadNotesOptional})
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	notificationSvc := service.NewNotificationService(notificationRepo, bus)
	groupSvc := service.NewGroupService(groupRepo, userRepo, notificationSvc)
	thesisSvc := service.NewThesisService(thesisRepo, groupRepo)
	proposalSvc := service.NewProposalService(setRepo, groupRepo, agendaRepo, userRepo, resolver, notificationSvc, thesisSvc, emailSender)
	progressSvc := service.NewProgressService(thesisRepo, chapterRepo, requirementRepo, groupRepo, userRepo, s3Client, &cfg.S3, notificationSvc)
	agendaSvc := service.NewAgendaService(agendaRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc, userSvc)
	userH := handler.NewUserHandler(userSvc)
	groupH := handler.NewGroupHandler(groupSvc)
	proposalH := handler.NewProposalHandler(proposalSvc)
	thesisH := handler.NewThesisHandler(thesisSvc, progressSvc)
	agendaH := handler.NewAgendaHandler(agendaSvc)
	notificationH := handler.NewNotificationHandler(notificationSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, userH, groupH, proposalH, thesisH, agendaH, notificationH, healthH)

	// WriteTimeout stays unset: notification streams hold their
	// connection open indefinitely.
	srv := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
