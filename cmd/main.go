package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/hireready/hireready/config"
	"github.com/hireready/hireready/database"
	interviewctrl "github.com/hireready/hireready/internal/controller/interview"
	paymentctrl "github.com/hireready/hireready/internal/controller/payment"
	phonectrl "github.com/hireready/hireready/internal/controller/phone"

	"github.com/hireready/hireready/internal/calendar"
	"github.com/hireready/hireready/internal/logger"
	"github.com/hireready/hireready/internal/model"
	"github.com/hireready/hireready/internal/payment"
	"github.com/hireready/hireready/internal/repository"
	"github.com/hireready/hireready/internal/service"
	"github.com/hireready/hireready/internal/session"
	"github.com/hireready/hireready/internal/telephony"
)

// @title HireReady Mock Interview API
// @version 1.0
// @description AI-driven mock interviews: question generation, proctored live sessions, feedback scoring, phone interviews and payments.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			database.NewRedisClient,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewInterviewRepository,
			repository.NewAnswerRepository,
			repository.NewSessionRepository,
		),

		// Services
		fx.Provide(
			service.NewGeminiLLMService,
			service.NewInterviewService,
			service.NewFeedbackService,
			service.NewPerformanceService,
			service.NewPhoneFeedbackService,
			session.NewManager,
			service.NewSessionService,
		),

		// Scheduling and telephony
		fx.Provide(
			calendar.NewGoogleEventStore,
			calendar.NewRedisProcessedSet,
			telephony.NewTokenService,
			telephony.NewClient,
			telephony.NewRedisCallStore,
			telephony.NewFlow,
			func(feedback service.PhoneFeedbackService) telephony.CompletionSink {
				return feedback
			},
			payment.NewService,
			func(store calendar.EventStore, processed calendar.ProcessedSet, caller *telephony.Client) *calendar.Scheduler {
				return calendar.NewScheduler(store, processed, caller)
			},
		),

		// Controllers
		fx.Provide(
			interviewctrl.NewInterviewController,
			interviewctrl.NewSessionController,
			interviewctrl.NewPerformanceController,
			interviewctrl.NewMentorController,
			phonectrl.NewPhoneController,
			phonectrl.NewWebhookController,
			paymentctrl.NewPaymentController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartScheduler),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	interviewCtrl *interviewctrl.InterviewController,
	sessionCtrl *interviewctrl.SessionController,
	performanceCtrl *interviewctrl.PerformanceController,
	mentorCtrl *interviewctrl.MentorController,
	phoneCtrl *phonectrl.PhoneController,
	webhookCtrl *phonectrl.WebhookController,
	paymentCtrl *paymentctrl.PaymentController,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/interviews", interviewCtrl.CreateInterview)
		api.GET("/interviews", interviewCtrl.ListInterviews)
		api.GET("/interviews/:id", interviewCtrl.GetInterview)
		api.DELETE("/interviews/:id", interviewCtrl.DeleteInterview)
		api.POST("/interviews/:id/sessions", sessionCtrl.StartSession)

		api.GET("/sessions/:id", sessionCtrl.GetSessionState)
		api.POST("/sessions/:id/transcript", sessionCtrl.PushTranscript)
		api.POST("/sessions/:id/samples", sessionCtrl.PushSample)
		api.POST("/sessions/:id/answers", sessionCtrl.SubmitAnswer)
		api.POST("/sessions/:id/advance", sessionCtrl.AdvanceQuestion)
		api.POST("/sessions/:id/end", sessionCtrl.EndSession)
		api.GET("/sessions/:id/result", sessionCtrl.GetSessionResult)
		api.POST("/sessions/:id/feedback", sessionCtrl.GenerateFeedback)

		api.GET("/users/:user_id/performance", performanceCtrl.GetUserPerformance)

		api.POST("/mentor/chat", mentorCtrl.Chat)

		api.POST("/phone/schedule", phoneCtrl.ScheduleInterview)
		api.GET("/phone/schedule/:user_id", phoneCtrl.ListUpcoming)
		api.DELETE("/phone/schedule/:event_id", phoneCtrl.CancelInterview)
		api.POST("/phone/token", phoneCtrl.GenerateToken)
		api.POST("/phone/calls", phoneCtrl.InitiateCall)
		api.GET("/phone/feedback/:call_sid", phoneCtrl.GetCallFeedback)

		api.POST("/payments/orders", paymentCtrl.CreateOrder)
		api.POST("/payments/verify", paymentCtrl.VerifyPayment)
	}

	// Provider webhooks live outside the versioned API; the provider posts
	// form-encoded bodies and expects voice-script XML back.
	webhooks := router.Group("/phone/webhook")
	{
		webhooks.POST("/voice", webhookCtrl.Voice)
		webhooks.POST("/process-answer", webhookCtrl.ProcessAnswer)
		webhooks.POST("/status", webhookCtrl.Status)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("HireReady API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartScheduler runs the calendar poller for the life of the process.
func StartScheduler(lc fx.Lifecycle, scheduler *calendar.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Interview{},
		&model.Question{},
		&model.UserAnswer{},
		&model.SessionRecord{},
		&model.Feedback{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully")
	return nil
}
