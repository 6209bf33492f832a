package main

import (
	"context"

	config "property-marketplace-backend/config"
	"property-marketplace-backend/seeds"
	"property-marketplace-backend/token"
	"property-marketplace-backend/utils"

	"property-marketplace-backend/middleware"

	// Repositories
	activities_repositories "property-marketplace-backend/activities/repositories"
	contracts_repositories "property-marketplace-backend/contracts/repositories"
	conversations_repositories "property-marketplace-backend/conversations/repositories"
	notifications_repositories "property-marketplace-backend/notifications/repositories"
	properties_repositories "property-marketplace-backend/properties/repositories"
	users_repositories "property-marketplace-backend/users/repositories"

	// Services
	activities_services "property-marketplace-backend/activities/services"
	contracts_services "property-marketplace-backend/contracts/services"
	conversations_services "property-marketplace-backend/conversations/services"
	documents_services "property-marketplace-backend/documents/services"
	notifications_services "property-marketplace-backend/notifications/services"
	payments_services "property-marketplace-backend/payments/services"

	// Routes
	activity_routes "property-marketplace-backend/activities/routes"
	contract_routes "property-marketplace-backend/contracts/routes"
	conversation_routes "property-marketplace-backend/conversations/routes"
	document_routes "property-marketplace-backend/documents/routes"
	notification_routes "property-marketplace-backend/notifications/routes"
	payment_routes "property-marketplace-backend/payments/routes"
	property_routes "property-marketplace-backend/properties/routes"
	user_routes "property-marketplace-backend/users/routes"

	// Background tasks
	"property-marketplace-backend/notifications/tasks"

	// WebSocket
	"property-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	err := godotenv.Load(".env")
	if err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}

	app := fiber.New()

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	port := config.GetEnv("PORT")
	ctx := context.Background()

	// Redis client shared by caching and session state
	redisAddr := config.GetEnv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default for development
		config.Logger.Warn("REDIS_ADDRESS not set, using default: localhost:6379")
	}

	redisClient := config.InitRedisServer(ctx)

	// Drop cached progress snapshots from the previous deployment; they are
	// re-derived on first read.
	utils.InvalidateCacheAsync(redisClient, "activity_progress")

	// Note: asynq.RedisClientOpt uses its own Redis client internally.
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenKey := config.GetEnv("TOKEN_SYMMETRIC_KEY")
	tokenMaker, err := token.NewPasetoMaker(tokenKey)
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	// Initialize the mailer
	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	// Date location
	if err := utils.InitializeDateLocation(); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	// ------ WebSocket Hub Initialization for Real-time Chat ------
	config.Logger.Info("Initializing WebSocket hub for real-time features...")
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Serve static files
	app.Static("/public", "./public")
	app.Static("/uploads", "./uploads")

	// Repositories
	userRepo := users_repositories.NewUserRepository(db)
	propertyRepo := properties_repositories.NewPropertyRepository(db)
	activityRepo := activities_repositories.NewActivityRepository(db)
	bookingRepo := activities_repositories.NewBookingViewRepository(db)
	contractRepo := contracts_repositories.NewContractRepository(db)
	conversationRepo := conversations_repositories.NewConversationRepository(db)
	notificationRepo := notifications_repositories.NewNotificationRepository(db)

	// Services
	fileStorage := utils.NewLocalFileStorage("./uploads")

	conflictPolicy := activities_services.ConflictPolicyOptimistic
	if config.GetEnv("SLOT_CONFLICT_POLICY") == "strict" {
		conflictPolicy = activities_services.ConflictPolicyStrict
	}
	guardService := activities_services.NewGuardService(activityRepo, conflictPolicy)
	progressService := activities_services.NewProgressService(activityRepo, redisClient)

	conversationService := conversations_services.NewConversationService(conversationRepo, propertyRepo, wsHub)
	notificationService := notifications_services.NewNotificationService(notificationRepo, userRepo, wsHub, asynqClient)

	contractService := contracts_services.NewContractService(
		contractRepo,
		"./templates",
		"./public/contracts",
		utils.RenderHTMLToPDF,
	)

	transitionService := activities_services.NewTransitionService(
		db,
		activityRepo,
		guardService,
		progressService,
		propertyRepo,
		notificationService,
		conversationService,
	)

	documentService := documents_services.NewDocumentService(db, activityRepo, fileStorage, notificationService, progressService)
	paymentService := payments_services.NewPaymentService(db, activityRepo, propertyRepo, contractService, notificationService, progressService)

	// Routes
	user_routes.InitUserRoutes(app, userRepo, ctx, redisClient, tokenMaker)

	appContext := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	activity_routes.InitActivityRoutes(app, appContext, transitionService, guardService, progressService, activityRepo, bookingRepo)
	document_routes.InitDocumentRoutes(app, appContext, documentService)
	payment_routes.InitPaymentRoutes(app, appContext, paymentService)
	contract_routes.InitContractRoutes(app, appContext, contractService, activityRepo)
	conversation_routes.InitConversationRoutes(app, appContext, conversationService)
	notification_routes.InitNotificationRoutes(app, appContext, notificationService)
	property_routes.InitPropertyRoutes(app, appContext, propertyRepo, db)

	// Create WebSocket handler with token validation
	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker, conversationService)
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	// Background worker for queued notification emails
	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{Concurrency: 5})
	asynqMux := asynq.NewServeMux()
	asynqMux.HandleFunc(tasks.TypeNotificationEmail, tasks.HandleNotificationEmailTask)
	go func() {
		if err := asynqServer.Run(asynqMux); err != nil {
			config.Logger.Error("Asynq worker stopped", zap.Error(err))
		}
	}()

	// Nightly sweep that expires stale pending requests
	expiryCron := transitionService.StartExpirySweep()
	defer expiryCron.Stop()

	// Demo data for development environments
	if config.GetEnv("SEED_DEMO_DATA") == "true" {
		if err := seeds.SeedDemoUsers(db); err != nil {
			config.Logger.Error("User seeding failed", zap.Error(err))
		} else if err := seeds.SeedDemoProperties(db); err != nil {
			config.Logger.Error("Property seeding failed", zap.Error(err))
		}
	}

	// Start the application
	config.Logger.Info("Server starting with WebSocket support", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
