package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/gymhub/internal/config"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/handler"
	"github.com/mansoorceksport/gymhub/internal/middleware"
	"github.com/mansoorceksport/gymhub/internal/repository"
	"github.com/mansoorceksport/gymhub/internal/service"
	"github.com/mansoorceksport/gymhub/internal/telemetry"
	"github.com/mansoorceksport/gymhub/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	// ImageStore is optional; gym image uploads are rejected without it
	ImageStore domain.ImageStore
	Logger     logger.Logger
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	// Repositories
	cache := repository.NewRedisCacheRepository(deps.RedisClient)
	userRepo := repository.NewCachedUserRepository(
		repository.NewMongoUserRepository(deps.MongoDB), cache, deps.Config.Cache.UserTTL)
	notificationRepo := repository.NewCachedNotificationRepository(
		repository.NewMongoNotificationRepository(deps.MongoDB), cache, deps.Config.Cache.NotificationsTTL)
	gymRepo := repository.NewMongoGymRepository(deps.MongoDB)
	workoutRepo := repository.NewMongoWorkoutPlanRepository(deps.MongoDB)
	dietRepo := repository.NewMongoDietPlanRepository(deps.MongoDB)
	macroRepo := repository.NewMongoMacroLogRepository(deps.MongoDB)
	bodyRepo := repository.NewMongoBodyProgressRepository(deps.MongoDB)

	// Services
	authz := service.NewAuthorizer(userRepo, gymRepo)
	tokenService := service.NewTokenService(deps.Config.JWT)
	membershipService := service.NewMembershipService(authz, gymRepo, userRepo, deps.ImageStore, log)
	programService := service.NewProgramService(authz, workoutRepo, dietRepo, log)
	progressService := service.NewProgressService(authz, macroRepo, bodyRepo)
	notificationService := service.NewNotificationService(authz, notificationRepo, log)

	// Handlers
	ownerHandler := handler.NewOwnerHandler(membershipService, notificationService, deps.Config.Server.MaxUploadSizeMB, log)
	trainerHandler := handler.NewTrainerHandler(membershipService, programService, notificationService, log)
	customerHandler := handler.NewCustomerHandler(programService, progressService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	app := fiber.New(fiber.Config{
		AppName:      "GymHub API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler(log),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "gymhub",
		})
	})

	v1 := app.Group("/v1")
	v1.Use(middleware.VerifyToken(tokenService))
	v1.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Config.Server.IdempotencyTTL))

	// ===========================================
	// OWNER API - /v1/owner/*
	// ===========================================
	owner := v1.Group("/owner", middleware.AuthorizeRole(domain.RoleOwner))

	gyms := owner.Group("/gyms")
	gyms.Post("/", ownerHandler.CreateGym)
	gyms.Get("/", ownerHandler.ListGyms)
	gyms.Put("/:id", ownerHandler.UpdateGym)
	gyms.Delete("/:id", ownerHandler.DeleteGym)
	gyms.Post("/:id/images", ownerHandler.UploadGymImage)

	owner.Post("/trainers", ownerHandler.AddTrainer)
	owner.Get("/trainers", ownerHandler.ListTrainers)
	owner.Delete("/trainers/:id", ownerHandler.RemoveTrainer)

	owner.Post("/members", ownerHandler.AddMember)
	owner.Get("/members", ownerHandler.ListMembers)
	owner.Delete("/members/:id", ownerHandler.RemoveMember)

	// ===========================================
	// TRAINER API - /v1/trainer/*
	// ===========================================
	trainer := v1.Group("/trainer", middleware.AuthorizeRole(domain.RoleTrainer))

	trainer.Get("/members", trainerHandler.ListMembers)
	trainer.Get("/members/:id/programs", trainerHandler.GetPrograms)

	workoutPlans := trainer.Group("/workout-plans")
	workoutPlans.Post("/", trainerHandler.UpsertWorkoutPlan)
	workoutPlans.Get("/:userId", trainerHandler.GetWorkoutPlan)
	workoutPlans.Put("/:userId", trainerHandler.UpdateWorkoutPlan)
	workoutPlans.Delete("/:userId", trainerHandler.DeleteWorkoutPlan)

	dietPlans := trainer.Group("/diet-plans")
	dietPlans.Post("/", trainerHandler.UpsertDietPlan)
	dietPlans.Get("/:userId", trainerHandler.GetDietPlan)
	dietPlans.Put("/:userId", trainerHandler.UpdateDietPlan)
	dietPlans.Delete("/:userId", trainerHandler.DeleteDietPlan)

	// ===========================================
	// CUSTOMER API - /v1/customer/*
	// ===========================================
	customer := v1.Group("/customer", middleware.AuthorizeRole(domain.RoleCustomer))

	customer.Get("/workout-plan", customerHandler.GetWorkoutPlan)
	customer.Get("/diet-plan", customerHandler.GetDietPlan)

	macroLogs := customer.Group("/macro-logs")
	macroLogs.Post("/", customerHandler.CreateMacroLog)
	macroLogs.Get("/", customerHandler.ListMacroLogs)
	macroLogs.Put("/:id", customerHandler.UpdateMacroLog)
	macroLogs.Delete("/:id", customerHandler.DeleteMacroLog)

	bodyProgress := customer.Group("/body-progress")
	bodyProgress.Post("/", customerHandler.CreateBodyProgress)
	bodyProgress.Get("/", customerHandler.ListBodyProgress)
	bodyProgress.Put("/:id", customerHandler.UpdateBodyProgress)
	bodyProgress.Delete("/:id", customerHandler.DeleteBodyProgress)

	// ===========================================
	// NOTIFICATIONS - /v1/notifications/* (any role)
	// ===========================================
	notifications := v1.Group("/notifications")
	notifications.Get("/", notificationHandler.ListUnread)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	return app
}

// customErrorHandler renders errors that escape a handler, such as routing
// misses and body-limit rejections, in the same shape handlers use.
func customErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(handler.ErrorResponse{
				Error: fe.Message,
				Code:  "HTTP_ERROR",
			})
		}

		mapped := handler.MapErrorToHTTP(err)
		if mapped.StatusCode >= fiber.StatusInternalServerError {
			log.InternalError("unhandled error", err, "path", c.Path())
		}
		return c.Status(mapped.StatusCode).JSON(mapped.Body)
	}
}
