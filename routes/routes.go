package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "whosnight/controllers"
	"whosnight/middleware"
	"whosnight/utils"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db, log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile))

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	auth.Post("/login", middleware.LoginRateLimiter(), authController.Login)
	auth.Post("/refresh", authController.Refresh)

	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", authController.Me)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, mailer *utils.Mailer) {
	audit := utils.NewActionLogger(db, log.New(os.Stdout, "AUDIT: ", log.LstdFlags))
	approval := utils.NewApproval(db, audit, log.New(os.Stdout, "APPROVAL: ", log.LstdFlags))

	assignmentController := controller.NewAssignmentController(db, audit, approval, log.New(os.Stdout, "ASSIGNMENT: ", log.LstdFlags))
	eventController := controller.NewEventController(db, audit, approval, log.New(os.Stdout, "EVENT: ", log.LstdFlags))
	taskController := controller.NewTaskController(db, audit, approval, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	expenseController := controller.NewExpenseController(db, audit, approval, log.New(os.Stdout, "EXPENSE: ", log.LstdFlags))
	pendingController := controller.NewPendingController(db, approval, log.New(os.Stdout, "PENDING: ", log.LstdFlags))
	historyController := controller.NewHistoryController(db, audit, approval, log.New(os.Stdout, "HISTORY: ", log.LstdFlags))
	permissionController := controller.NewPermissionController(db, audit, log.New(os.Stdout, "PERMISSION: ", log.LstdFlags))
	familyController := controller.NewFamilyController(db, audit, mailer, log.New(os.Stdout, "FAMILY: ", log.LstdFlags))
	shareLinkController := controller.NewShareLinkController(db, audit, log.New(os.Stdout, "SHARE: ", log.LstdFlags))

	api := app.Group("/api", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Calendar assignment routes
	assignments := api.Group("/calendar/assignments")
	assignments.Post("/", assignmentController.CreateOrUpdate)
	assignments.Get("/", assignmentController.List)
	assignments.Put("/:id/status", assignmentController.UpdateStatus)

	// Event routes
	events := api.Group("/events")
	events.Post("/", eventController.Create)
	events.Get("/", eventController.List)
	events.Get("/:id", eventController.Detail)
	events.Put("/:id/status", eventController.UpdateStatus)

	// Task routes
	tasks := api.Group("/tasks")
	tasks.Post("/", taskController.Create)
	tasks.Get("/", taskController.List)
	tasks.Put("/:id/status", taskController.UpdateStatus)
	tasks.Put("/:id/complete", taskController.Complete)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.Post("/", expenseController.Create)
	expenses.Get("/", expenseController.List)
	expenses.Put("/:id/status", expenseController.UpdateStatus)

	// Review and audit routes
	api.Get("/pending", pendingController.GetPending)
	api.Post("/accept-all", pendingController.AcceptAll)
	api.Get("/history/:entityType/:entityId", historyController.EntityHistory)
	api.Get("/my-requests", historyController.MyRequests)
	api.Post("/undo/:logId", middleware.UndoRateLimiter(), historyController.Undo)

	// Teen permission routes
	api.Get("/permissions/:teenId", permissionController.Get)
	api.Put("/permissions/:teenId", middleware.ParentOnly(), permissionController.Update)

	// Family invitation routes
	api.Post("/family/invitations", middleware.ParentOnly(), familyController.CreateInvitation)
	api.Post("/family/invitations/use", familyController.UseInvitation)

	// Share link routes
	api.Post("/share-links", shareLinkController.Create)
	app.Get("/share/:token", shareLinkController.Get)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB, mailer *utils.Mailer) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db, mailer)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
