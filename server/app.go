package server

import (
	"portal/config"
	"portal/middleware"
	authRoutes "portal/routers/authRoutes"
	courseRoutes "portal/routers/courseRoutes"
	dashboardRoutes "portal/routers/dashboardRoutes"
	jobRoutes "portal/routers/jobRoutes"
	quizRoutes "portal/routers/quizRoutes"
	superAdminRoutes "portal/routers/superAdmin"
	userProfileRoutes "portal/routers/userRoutes"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the HTTP application with every route group registered.
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      config.AppConfig.AppName,
		BodyLimit:    config.AppConfig.MaxImageSize + 1024*1024,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		ExposeHeaders:    "Content-Disposition",
		AllowCredentials: false,
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder and stored uploads
	app.Static("/", "./public")
	app.Static("/uploads", config.AppConfig.UploadDir)

	middleware.InitSessionStore()

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	jobRoutes.SetupJobRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	return app
}
