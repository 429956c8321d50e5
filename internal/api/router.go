package api

import (
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"course-service/internal/service"
)

type Services struct {
	Auth   service.AuthService
	User   service.UserService
	Course service.CourseService
}

// NewApp builds the fiber application with every route and middleware.
func NewApp(serviceName string, services Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(PrometheusMiddleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the REST API project!"})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": serviceName})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	SetupRoutes(app, services)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Route Not Found"})
	})

	return app
}

func SetupRoutes(app *fiber.App, services Services) {
	userHandler := NewUserHandler(services.User)
	courseHandler := NewCourseHandler(services.Course)
	authenticate := BasicAuthMiddleware(services.Auth)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Get("/", authenticate, userHandler.GetCurrentUser)
	users.Post("/", userHandler.CreateUser)

	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", authenticate, courseHandler.CreateCourse)
	courses.Put("/:id", authenticate, courseHandler.UpdateCourse)
	courses.Delete("/:id", authenticate, courseHandler.DeleteCourse)
}
