// Package http содержит HTTP сервер каталога фильмов.
package http

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"filmorate/internal/filmorate/adapters/http/handlers"
	"filmorate/internal/filmorate/adapters/http/middleware"
	"filmorate/internal/filmorate/ports/api"
	"filmorate/pkg/logger"
)

// Options - параметры HTTP приложения.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *logger.Logger
	// Metrics включает учет запросов и маршрут /metrics. Может быть nil.
	Metrics      *middleware.Metrics
}

// Services - сценарии использования, обслуживаемые HTTP API.
type Services struct {
	Users        api.UserUseCase
	Films        api.FilmUseCase
	Dictionaries api.DictionaryUseCase
}

// NewApp создает приложение fiber с настроенными маршрутами и обработчиком ошибок.
func NewApp(opts Options, services Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler,
	})
	SetupRouter(app, opts.Logger, opts.Metrics, services)
	return app
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, log *logger.Logger, metrics *middleware.Metrics, services Services) {
	userHandler := handlers.NewUserHandler(services.Users)
	filmHandler := handlers.NewFilmHandler(services.Films)
	dictionaryHandler := handlers.NewDictionaryHandler(services.Dictionaries)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestContextMiddleware(log))
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	if metrics != nil {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}

	users := app.Group("/users")
	users.Post("/", userHandler.Create)
	users.Put("/", userHandler.Update)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Delete("/:id", userHandler.Delete)
	users.Get("/:id/friends", userHandler.ListFriends)
	users.Get("/:id/friends/common/:otherId", userHandler.CommonFriends)
	users.Put("/:id/friends/:friendId", userHandler.AddFriend)
	users.Delete("/:id/friends/:friendId", userHandler.DeleteFriend)

	films := app.Group("/films")
	films.Post("/", filmHandler.Create)
	films.Put("/", filmHandler.Update)
	films.Get("/", filmHandler.List)
	// popular регистрируется раньше /:id.
	films.Get("/popular", filmHandler.Popular)
	films.Get("/:id", filmHandler.Get)
	films.Delete("/:id", filmHandler.Delete)
	films.Put("/:id/like/:userId", filmHandler.AddLike)
	films.Delete("/:id/like/:userId", filmHandler.DeleteLike)

	genres := app.Group("/genres")
	genres.Get("/", dictionaryHandler.ListGenres)
	genres.Get("/:id", dictionaryHandler.GetGenre)

	mpa := app.Group("/mpa")
	mpa.Get("/", dictionaryHandler.ListMpa)
	mpa.Get("/:id", dictionaryHandler.GetMpa)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
