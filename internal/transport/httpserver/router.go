// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"movie-search-service/internal/app/service"
	"movie-search-service/internal/transport/httpserver/dto"
	"movie-search-service/internal/transport/httpserver/handler"
	"movie-search-service/internal/transport/httpserver/middleware"
	"movie-search-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	AppName      string
	BodyLimit    int
	Debug        bool
	TemplatesDir string
	StaticDir    string
	CORSOrigins  []string
	Pages        handler.PageConfig
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// ready lists the dependencies probed by /readyz.
func NewServer(
	cfg ServerConfig,
	movieSvc *service.MovieService,
	popularSvc *service.PopularService,
	v *validator.Validator,
	logger *zap.Logger,
	ready ...middleware.Pinger,
) *Server {
	if cfg.AppName == "" {
		cfg.AppName = "movie-search-service"
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "./web/templates"
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        newViews(cfg.TemplatesDir, cfg.Debug),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(ready...))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins...))
	app.Use(compress.New())

	if cfg.StaticDir != "" {
		app.Static("/static", cfg.StaticDir)
	}

	movieHandler := handler.NewMovieHandler(movieSvc, popularSvc, v, logger)
	pageHandler := handler.NewPageHandler(movieSvc, popularSvc, v, cfg.Pages, logger)

	registerRoutes(app, movieHandler, pageHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all routes.
func registerRoutes(
	app *fiber.App,
	movieHandler *handler.MovieHandler,
	pageHandler *handler.PageHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// HTML
	app.Get("/", pageHandler.Index)
	app.Get("/movies", pageHandler.Movies)
	app.Get("/movies/:id", pageHandler.Movie)

	// JSON API; static segments are registered before :id
	movies := app.Group("/api/movies")
	movies.Get("/search", movieHandler.Search)
	movies.Get("/popular", movieHandler.Popular)
	movies.Get("/:id", movieHandler.Detail)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: message,
			Code:  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
