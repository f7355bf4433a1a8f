// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"movie-search-service/internal/app/service"
	"movie-search-service/internal/domain"
	"movie-search-service/internal/transport/httpserver/dto"
	"movie-search-service/internal/validator"
)

// MovieHandler serves the JSON movie API.
type MovieHandler struct {
	movies    *service.MovieService
	popular   *service.PopularService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(
	movies *service.MovieService,
	popular *service.PopularService,
	v *validator.Validator,
	logger *zap.Logger,
) *MovieHandler {
	return &MovieHandler{
		movies:    movies,
		popular:   popular,
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/movies/search
func (h *MovieHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}

	if !req.HasQuery() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Query parameter is required",
			Code:  "MISSING_QUERY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	page, err := h.movies.Search(c.UserContext(), req.ToSearchQuery())
	if err != nil {
		h.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to search movies",
		})
	}

	return c.JSON(dto.FromSearchPage(page))
}

// Popular handles GET /api/movies/popular
func (h *MovieHandler) Popular(c *fiber.Ctx) error {
	var req dto.PopularRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.popular.Popular(c.UserContext(), req.ToFilters())
	if err != nil {
		h.logger.Error("popular list failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to fetch popular movies",
		})
	}

	return c.JSON(dto.FromPopularResult(result))
}

// Detail handles GET /api/movies/:id
func (h *MovieHandler) Detail(c *fiber.Ctx) error {
	var req dto.DetailRequest
	if err := c.ParamsParser(&req); err != nil {
		return invalidParams(c)
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	movie, err := h.movies.Detail(c.UserContext(), req.ID, domain.PlotFull)
	if err != nil {
		var rejected *domain.RejectedError
		if errors.As(err, &rejected) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: rejected.Message,
			})
		}

		h.logger.Error("movie detail failed", zap.String("imdb_id", req.ID), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to fetch movie details",
		})
	}

	return c.JSON(movie)
}

func invalidParams(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: "invalid query parameters",
		Code:  "INVALID_PARAMS",
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: err,
	})
}
