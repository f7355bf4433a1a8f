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

const (
	baseLayout  = "layouts/base"
	moviesPage  = "pages/movies"
	moviePage   = "pages/movie"
	pageTitle   = "Movie Search"
	typeMovie   = string(domain.MovieTypeMovie)
	typeSeries  = string(domain.MovieTypeSeries)
	typeEpisode = string(domain.MovieTypeEpisode)
)

// PageConfig holds HTML view settings.
type PageConfig struct {
	MinQueryLength int
	Genres         []string
}

// PageHandler renders the HTML movie pages.
type PageHandler struct {
	movies    *service.MovieService
	popular   *service.PopularService
	validator *validator.Validator
	cfg       PageConfig
	logger    *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(
	movies *service.MovieService,
	popular *service.PopularService,
	v *validator.Validator,
	cfg PageConfig,
	logger *zap.Logger,
) *PageHandler {
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = 2
	}

	return &PageHandler{
		movies:    movies,
		popular:   popular,
		validator: v,
		cfg:       cfg,
		logger:    logger,
	}
}

// moviesView is the data of the movie list page.
type moviesView struct {
	Title        string
	Query        string
	Year         string
	Type         string
	Genre        string
	Genres       []string
	Types        []string
	Searching    bool
	Filtered     bool
	Movies       []domain.Movie
	TotalResults int
	Page         int
	NextPage     int
	PrevPage     int
	Error        string
}

// Index handles GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	return c.Redirect("/movies")
}

// Movies handles GET /movies
// Renders search results for a long enough query, the popular list otherwise.
func (h *PageHandler) Movies(c *fiber.Ctx) error {
	var req dto.BrowseRequest
	parseErr := c.QueryParser(&req)

	view := moviesView{
		Title:  pageTitle,
		Query:  req.Query,
		Year:   req.Year,
		Type:   req.Type,
		Genre:  req.Genre,
		Genres: h.cfg.Genres,
		Types:  []string{typeMovie, typeSeries, typeEpisode},
		Movies: []domain.Movie{},
	}

	if parseErr != nil {
		h.logger.Debug("invalid movie list query", zap.Error(parseErr))
		view.Error = "Invalid query parameters"
		return c.Status(fiber.StatusBadRequest).Render(moviesPage, view, baseLayout)
	}

	if err := h.validator.Validate(&req); err != nil {
		view.Error = err.Error()
		return c.Status(fiber.StatusBadRequest).Render(moviesPage, view, baseLayout)
	}

	if req.IsSearch(h.cfg.MinQueryLength) {
		return h.renderSearch(c, req, view)
	}

	return h.renderPopular(c, req, view)
}

func (h *PageHandler) renderSearch(c *fiber.Ctx, req dto.BrowseRequest, view moviesView) error {
	search := req.SearchRequest()
	query := search.ToSearchQuery()

	view.Searching = true
	view.Page = query.Page

	page, err := h.movies.Search(c.UserContext(), query)
	if err != nil {
		h.logger.Error("search page failed", zap.String("query", query.Term), zap.Error(err))
		view.Error = "Failed to search movies"
		return c.Status(fiber.StatusInternalServerError).Render(moviesPage, view, baseLayout)
	}

	view.Movies = page.Movies
	view.TotalResults = page.TotalResults
	if query.Page > 1 {
		view.PrevPage = query.Page - 1
	}
	// The provider serves ten hits per page.
	if query.Page*10 < page.TotalResults && query.Page < domain.MaxSearchPage {
		view.NextPage = query.Page + 1
	}

	return c.Render(moviesPage, view, baseLayout)
}

func (h *PageHandler) renderPopular(c *fiber.Ctx, req dto.BrowseRequest, view moviesView) error {
	popular := req.PopularRequest()
	filters := popular.ToFilters()

	view.Filtered = !filters.IsEmpty()

	result, err := h.popular.Popular(c.UserContext(), filters)
	if err != nil {
		h.logger.Error("popular page failed", zap.Error(err))
		view.Error = "Failed to fetch popular movies"
		return c.Status(fiber.StatusInternalServerError).Render(moviesPage, view, baseLayout)
	}

	view.Movies = result.Movies
	view.TotalResults = result.Total()

	return c.Render(moviesPage, view, baseLayout)
}

// Movie handles GET /movies/:id
func (h *PageHandler) Movie(c *fiber.Ctx) error {
	var req dto.DetailRequest
	if err := c.ParamsParser(&req); err != nil {
		return invalidMovieID(c)
	}

	if err := h.validator.Validate(&req); err != nil {
		return invalidMovieID(c)
	}

	movie, err := h.movies.Detail(c.UserContext(), req.ID, domain.PlotFull)
	if err != nil {
		status, msg := fiber.StatusInternalServerError, "Failed to fetch movie details"

		var rejected *domain.RejectedError
		if errors.As(err, &rejected) {
			status, msg = fiber.StatusNotFound, rejected.Message
		} else {
			h.logger.Error("movie page failed", zap.String("imdb_id", req.ID), zap.Error(err))
		}

		return c.Status(status).Render(moviePage, fiber.Map{
			"Title": pageTitle,
			"Error": msg,
		}, baseLayout)
	}

	return c.Render(moviePage, fiber.Map{
		"Title": movie.Title + " - " + pageTitle,
		"Movie": movie,
	}, baseLayout)
}

func invalidMovieID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).Render(moviePage, fiber.Map{
		"Title": pageTitle,
		"Error": "Invalid movie ID",
	}, baseLayout)
}
