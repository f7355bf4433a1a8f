package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"movie-search-service/internal/app/service"
	"movie-search-service/internal/domain"
	"movie-search-service/internal/transport/httpserver/handler"
	"movie-search-service/internal/transport/httpserver/middleware"
	"movie-search-service/internal/validator"
)

// stubProvider answers from fixed maps; anything unknown is "not found".
type stubProvider struct {
	pages   map[string][]domain.Movie
	details map[string]domain.Movie
	down    bool
	panics  bool

	mu    sync.Mutex
	plots []domain.PlotLength
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(_ context.Context, q domain.SearchQuery) (*domain.SearchPage, error) {
	if p.panics {
		panic("corrupt state")
	}
	if p.down {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnavailable)
	}
	movies, ok := p.pages[q.Term]
	if !ok {
		return nil, &domain.RejectedError{Message: "Movie not found!"}
	}
	return &domain.SearchPage{Movies: movies, TotalResults: len(movies), Found: true}, nil
}

func (p *stubProvider) Detail(_ context.Context, id string, plot domain.PlotLength) (*domain.Movie, error) {
	p.mu.Lock()
	p.plots = append(p.plots, plot)
	p.mu.Unlock()

	if p.down {
		return nil, fmt.Errorf("%w: timeout", domain.ErrUpstreamUnavailable)
	}
	movie, ok := p.details[id]
	if !ok {
		return nil, &domain.RejectedError{Message: "Incorrect IMDb ID."}
	}
	return &movie, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var shawshank = domain.Movie{
	ID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994", Type: domain.MovieTypeMovie,
	Poster: domain.NotAvailable, Genre: "Drama", IMDBRating: "9.3", Plot: "Two imprisoned men bond.",
}

func newStub() *stubProvider {
	return &stubProvider{
		pages: map[string][]domain.Movie{
			"batman": {{ID: "tt0372784", Title: "Batman Begins", Year: "2005", Type: domain.MovieTypeMovie, Poster: domain.NotAvailable}},
			"popular": {
				{ID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994", Type: domain.MovieTypeMovie},
				{ID: "tt0068646", Title: "The Godfather", Year: "1972", Type: domain.MovieTypeMovie},
			},
			"drama": {{ID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994", Type: domain.MovieTypeMovie}},
		},
		details: map[string]domain.Movie{"tt0111161": shawshank},
	}
}

func newTestServer(t *testing.T, p *stubProvider, ready ...middleware.Pinger) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	movies := service.NewMovieService(p, nil, service.DefaultCacheTTLs(), logger)
	popular := service.NewPopularService(movies, nil, 0, service.DefaultPopularConfig(), logger)

	srv := NewServer(ServerConfig{
		TemplatesDir: "../../../web/templates",
		Pages:        handler.PageConfig{MinQueryLength: 2, Genres: []string{"Action", "Drama"}},
	}, movies, popular, validator.New(), logger, ready...)

	return srv.App
}

func get(t *testing.T, app *fiber.App, target string) (int, string, http.Header) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body), resp.Header
}

func TestAPI_Search(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		down       bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing query",
			target:     "/api/movies/search",
			wantStatus: fiber.StatusBadRequest,
			wantBody:   `{"error":"Query parameter is required","code":"MISSING_QUERY"}`,
		},
		{
			name:       "blank query",
			target:     "/api/movies/search?q=%20%20",
			wantStatus: fiber.StatusBadRequest,
			wantBody:   `{"error":"Query parameter is required","code":"MISSING_QUERY"}`,
		},
		{
			name:       "hits",
			target:     "/api/movies/search?q=batman",
			wantStatus: fiber.StatusOK,
			wantBody:   `{"Search":[{"imdbID":"tt0372784","Title":"Batman Begins","Year":"2005","Type":"movie","Poster":"N/A"}],"totalResults":"1","Response":"True"}`,
		},
		{
			name:       "not found",
			target:     "/api/movies/search?q=zzzzqqq",
			wantStatus: fiber.StatusOK,
			wantBody:   `{"Search":[],"totalResults":"0","Response":"False"}`,
		},
		{
			name:       "upstream down",
			target:     "/api/movies/search?q=batman",
			down:       true,
			wantStatus: fiber.StatusInternalServerError,
			wantBody:   `{"error":"Failed to search movies"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newStub()
			p.down = tt.down

			status, body, _ := get(t, newTestServer(t, p), tt.target)

			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestAPI_Search_Validation(t *testing.T) {
	status, body, _ := get(t, newTestServer(t, newStub()), "/api/movies/search?q=batman&type=documentary&y=89")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, `"code":"VALIDATION_ERROR"`)
	assert.Contains(t, body, `"field":"type"`)
	assert.Contains(t, body, `"field":"y"`)
}

func TestAPI_Detail(t *testing.T) {
	p := newStub()
	app := newTestServer(t, p)

	status, body, _ := get(t, app, "/api/movies/tt0111161")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"imdbID":"tt0111161"`)
	assert.Contains(t, body, `"imdbRating":"9.3"`)
	assert.Equal(t, []domain.PlotLength{domain.PlotFull}, p.plots)
}

func TestAPI_Detail_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		down       bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			target:     "/api/movies/tt9999999",
			wantStatus: fiber.StatusNotFound,
			wantBody:   `{"error":"Incorrect IMDb ID."}`,
		},
		{
			name:       "upstream down",
			target:     "/api/movies/tt0111161",
			down:       true,
			wantStatus: fiber.StatusInternalServerError,
			wantBody:   `{"error":"Failed to fetch movie details"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newStub()
			p.down = tt.down

			status, body, _ := get(t, newTestServer(t, p), tt.target)

			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestAPI_Detail_InvalidID(t *testing.T) {
	p := newStub()

	status, body, _ := get(t, newTestServer(t, p), "/api/movies/not-an-id")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "VALIDATION_ERROR")
	assert.Empty(t, p.plots)
}

func TestAPI_Popular(t *testing.T) {
	status, body, _ := get(t, newTestServer(t, newStub()), "/api/movies/popular")

	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"Search":[
		{"imdbID":"tt0111161","Title":"The Shawshank Redemption","Year":"1994","Type":"movie","Poster":""},
		{"imdbID":"tt0068646","Title":"The Godfather","Year":"1972","Type":"movie","Poster":""}
	],"totalResults":"2","Response":"True"}`, body)
}

func TestAPI_Popular_GenreEnriched(t *testing.T) {
	p := newStub()

	status, body, _ := get(t, newTestServer(t, p), "/api/movies/popular?genre=Drama")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"Genre":"Drama"`)
	assert.Contains(t, body, `"totalResults":"1"`)
	assert.NotContains(t, body, "tt0068646")
	for _, plot := range p.plots {
		assert.Equal(t, domain.PlotShort, plot)
	}
}

func TestAPI_Popular_TotalOutage(t *testing.T) {
	p := newStub()
	p.down = true

	status, body, _ := get(t, newTestServer(t, p), "/api/movies/popular?genre=Action")

	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"Search":[],"totalResults":"0","Response":"True"}`, body)
}

func TestAPI_Popular_AggregationFailure(t *testing.T) {
	p := newStub()
	p.panics = true

	status, body, _ := get(t, newTestServer(t, p), "/api/movies/popular")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Failed to fetch popular movies"}`, body)
}

func TestAPI_Popular_Validation(t *testing.T) {
	status, body, _ := get(t, newTestServer(t, newStub()), "/api/movies/popular?y=20x0")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "VALIDATION_ERROR")
}

func TestPages(t *testing.T) {
	app := newTestServer(t, newStub())

	status, _, header := get(t, app, "/")
	assert.Equal(t, fiber.StatusFound, status)
	assert.Equal(t, "/movies", header.Get(fiber.HeaderLocation))

	status, body, _ := get(t, app, "/movies")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Popular Movies")
	assert.Contains(t, body, "The Godfather")
	assert.Contains(t, body, `<option value="Drama"`)

	status, body, _ = get(t, app, "/movies?q=b")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Popular Movies")

	status, body, _ = get(t, app, "/movies?q=batman")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Found 1 results")
	assert.Contains(t, body, "Batman Begins")

	status, body, _ = get(t, app, "/movies?genre=Drama")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Filtered Popular Movies")
}

func TestPages_Movie(t *testing.T) {
	app := newTestServer(t, newStub())

	status, body, _ := get(t, app, "/movies/tt0111161")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "The Shawshank Redemption")
	assert.Contains(t, body, "Two imprisoned men bond.")
	assert.Contains(t, body, "No Image")

	status, body, _ = get(t, app, "/movies/tt9999999")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "Incorrect IMDb ID.")

	status, _, _ = get(t, app, "/movies/garbage")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestPages_InvalidQuery(t *testing.T) {
	p := newStub()

	status, body, _ := get(t, newTestServer(t, p), "/movies?q=batman&page=abc")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "Invalid query parameters")
	assert.NotContains(t, body, "Batman Begins")
}

func TestAPI_Search_InvalidParams(t *testing.T) {
	status, body, _ := get(t, newTestServer(t, newStub()), "/api/movies/search?q=batman&page=abc")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"invalid query parameters","code":"INVALID_PARAMS"}`, body)
}

func TestPages_Poster(t *testing.T) {
	p := newStub()
	godfather := shawshank
	godfather.ID, godfather.Title = "tt0068646", "The Godfather"
	godfather.Poster = "https://img.example.com/godfather.jpg"
	p.details[godfather.ID] = godfather
	p.pages["batman"] = []domain.Movie{{ID: "tt0372784", Title: "Batman Begins", Poster: "https://img.example.com/batman.jpg"}}
	app := newTestServer(t, p)

	status, body, _ := get(t, app, "/movies/tt0068646")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `<img src="https://img.example.com/godfather.jpg"`)
	assert.NotContains(t, body, "No Image")

	status, body, _ = get(t, app, "/movies?q=batman")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `<img src="https://img.example.com/batman.jpg"`)
}

func TestHealthAndMetrics(t *testing.T) {
	unreachable := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	app := newTestServer(t, newStub(), unreachable)

	status, _, _ := get(t, app, "/livez")
	assert.Equal(t, fiber.StatusOK, status)

	status, _, _ = get(t, app, "/readyz")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	get(t, app, "/api/movies/search?q=batman")

	status, body, _ := get(t, app, "/metrics")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "movie_search_http_requests_total")
	assert.Contains(t, body, `path="/api/movies/search"`)
}

func TestUnknownRoute(t *testing.T) {
	status, body, _ := get(t, newTestServer(t, newStub()), "/api/unknown")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "UNHANDLED_ERROR")
}
