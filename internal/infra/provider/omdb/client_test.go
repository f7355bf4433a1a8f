package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"movie-search-service/internal/domain"
	"movie-search-service/internal/infra/provider"
)

const testEndpoint = "https://omdb.example.com/"

func newTestClient(retries int) *Client {
	cfg := provider.ClientConfig{
		BaseURL: "https://omdb.example.com",
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
		Retry: provider.RetryConfig{
			MaxAttempts: retries,
			WaitTime:    10 * time.Millisecond,
			MaxWaitTime: 50 * time.Millisecond,
		},
		CB: provider.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, zap.NewNop())

	// Activate httpmock for this client's HTTP transport
	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func mockSearchResponse() SearchResponse {
	return SearchResponse{
		Search: []SearchItem{
			{Title: "Batman Begins", Year: "2005", IMDBID: "tt0372784", Type: "movie", Poster: "https://img.example.com/1.jpg"},
			{Title: "The Batman", Year: "2022", IMDBID: "tt1877830", Type: "movie", Poster: "N/A"},
		},
		TotalResults: "541",
		Response:     "True",
	}
}

func mockDetailResponse() DetailResponse {
	return DetailResponse{
		Title:      "Batman Begins",
		Year:       "2005",
		Genre:      "Action, Crime, Drama",
		Director:   "Christopher Nolan",
		Actors:     "Christian Bale, Michael Caine",
		Plot:       "After witnessing his parents' death...",
		Runtime:    "140 min",
		IMDBRating: "8.2",
		IMDBID:     "tt0372784",
		Type:       "movie",
		Ratings:    []RatingItem{{Source: "Internet Movie Database", Value: "8.2/10"}},
		Response:   "True",
	}
}

// TestOMDB_Search_Success tests successful search fetch and parse.
func TestOMDB_Search_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", testEndpoint,
		map[string]string{"apikey": "test-key", "s": "batman"},
		httpmock.NewJsonResponderOrPanic(200, mockSearchResponse()))

	client := newTestClient(0)
	page, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman", Page: 1})

	require.NoError(t, err)
	assert.True(t, page.Found)
	assert.Equal(t, 541, page.TotalResults)
	require.Len(t, page.Movies, 2)

	assert.Equal(t, "tt0372784", page.Movies[0].ID)
	assert.Equal(t, "Batman Begins", page.Movies[0].Title)
	assert.Equal(t, "2005", page.Movies[0].Year)
	assert.Equal(t, domain.MovieTypeMovie, page.Movies[0].Type)
	assert.Empty(t, page.Movies[0].Genre, "summaries carry no detail fields")
	assert.Equal(t, "tt1877830", page.Movies[1].ID)
}

// TestOMDB_Search_PassesFilters verifies year, type and page are forwarded.
func TestOMDB_Search_PassesFilters(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", testEndpoint,
		map[string]string{"apikey": "test-key", "s": "comedy", "y": "2020", "type": "series", "page": "3"},
		httpmock.NewJsonResponderOrPanic(200, mockSearchResponse()))

	client := newTestClient(0)
	_, err := client.Search(context.Background(), domain.SearchQuery{
		Term: "comedy",
		Year: "2020",
		Type: domain.MovieTypeSeries,
		Page: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

// TestOMDB_Search_Rejected tests the failure envelope.
func TestOMDB_Search_Rejected(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, SearchResponse{Response: "False", Error: "Movie not found!"}))

	client := newTestClient(0)
	page, err := client.Search(context.Background(), domain.SearchQuery{Term: "zzzz"})

	require.Error(t, err)
	assert.Nil(t, page)

	var rejected *domain.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Movie not found!", rejected.Message)
	assert.NotErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

// TestOMDB_Search_MissingList treats a body without a hit list as rejected.
func TestOMDB_Search_MissingList(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, `{}`))

	client := newTestClient(0)
	_, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})

	require.Error(t, err)
	assert.True(t, domain.IsRejected(err))
}

// TestOMDB_Search_HTTPError tests status error handling.
func TestOMDB_Search_HTTPError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"401 Unauthorized", 401},
		{"429 Too Many Requests", 429},
		{"500 Internal Server Error", 500},
		{"503 Service Unavailable", 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("GET", testEndpoint,
				httpmock.NewStringResponder(tt.statusCode, `{"Response":"False","Error":"Error"}`))

			client := newTestClient(0)
			page, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})

			require.Error(t, err)
			assert.Nil(t, page)
			assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.statusCode))
		})
	}
}

// TestOMDB_Search_NetworkError tests network error handling.
func TestOMDB_Search_NetworkError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewErrorResponder(errors.New("network error: connection refused")))

	client := newTestClient(0)
	page, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})

	require.Error(t, err)
	assert.Nil(t, page)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "omdb search")
}

// TestOMDB_Detail_Success tests detail fetch and parse.
func TestOMDB_Detail_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", testEndpoint,
		map[string]string{"apikey": "test-key", "i": "tt0372784"},
		httpmock.NewJsonResponderOrPanic(200, mockDetailResponse()))

	client := newTestClient(0)
	movie, err := client.Detail(context.Background(), "tt0372784", domain.PlotShort)

	require.NoError(t, err)
	assert.Equal(t, "tt0372784", movie.ID)
	assert.Equal(t, "Action, Crime, Drama", movie.Genre)
	assert.Equal(t, "8.2", movie.IMDBRating)
	assert.Equal(t, "Christopher Nolan", movie.Director)
	assert.Equal(t, []domain.Rating{{Source: "Internet Movie Database", Value: "8.2/10"}}, movie.Ratings)
}

// TestOMDB_Detail_FullPlot verifies plot=full is only sent when requested.
func TestOMDB_Detail_FullPlot(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", testEndpoint,
		map[string]string{"apikey": "test-key", "i": "tt0372784", "plot": "full"},
		httpmock.NewJsonResponderOrPanic(200, mockDetailResponse()))

	client := newTestClient(0)
	_, err := client.Detail(context.Background(), "tt0372784", domain.PlotFull)

	require.NoError(t, err)
}

// TestOMDB_Detail_Rejected tests the failure envelope for an unknown ID.
func TestOMDB_Detail_Rejected(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, DetailResponse{Response: "False", Error: "Incorrect IMDb ID."}))

	client := newTestClient(0)
	movie, err := client.Detail(context.Background(), "tt0000000", domain.PlotShort)

	require.Error(t, err)
	assert.Nil(t, movie)

	var rejected *domain.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Incorrect IMDb ID.", rejected.Message)
}

// TestOMDB_ContextCancellation tests context cancellation handling.
func TestOMDB_ContextCancellation(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	// Mock a slow response
	httpmock.RegisterResponder("GET", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			time.Sleep(200 * time.Millisecond)

			return httpmock.NewJsonResponse(200, mockSearchResponse())
		})

	client := newTestClient(0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	page, err := client.Search(ctx, domain.SearchQuery{Term: "batman"})

	require.Error(t, err)
	assert.Nil(t, page)
}

// TestOMDB_CircuitBreaker_Opens tests that CB opens after repeated failures.
func TestOMDB_CircuitBreaker_Opens(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(500, "Internal Server Error"))

	client := newTestClient(0)

	for i := 0; i < 5; i++ {
		_, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})
		require.Error(t, err)
	}

	// CB should be open now - next request should fail immediately
	calls := httpmock.GetTotalCallCount()
	_, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, calls, httpmock.GetTotalCallCount(), "open breaker must not reach the network")
}

// TestOMDB_CircuitBreaker_IgnoresRejections verifies "not found" answers do not trip the breaker.
func TestOMDB_CircuitBreaker_IgnoresRejections(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, SearchResponse{Response: "False", Error: "Movie not found!"}))

	client := newTestClient(0)

	for i := 0; i < 10; i++ {
		_, err := client.Search(context.Background(), domain.SearchQuery{Term: "nothing"})
		require.True(t, domain.IsRejected(err))
	}

	assert.Equal(t, 10, httpmock.GetTotalCallCount())
}

// TestOMDB_NoRetryByDefault verifies a single attempt per call when retries are off.
func TestOMDB_NoRetryByDefault(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(500, "Server Error"))

	client := newTestClient(0)
	_, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})

	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

// TestOMDB_Retry_Succeeds tests the optional transport retry.
func TestOMDB_Retry_Succeeds(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	callCount := 0
	httpmock.RegisterResponder("GET", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			callCount++
			if callCount < 3 {
				return httpmock.NewStringResponse(500, "Server Error"), nil
			}

			return httpmock.NewJsonResponse(200, mockSearchResponse())
		})

	client := newTestClient(2)
	page, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})

	require.NoError(t, err)
	assert.Len(t, page.Movies, 2)
	assert.Equal(t, 3, callCount, "Should retry twice and succeed on 3rd attempt")
}

// TestOMDB_Name tests the Name method.
func TestOMDB_Name(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient(0)
	assert.Equal(t, "omdb", client.Name())
}

// TestLimiter_ZeroValueNeverBlocks verifies a disabled limiter passes through.
func TestLimiter_ZeroValueNeverBlocks(t *testing.T) {
	limiter := provider.NewLimiter(provider.RateLimitConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, limiter.Wait(ctx))
}

// TestOMDB_RateLimited verifies the limiter gates outbound calls.
func TestOMDB_RateLimited(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockSearchResponse()))

	client := newTestClient(0)
	client.limiter = provider.NewLimiter(provider.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})

	_, err := client.Search(context.Background(), domain.SearchQuery{Term: "batman"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Search(ctx, domain.SearchQuery{Term: "batman"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
