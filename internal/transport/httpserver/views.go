package httpserver

import (
	"strings"

	"github.com/gofiber/template/html/v2"

	"movie-search-service/internal/domain"
)

// newViews creates the HTML template engine with the view helpers.
func newViews(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)

	engine.AddFunc("available", available)
	engine.AddFunc("typeLabel", typeLabel)

	return engine
}

// available reports whether a provider value is present.
func available(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != domain.NotAvailable
}

func typeLabel(t domain.MovieType) string {
	switch t {
	case domain.MovieTypeMovie:
		return "Feature Film"
	case domain.MovieTypeSeries:
		return "TV Series"
	case domain.MovieTypeEpisode:
		return "TV Episode"
	default:
		return "Entertainment"
	}
}
