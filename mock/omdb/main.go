package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

//go:embed data.json
var jsonData []byte

const pageSize = 10

type record map[string]any

func (r record) str(key string) string {
	s, _ := r[key].(string)
	return s
}

func main() {
	var records []record
	if err := json.Unmarshal(jsonData, &records); err != nil {
		log.Fatalf("[Mock OMDB] invalid data.json: %v", err)
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		q := r.URL.Query()
		var body any
		switch {
		case q.Get("apikey") == "":
			w.WriteHeader(http.StatusUnauthorized)
			body = failure("No API key provided.")
		case q.Get("i") != "":
			body = detail(records, q.Get("i"), q.Get("plot"))
		case q.Get("s") != "":
			body = search(records, q.Get("s"), q.Get("y"), q.Get("type"), q.Get("page"))
		default:
			body = failure("Incorrect IMDb ID.")
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Printf("[Mock OMDB] Write error: %v", err)
		}

		log.Printf("[Mock OMDB] %s %s?%s", r.Method, r.URL.Path, r.URL.RawQuery)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Mock OMDB] Health write error: %v", err)
		}
	})

	log.Println("Mock OMDB running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func failure(msg string) map[string]string {
	return map[string]string{"Response": "False", "Error": msg}
}

func detail(records []record, id, plot string) any {
	for _, rec := range records {
		if rec.str("imdbID") != id {
			continue
		}

		out := record{"Response": "True"}
		for k, v := range rec {
			out[k] = v
		}
		if plot != "full" {
			if p := rec.str("Plot"); len(p) > 80 {
				if cut := strings.LastIndex(p[:80], " "); cut > 0 {
					out["Plot"] = p[:cut] + "..."
				}
			}
		}
		return out
	}
	return failure("Incorrect IMDb ID.")
}

// search matches the term against title, genre and plot, like a loose full-text index.
func search(records []record, term, year, typ, page string) any {
	term = strings.ToLower(term)

	hits := make([]map[string]string, 0)
	for _, rec := range records {
		text := strings.ToLower(rec.str("Title") + " " + rec.str("Genre") + " " + rec.str("Plot") + " " + rec.str("Year"))
		if !strings.Contains(text, term) {
			continue
		}
		if year != "" && !strings.HasPrefix(rec.str("Year"), year) {
			continue
		}
		if typ != "" && rec.str("Type") != typ {
			continue
		}
		hits = append(hits, map[string]string{
			"Title":  rec.str("Title"),
			"Year":   rec.str("Year"),
			"imdbID": rec.str("imdbID"),
			"Type":   rec.str("Type"),
			"Poster": rec.str("Poster"),
		})
	}

	if len(hits) == 0 {
		return failure("Movie not found!")
	}

	n, err := strconv.Atoi(page)
	if err != nil || n < 1 {
		n = 1
	}
	start := (n - 1) * pageSize
	if start >= len(hits) {
		return failure("Movie not found!")
	}
	end := min(start+pageSize, len(hits))

	return map[string]any{
		"Search":       hits[start:end],
		"totalResults": strconv.Itoa(len(hits)),
		"Response":     "True",
	}
}
