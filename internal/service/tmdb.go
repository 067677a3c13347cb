package service

import (
	"bitwise74/movie-list/config"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MovieSearcher finds candidate movies by title
type MovieSearcher interface {
	Search(ctx context.Context, title string) ([]Candidate, error)
	PosterURL(path string) string
}

// Candidate is a single TMDB search result. Any field may be empty
type Candidate struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
}

type searchResponse struct {
	Results []Candidate `json:"results"`
}

type TMDB struct {
	baseURL      string
	imageBaseURL string
	bearerToken  string
	apiKey       string
	httpClient   *http.Client
}

func NewTMDB(c config.TMDBConfig) *TMDB {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TMDB{
		baseURL:      strings.TrimSuffix(c.BaseURL, "/"),
		imageBaseURL: strings.TrimSuffix(c.ImageBaseURL, "/"),
		bearerToken:  c.BearerToken,
		apiKey:       c.APIKey,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (t *TMDB) Search(ctx context.Context, title string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("query", title)
	if t.apiKey != "" {
		q.Set("api_key", t.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/search/movie?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare search request, %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if t.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.bearerToken)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w, tmdb request failed, %w", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		zap.L().Warn("TMDB returned non-OK status", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))

		return nil, fmt.Errorf("%w, tmdb returned status %d", ErrExternalService, resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w, failed to decode tmdb response, %w", ErrExternalService, err)
	}

	if result.Results == nil {
		result.Results = []Candidate{}
	}

	return result.Results, nil
}

// PosterURL turns a relative TMDB poster path into an absolute URL.
// Returns an empty string when there is no poster
func (t *TMDB) PosterURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return t.imageBaseURL + path
}
