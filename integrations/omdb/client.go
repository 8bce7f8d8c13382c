// Package omdb looks up poster artwork on the OMDb API.
package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	domainMovie "github.com/movi-app/movi/domains/movie"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	DefaultBaseURL = "https://www.omdbapi.com/"
	DefaultTimeout = 5 * time.Second

	breakerName = "omdb-api"
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("omdb api key not configured")
	// ErrNoPoster means OMDb knows the title but has no artwork for it.
	ErrNoPoster = domainMovie.ErrNoPoster
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[string]
}

type titleResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Title    string `json:"Title"`
	Poster   string `json:"Poster"`
}

// NewClient builds a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A title without artwork is an answer, not an outage.
			return err == nil || errors.Is(err, ErrNoPoster) || isAPIError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.Warnf("[OMDB] circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    httpClient,
		cb:      cb,
	}
}

// APIError is an error reported by OMDb itself (Response == "False").
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "omdb api error: " + e.Message
}

func isAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IMDbID renders a links.imdbid value as an OMDb title id ("114709" -> "tt0114709").
func IMDbID(raw string) string {
	id := strings.TrimPrefix(strings.TrimSpace(raw), "tt")
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return fmt.Sprintf("tt%07d", n)
	}
	return "tt" + id
}

// PosterURL fetches the poster URL for imdbID.
func (c *Client) PosterURL(ctx context.Context, imdbID string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	poster, err := c.cb.Execute(func() (string, error) {
		return c.fetchPoster(ctx, IMDbID(imdbID))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logrus.WithError(err).Warn("[OMDB] request rejected by circuit breaker")
		}
		return "", err
	}
	return poster, nil
}

func (c *Client) fetchPoster(ctx context.Context, titleID string) (string, error) {
	q := url.Values{}
	q.Set("i", titleID)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build omdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("omdb request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read omdb response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("omdb returned status %d", resp.StatusCode)
	}

	var out titleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode omdb response (status %d): %w", resp.StatusCode, err)
	}
	if strings.EqualFold(out.Response, "False") {
		return "", &APIError{Message: out.Error}
	}
	if out.Poster == "" || out.Poster == domainMovie.NoPoster {
		return "", ErrNoPoster
	}

	logrus.Debugf("[OMDB] poster resolved for %s (%s)", titleID, out.Title)
	return out.Poster, nil
}
