package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/movi-app/movi/core/config"
	"github.com/movi-app/movi/domains/health"
	domainMovie "github.com/movi-app/movi/domains/movie"
	domainReview "github.com/movi-app/movi/domains/review"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/query"
	"github.com/movi-app/movi/pkg/security"
	"github.com/movi-app/movi/ui/rest/middleware"
	"github.com/movi-app/movi/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryReviews is an in-memory review store keyed by (user, movie).
type memoryReviews struct {
	mu        sync.Mutex
	rows      map[[2]int64]domainReview.Review
	inserts   int
	updates   int
	requested []string
}

func newMemoryReviews() *memoryReviews {
	return &memoryReviews{rows: map[[2]int64]domainReview.Review{}}
}

func (m *memoryReviews) Exists(_ context.Context, userID, movieID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[[2]int64{userID, movieID}]
	return ok, nil
}

func (m *memoryReviews) Insert(_ context.Context, r domainReview.Review) (domainReview.Review, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{r.UserID, r.MovieID}
	if _, ok := m.rows[key]; ok {
		return domainReview.Review{}, false, nil
	}
	m.inserts++
	m.rows[key] = r
	return r, true, nil
}

func (m *memoryReviews) Update(_ context.Context, r domainReview.Review) (domainReview.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.rows[[2]int64{r.UserID, r.MovieID}] = r
	return r, nil
}

func (m *memoryReviews) ByUsername(_ context.Context, username string) ([]domainReview.UserReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, username)
	return nil, pkgError.NotFoundError("no results")
}

func (m *memoryReviews) Comments(context.Context, int64) ([]domainReview.Comment, error) {
	return nil, pkgError.NotFoundError("no results")
}

// stubMovies answers every listing with the same movie and records the caller.
type stubMovies struct {
	domainMovie.IMovieUsecase
	recommendedFor int64
	detailErr      error
	genres         []string
	limits         []int
}

func (s *stubMovies) TopRatedByGenre(_ context.Context, genre string) ([]domainMovie.Summary, error) {
	s.genres = append(s.genres, genre)
	return []domainMovie.Summary{{Movie: domainMovie.Movie{MovieID: 1, Title: "Solaris"}}}, nil
}

func (s *stubMovies) Popular(_ context.Context, limit int) ([]domainMovie.Summary, error) {
	s.limits = append(s.limits, limit)
	return []domainMovie.Summary{{Movie: domainMovie.Movie{MovieID: 1, Title: "Heat"}}}, nil
}

func (s *stubMovies) Recommendations(_ context.Context, userID int64) ([]domainMovie.Summary, error) {
	s.recommendedFor = userID
	return []domainMovie.Summary{{Movie: domainMovie.Movie{MovieID: 1, Title: "Heat"}}}, nil
}

func (s *stubMovies) Detail(_ context.Context, movieID int64) (domainMovie.Detail, error) {
	if s.detailErr != nil {
		return domainMovie.Detail{}, s.detailErr
	}
	return domainMovie.Detail{Movie: domainMovie.Movie{MovieID: movieID, Title: "Heat"}}, nil
}

func (s *stubMovies) Preferences(_ context.Context, criteria domainMovie.PreferenceCriteria) ([]domainMovie.PreferenceMatch, error) {
	if len(criteria.Actors) == 0 && len(criteria.Directors) == 0 {
		return nil, pkgError.ValidationError("you must specify at least one actor or director")
	}
	return []domainMovie.PreferenceMatch{{Title: criteria.Actors[0]}}, nil
}

func (s *stubMovies) LegacyTopRated(_ context.Context, genre string) (query.RowSet, error) {
	return query.RowSet{{"title": "Heat", "genre": genre}}, nil
}

type stubHealth struct {
	health.IHealthUsecase
}

func (stubHealth) CheckCache(context.Context) health.HealthRecord {
	return health.HealthRecord{Component: health.ComponentCache, Status: health.StatusOk, LastMessage: "Cache connection healthy"}
}

type testServer struct {
	app     *fiber.App
	tokens  *security.TokenAuthority
	reviews *memoryReviews
	movies  *stubMovies
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		app:     NewApp(),
		tokens:  security.NewTokenAuthority("test-secret", time.Hour),
		reviews: newMemoryReviews(),
		movies:  &stubMovies{},
	}
	s.app.Use(middleware.Recovery())

	api := s.app.Group("/api")
	authenticated := middleware.Authenticated(s.tokens)
	InitRestApp(s.app, api, config.AppConfig{Version: "test"})
	InitRestReview(api, usecase.NewReviewService(s.reviews), authenticated)
	InitRestMovie(api, s.movies, authenticated)
	InitRestHealth(api, stubHealth{})
	InitRestNotFound(api)
	return s
}

func (s *testServer) token(t *testing.T, id int64) string {
	t.Helper()
	token, err := s.tokens.Issue(security.Identity{ID: id, Username: "alice"})
	require.NoError(t, err)
	return "Bearer " + token
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Results json.RawMessage `json:"results"`
}

func (s *testServer) do(t *testing.T, method, path, auth string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func TestSubmitReview_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/movies/42/reviews", "", map[string]any{"rating": 7})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", env.Code)

	status, env = s.do(t, http.MethodPost, "/api/movies/42/reviews", "Bearer not.a.token", map[string]any{"rating": 7})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INVALID_CREDENTIAL", env.Code)
	assert.Equal(t, 0, s.reviews.inserts)
}

func TestSubmitReview_CreateThenUpdate(t *testing.T) {
	s := newTestServer(t)
	auth := s.token(t, 5)

	status, env := s.do(t, http.MethodPost, "/api/movies/42/reviews", auth, map[string]any{"rating": 11, "review": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Contains(t, env.Message, "rating must be between 1 and 10")
	assert.Equal(t, 0, s.reviews.inserts+s.reviews.updates)

	status, _ = s.do(t, http.MethodPost, "/api/movies/42/reviews", auth, map[string]any{"rating": 7, "review": "great"})
	assert.Equal(t, http.StatusCreated, status)

	status, env = s.do(t, http.MethodPost, "/api/movies/42/reviews", auth, map[string]any{"rating": 9, "review": "even better"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Review updated successfully", env.Message)

	assert.Equal(t, 1, s.reviews.inserts)
	assert.Equal(t, 1, s.reviews.updates)
	assert.Len(t, s.reviews.rows, 1)
	assert.Equal(t, 9.0, s.reviews.rows[[2]int64{5, 42}].Rating)
}

func TestRecommendations_UsesTokenIdentity(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/movies/recommendations", s.token(t, 17), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(17), s.movies.recommendedFor)
}

func TestMovieDetail(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/movies/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	status, env = s.do(t, http.MethodGet, "/api/movies/9", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Results), `"title":"Heat"`)

	s.movies.detailErr = pkgError.NotFoundError("movie not found")
	status, env = s.do(t, http.MethodGet, "/api/movies/9", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "movie not found", env.Message)
}

func TestQueryErrorIsNotLeaked(t *testing.T) {
	s := newTestServer(t)
	s.movies.detailErr = pkgError.NewQueryError("movie_detail", errors.New(`pq: relation "movies" does not exist`))

	status, env := s.do(t, http.MethodGet, "/api/movies/9", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "QUERY_ERROR", env.Code)
	assert.NotContains(t, env.Message, "relation")
}

func TestPreferences_ParsesLists(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/movies/preferences?actors=Al%20Pacino,%20Robert%20De%20Niro", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Results), "Al Pacino")

	status, _ = s.do(t, http.MethodGet, "/api/movies/preferences", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLegacyTopRated(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/movies/top-rated/Drama'--", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Results), `"genre":"Drama'--"`)
}

func TestHealthCache(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/health/cache", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cache connection healthy", env.Message)
}

func TestRootAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Backend is running and healthy!", string(body))

	status, env := s.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND_ERROR", env.Code)
}

func TestPathParamsAreDecoded(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/movies/top-rated-genre/Science%20Fiction", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/movies/top-rated-genre/%28no%20genres%20listed%29", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Science Fiction", "(no genres listed)"}, s.movies.genres)

	status, env := s.do(t, http.MethodGet, "/api/movies/reviews/John%20Doe", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND_ERROR", env.Code)
	assert.Equal(t, []string{"John Doe"}, s.reviews.requested)
}

func TestPopular_Limit(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/movies/popular", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/movies/popular?limit=25", "", nil)
	assert.Equal(t, http.StatusOK, status)

	for _, bad := range []string{"abc", "0", "-3", "101", "2.5"} {
		status, env := s.do(t, http.MethodGet, "/api/movies/popular?limit="+bad, "", nil)
		assert.Equal(t, http.StatusBadRequest, status, bad)
		assert.Equal(t, "VALIDATION_ERROR", env.Code, bad)
	}

	assert.Equal(t, []int{domainMovie.DefaultPopularLimit, 25}, s.movies.limits)
}
