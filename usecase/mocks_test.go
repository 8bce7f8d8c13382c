package usecase

import (
	"context"

	"github.com/lib/pq"
	domainMovie "github.com/movi-app/movi/domains/movie"
	domainReview "github.com/movi-app/movi/domains/review"
	domainUser "github.com/movi-app/movi/domains/user"
	"github.com/movi-app/movi/pkg/query"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository records review store calls.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Exists(ctx context.Context, userID, movieID int64) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Insert(ctx context.Context, r domainReview.Review) (domainReview.Review, bool, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domainReview.Review), args.Bool(1), args.Error(2)
}

func (m *MockReviewRepository) Update(ctx context.Context, r domainReview.Review) (domainReview.Review, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domainReview.Review), args.Error(1)
}

func (m *MockReviewRepository) ByUsername(ctx context.Context, username string) ([]domainReview.UserReview, error) {
	args := m.Called(ctx, username)
	reviews, _ := args.Get(0).([]domainReview.UserReview)
	return reviews, args.Error(1)
}

func (m *MockReviewRepository) Comments(ctx context.Context, movieID int64) ([]domainReview.Comment, error) {
	args := m.Called(ctx, movieID)
	comments, _ := args.Get(0).([]domainReview.Comment)
	return comments, args.Error(1)
}

// MockUserRepository records user store calls.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, username, passwordHash string, profileImg *string) (domainUser.User, error) {
	args := m.Called(ctx, username, passwordHash, profileImg)
	return args.Get(0).(domainUser.User), args.Error(1)
}

func (m *MockUserRepository) ByUsername(ctx context.Context, username string) (domainUser.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domainUser.User), args.Error(1)
}

func (m *MockUserRepository) Watchlist(ctx context.Context, userID int64) (pq.Int64Array, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).(pq.Int64Array)
	return list, args.Error(1)
}

func (m *MockUserRepository) ToggleWatchlist(ctx context.Context, userID, movieID int64) (domainUser.WatchlistToggle, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Get(0).(domainUser.WatchlistToggle), args.Error(1)
}

func (m *MockUserRepository) WatchlistMovies(ctx context.Context, userID int64) ([]domainMovie.Summary, error) {
	args := m.Called(ctx, userID)
	movies, _ := args.Get(0).([]domainMovie.Summary)
	return movies, args.Error(1)
}

func (m *MockUserRepository) Reviews(ctx context.Context, userID int64) ([]domainUser.ProfileReview, error) {
	args := m.Called(ctx, userID)
	reviews, _ := args.Get(0).([]domainUser.ProfileReview)
	return reviews, args.Error(1)
}

func (m *MockUserRepository) MostReviewedGenre(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) HighestRatedGenre(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) LongestMovie(ctx context.Context, userID int64) (domainUser.LongestMovie, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domainUser.LongestMovie), args.Error(1)
}

func (m *MockUserRepository) MostReviewedActor(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) FavoriteDecade(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMovieRepository records movie store calls.
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) summaries(args mock.Arguments) ([]domainMovie.Summary, error) {
	movies, _ := args.Get(0).([]domainMovie.Summary)
	return movies, args.Error(1)
}

func (m *MockMovieRepository) Search(ctx context.Context, criteria domainMovie.SearchCriteria) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx, criteria))
}

func (m *MockMovieRepository) TopRatedByGenre(ctx context.Context, genre string) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx, genre))
}

func (m *MockMovieRepository) LegacyTopRated(ctx context.Context, genre string) (query.RowSet, error) {
	args := m.Called(ctx, genre)
	rows, _ := args.Get(0).(query.RowSet)
	return rows, args.Error(1)
}

func (m *MockMovieRepository) Recommendations(ctx context.Context, userID int64) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx, userID))
}

func (m *MockMovieRepository) FavoriteGenreMovies(ctx context.Context, userID int64, since int64) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx, userID, since))
}

func (m *MockMovieRepository) HiddenGems(ctx context.Context) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx))
}

func (m *MockMovieRepository) NewReleases(ctx context.Context) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx))
}

func (m *MockMovieRepository) Popular(ctx context.Context, limit int) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx, limit))
}

func (m *MockMovieRepository) Trending(ctx context.Context, since int64) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx, since))
}

func (m *MockMovieRepository) ShortHighlyRated(ctx context.Context) ([]domainMovie.Summary, error) {
	return m.summaries(m.Called(ctx))
}

func (m *MockMovieRepository) AverageRatings(ctx context.Context) ([]domainMovie.AverageRating, error) {
	args := m.Called(ctx)
	ratings, _ := args.Get(0).([]domainMovie.AverageRating)
	return ratings, args.Error(1)
}

func (m *MockMovieRepository) Preferences(ctx context.Context, criteria domainMovie.PreferenceCriteria) ([]domainMovie.PreferenceMatch, error) {
	args := m.Called(ctx, criteria)
	matches, _ := args.Get(0).([]domainMovie.PreferenceMatch)
	return matches, args.Error(1)
}

func (m *MockMovieRepository) Detail(ctx context.Context, movieID int64) (domainMovie.Detail, error) {
	args := m.Called(ctx, movieID)
	return args.Get(0).(domainMovie.Detail), args.Error(1)
}

func (m *MockMovieRepository) PosterSource(ctx context.Context, movieID int64) (domainMovie.PosterSource, error) {
	args := m.Called(ctx, movieID)
	return args.Get(0).(domainMovie.PosterSource), args.Error(1)
}

func (m *MockMovieRepository) SetPoster(ctx context.Context, movieID int64, posterURL string) error {
	return m.Called(ctx, movieID, posterURL).Error(0)
}

// MockPosterLookup stands in for the OMDB client.
type MockPosterLookup struct {
	mock.Mock
}

func (m *MockPosterLookup) PosterURL(ctx context.Context, imdbID string) (string, error) {
	args := m.Called(ctx, imdbID)
	return args.String(0), args.Error(1)
}
