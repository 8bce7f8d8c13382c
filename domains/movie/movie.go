package movie

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/movi-app/movi/pkg/query"
)

// Movie mirrors a row of the movies table.
type Movie struct {
	MovieID     int64          `json:"movieid" gorm:"column:movieid"`
	Title       string         `json:"title" gorm:"column:title"`
	Genre       pq.StringArray `json:"genre,omitempty" gorm:"column:genre;type:text[]"`
	Duration    *int64         `json:"duration,omitempty" gorm:"column:duration"`
	ReleaseYear *int64         `json:"releaseyear,omitempty" gorm:"column:releaseyear"`
	PosterURL   *string        `json:"poster_url" gorm:"column:poster_url"`
}

// Summary is a movie plus the aggregates a listing was ranked by.
type Summary struct {
	Movie
	AverageRating *float64       `json:"average_rating,omitempty" gorm:"column:average_rating"`
	ReviewCount   *int64         `json:"review_count,omitempty" gorm:"column:review_count"`
	Directors     pq.StringArray `json:"directors,omitempty" gorm:"column:directors;type:text[]"`
	Writers       pq.StringArray `json:"writers,omitempty" gorm:"column:writers;type:text[]"`
	Actors        pq.StringArray `json:"actors,omitempty" gorm:"column:actors;type:text[]"`
}

// Detail is the full movie page. Crew arrays are never null.
type Detail struct {
	Movie
	AverageRating *float64       `json:"average_rating" gorm:"column:average_rating"`
	Writers       pq.StringArray `json:"writers" gorm:"column:writers;type:text[]"`
	Directors     pq.StringArray `json:"directors" gorm:"column:directors;type:text[]"`
	Actors        pq.StringArray `json:"actors" gorm:"column:actors;type:text[]"`
}

type AverageRating struct {
	MovieID       int64   `json:"movieid" gorm:"column:movieid"`
	AverageRating float64 `json:"average_rating" gorm:"column:average_rating"`
}

// PreferenceMatch is one rating row of a movie featuring a requested actor or director.
type PreferenceMatch struct {
	Title       string         `json:"title" gorm:"column:title"`
	ReleaseYear *int64         `json:"releaseyear" gorm:"column:releaseyear"`
	Genre       pq.StringArray `json:"genre" gorm:"column:genre;type:text[]"`
	Rating      float64        `json:"rating" gorm:"column:rating"`
	Directors   pq.StringArray `json:"directors" gorm:"column:directors;type:text[]"`
	Actors      pq.StringArray `json:"actors" gorm:"column:actors;type:text[]"`
}

// PosterSource is what a poster backfill needs to know about a movie.
type PosterSource struct {
	PosterURL *string `gorm:"column:poster_url"`
	IMDbID    string  `gorm:"column:imdbid"`
}

// SearchCriteria are OR-ed together; at least one must be set.
type SearchCriteria struct {
	Title     string `query:"title" json:"title"`
	Actors    string `query:"actors" json:"actors"`
	Directors string `query:"directors" json:"directors"`
	Writers   string `query:"writers" json:"writers"`
	Genre     string `query:"genre" json:"genre"`
}

type PreferenceCriteria struct {
	Actors    []string
	Directors []string
}

const (
	DefaultPopularLimit = 10
	MaxPopularLimit     = 100
	TopListSize         = 10
)

type IMovieRepository interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]Summary, error)
	TopRatedByGenre(ctx context.Context, genre string) ([]Summary, error)
	LegacyTopRated(ctx context.Context, genre string) (query.RowSet, error)
	Recommendations(ctx context.Context, userID int64) ([]Summary, error)
	FavoriteGenreMovies(ctx context.Context, userID int64, since int64) ([]Summary, error)
	HiddenGems(ctx context.Context) ([]Summary, error)
	NewReleases(ctx context.Context) ([]Summary, error)
	Popular(ctx context.Context, limit int) ([]Summary, error)
	Trending(ctx context.Context, since int64) ([]Summary, error)
	ShortHighlyRated(ctx context.Context) ([]Summary, error)
	AverageRatings(ctx context.Context) ([]AverageRating, error)
	Preferences(ctx context.Context, criteria PreferenceCriteria) ([]PreferenceMatch, error)
	Detail(ctx context.Context, movieID int64) (Detail, error)
	PosterSource(ctx context.Context, movieID int64) (PosterSource, error)
	SetPoster(ctx context.Context, movieID int64, posterURL string) error
}

type IMovieUsecase interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]Summary, error)
	TopRatedByGenre(ctx context.Context, genre string) ([]Summary, error)
	LegacyTopRated(ctx context.Context, genre string) (query.RowSet, error)
	Recommendations(ctx context.Context, userID int64) ([]Summary, error)
	FavoriteGenreMovies(ctx context.Context, userID int64) ([]Summary, error)
	HiddenGem(ctx context.Context) (Summary, error)
	NewReleases(ctx context.Context) ([]Summary, error)
	Popular(ctx context.Context, limit int) ([]Summary, error)
	Trending(ctx context.Context) ([]Summary, error)
	ShortHighlyRated(ctx context.Context) ([]Summary, error)
	AverageRatings(ctx context.Context) ([]AverageRating, error)
	Preferences(ctx context.Context, criteria PreferenceCriteria) ([]PreferenceMatch, error)
	Detail(ctx context.Context, movieID int64) (Detail, error)
}

// NoPoster is stored in movies.poster_url once a lookup found no artwork for the
// title. Listings read it back as null and Detail does not look the title up again.
const NoPoster = "N/A"

// ErrNoPoster is returned by a PosterLookup when the title exists but has no artwork.
var ErrNoPoster = errors.New("no poster available for this title")

// PosterLookup resolves artwork for movies stored without a poster.
type PosterLookup interface {
	PosterURL(ctx context.Context, imdbID string) (string, error)
}
