package user

import (
	"context"

	"github.com/lib/pq"
	"github.com/movi-app/movi/domains/movie"
)

type User struct {
	ID           int64   `json:"id" gorm:"column:id"`
	Username     string  `json:"username" gorm:"column:username"`
	PasswordHash string  `json:"-" gorm:"column:password"`
	ProfileImg   *string `json:"profile_img" gorm:"column:profile_img"`
}

type WatchlistToggle struct {
	Watchlist pq.Int64Array `json:"watchlist" gorm:"column:watchlist;type:integer[]"`
	Added     bool          `json:"added" gorm:"column:added"`
}

type ToggleWatchlistRequest struct {
	MovieID int64 `json:"movieId"`
}

// ProfileReview is a review on the author's profile with the movie it is about.
type ProfileReview struct {
	movie.Movie
	Rating    float64 `json:"rating" gorm:"column:rating"`
	Review    *string `json:"review" gorm:"column:review"`
	Timestamp int64   `json:"timestamp" gorm:"column:timestamp"`
	PostedAgo string  `json:"posted_ago" gorm:"-"`
}

type LongestMovie struct {
	Title     string  `json:"title" gorm:"column:title"`
	Duration  *int64  `json:"duration" gorm:"column:duration"`
	PosterURL *string `json:"poster_url" gorm:"column:poster_url"`
	Rating    float64 `json:"rating" gorm:"column:rating"`
}

// Stats fields are nil when the user has no reviews to derive them from.
type Stats struct {
	MostReviewedGenre *string       `json:"mostReviewedGenre"`
	HighestRatedGenre *string       `json:"highestRatedGenre"`
	LongestMovie      *LongestMovie `json:"longestMovie"`
	MostReviewedActor *string       `json:"mostReviewedActor"`
	FavoriteDecade    *int64        `json:"favoriteDecade"`
}

type Profile struct {
	User      User            `json:"user"`
	Watchlist []movie.Summary `json:"watchlist"`
	Reviews   []ProfileReview `json:"reviews"`
	Stats     Stats           `json:"stats"`
}

type IUserRepository interface {
	Create(ctx context.Context, username, passwordHash string, profileImg *string) (User, error)
	ByUsername(ctx context.Context, username string) (User, error)
	Watchlist(ctx context.Context, userID int64) (pq.Int64Array, error)
	ToggleWatchlist(ctx context.Context, userID, movieID int64) (WatchlistToggle, error)
	WatchlistMovies(ctx context.Context, userID int64) ([]movie.Summary, error)
	Reviews(ctx context.Context, userID int64) ([]ProfileReview, error)
	MostReviewedGenre(ctx context.Context, userID int64) (string, error)
	HighestRatedGenre(ctx context.Context, userID int64) (string, error)
	LongestMovie(ctx context.Context, userID int64) (LongestMovie, error)
	MostReviewedActor(ctx context.Context, userID int64) (string, error)
	FavoriteDecade(ctx context.Context, userID int64) (int64, error)
}

type IUserUsecase interface {
	ToggleWatchlist(ctx context.Context, userID int64, req ToggleWatchlistRequest) (WatchlistToggle, error)
	Watchlist(ctx context.Context, userID int64) (pq.Int64Array, error)
	Profile(ctx context.Context, username string) (Profile, error)
}
