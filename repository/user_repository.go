package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/movi-app/movi/domains/movie"
	"github.com/movi-app/movi/domains/user"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/query"
	"gorm.io/gorm"
)

const sqlCreateUser = `
INSERT INTO users (username, password, profile_img)
VALUES (@username, @password, @profile_img)
RETURNING id, username, profile_img`

const sqlUserByUsername = `
SELECT id, username, password, profile_img
FROM users
WHERE username = @username`

const sqlWatchlist = `
SELECT COALESCE(watchlist, '{}') AS watchlist
FROM users
WHERE id = @user_id`

// The toggle is a single statement so concurrent toggles never duplicate an id.
const sqlToggleWatchlist = `
UPDATE users
SET watchlist = CASE
    WHEN CAST(@movie_id AS INTEGER) = ANY(COALESCE(watchlist, '{}'))
        THEN array_remove(watchlist, CAST(@movie_id AS INTEGER))
    ELSE array_append(COALESCE(watchlist, '{}'), CAST(@movie_id AS INTEGER))
END
WHERE id = @user_id
RETURNING watchlist, CAST(@movie_id AS INTEGER) = ANY(watchlist) AS added`

const sqlWatchlistMovies = `
SELECT m.movieid, m.title, m.genre, m.duration, m.releaseyear, NULLIF(m.poster_url, 'N/A') AS poster_url,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating
FROM users u
JOIN movies m ON m.movieid = ANY(u.watchlist)
LEFT JOIN ratings r ON r.movieid = m.movieid
WHERE u.id = @user_id
GROUP BY m.movieid
ORDER BY m.title`

const sqlProfileReviews = `
SELECT m.movieid, m.title, NULLIF(m.poster_url, 'N/A') AS poster_url, m.genre, m.duration, m.releaseyear,
       r.rating, r.review, r.timestamp
FROM ratings r
JOIN movies m ON m.movieid = r.movieid
WHERE r.userid = @user_id
ORDER BY r.timestamp DESC`

const sqlMostReviewedGenre = `
SELECT g.genre AS value, COUNT(*) AS n
FROM ratings r
JOIN movies m ON m.movieid = r.movieid
CROSS JOIN LATERAL UNNEST(m.genre) AS g(genre)
WHERE r.userid = @user_id
GROUP BY g.genre
ORDER BY n DESC, g.genre
LIMIT 1`

const sqlHighestRatedGenre = `
SELECT g.genre AS value, AVG(r.rating) AS n
FROM ratings r
JOIN movies m ON m.movieid = r.movieid
CROSS JOIN LATERAL UNNEST(m.genre) AS g(genre)
WHERE r.userid = @user_id
GROUP BY g.genre
ORDER BY n DESC, g.genre
LIMIT 1`

const sqlLongestMovie = `
SELECT m.title, m.duration, NULLIF(m.poster_url, 'N/A') AS poster_url, r.rating
FROM ratings r
JOIN movies m ON m.movieid = r.movieid
WHERE r.userid = @user_id AND m.duration IS NOT NULL
ORDER BY m.duration DESC, m.movieid
LIMIT 1`

const sqlMostReviewedActor = `
SELECT x.actor AS value, COUNT(*) AS n
FROM ratings r
JOIN actors a ON a.movieid = r.movieid
CROSS JOIN LATERAL UNNEST(a.actors) AS x(actor)
WHERE r.userid = @user_id
GROUP BY x.actor
ORDER BY n DESC, x.actor
LIMIT 1`

const sqlFavoriteDecade = `
SELECT (m.releaseyear / 10) * 10 AS decade, COUNT(*) AS n
FROM ratings r
JOIN movies m ON m.movieid = r.movieid
WHERE r.userid = @user_id AND m.releaseyear IS NOT NULL
GROUP BY decade
ORDER BY n DESC, decade DESC
LIMIT 1`

type userRepository struct {
	exec runner
}

func NewUserRepository(exec *query.Executor) user.IUserRepository {
	return &userRepository{exec: exec}
}

func (r *userRepository) Create(ctx context.Context, username, passwordHash string, profileImg *string) (user.User, error) {
	u, err := scanOne[user.User](ctx, r.exec, query.Query{
		Name: "create_user",
		SQL:  sqlCreateUser,
		Params: map[string]any{
			"username":    username,
			"password":    passwordHash,
			"profile_img": profileImg,
		},
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.User{}, pkgError.ConflictError("username already taken")
	}
	return u, err
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (user.User, error) {
	return scanOne[user.User](ctx, r.exec, query.Query{
		Name:   "user_by_username",
		SQL:    sqlUserByUsername,
		Params: map[string]any{"username": username},
	})
}

func (r *userRepository) Watchlist(ctx context.Context, userID int64) (pq.Int64Array, error) {
	row, err := scanOne[user.WatchlistToggle](ctx, r.exec, query.Query{
		Name:   "watchlist",
		SQL:    sqlWatchlist,
		Params: map[string]any{"user_id": userID},
	})
	if err != nil {
		return nil, err
	}
	return row.Watchlist, nil
}

func (r *userRepository) ToggleWatchlist(ctx context.Context, userID, movieID int64) (user.WatchlistToggle, error) {
	return scanOne[user.WatchlistToggle](ctx, r.exec, query.Query{
		Name:   "toggle_watchlist",
		SQL:    sqlToggleWatchlist,
		Params: map[string]any{"user_id": userID, "movie_id": movieID},
	})
}

func (r *userRepository) WatchlistMovies(ctx context.Context, userID int64) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name:   "watchlist_movies",
		SQL:    sqlWatchlistMovies,
		Params: map[string]any{"user_id": userID},
	})
}

func (r *userRepository) Reviews(ctx context.Context, userID int64) ([]user.ProfileReview, error) {
	return scanAll[user.ProfileReview](ctx, r.exec, query.Query{
		Name:   "profile_reviews",
		SQL:    sqlProfileReviews,
		Params: map[string]any{"user_id": userID},
	})
}

func (r *userRepository) MostReviewedGenre(ctx context.Context, userID int64) (string, error) {
	return r.firstValue(ctx, "most_reviewed_genre", sqlMostReviewedGenre, userID)
}

func (r *userRepository) HighestRatedGenre(ctx context.Context, userID int64) (string, error) {
	return r.firstValue(ctx, "highest_rated_genre", sqlHighestRatedGenre, userID)
}

func (r *userRepository) MostReviewedActor(ctx context.Context, userID int64) (string, error) {
	return r.firstValue(ctx, "most_reviewed_actor", sqlMostReviewedActor, userID)
}

func (r *userRepository) firstValue(ctx context.Context, name, sql string, userID int64) (string, error) {
	rows, err := r.exec.Rows(ctx, query.Query{
		Name:   name,
		SQL:    sql,
		Params: map[string]any{"user_id": userID},
	})
	if err != nil {
		return "", err
	}
	return rows[0].String("value"), nil
}

func (r *userRepository) LongestMovie(ctx context.Context, userID int64) (user.LongestMovie, error) {
	return scanOne[user.LongestMovie](ctx, r.exec, query.Query{
		Name:   "longest_movie",
		SQL:    sqlLongestMovie,
		Params: map[string]any{"user_id": userID},
	})
}

func (r *userRepository) FavoriteDecade(ctx context.Context, userID int64) (int64, error) {
	type decadeRow struct {
		Decade int64 `gorm:"column:decade"`
	}
	row, err := scanOne[decadeRow](ctx, r.exec, query.Query{
		Name:   "favorite_decade",
		SQL:    sqlFavoriteDecade,
		Params: map[string]any{"user_id": userID},
	})
	return row.Decade, err
}
