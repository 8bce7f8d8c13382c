package repository

import (
	"context"
	"errors"

	"github.com/movi-app/movi/domains/review"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/query"
	"gorm.io/gorm"
)

const sqlReviewExists = `
SELECT 1 AS found
FROM ratings
WHERE userid = @user_id AND movieid = @movie_id`

const sqlInsertReview = `
INSERT INTO ratings (userid, movieid, rating, review, timestamp)
VALUES (@user_id, @movie_id, @rating, @review, CAST(EXTRACT(EPOCH FROM NOW()) AS BIGINT))
ON CONFLICT (userid, movieid) DO NOTHING
RETURNING movieid, userid, rating, review, timestamp`

const sqlUpdateReview = `
UPDATE ratings
SET rating = @rating,
    review = @review,
    timestamp = CAST(EXTRACT(EPOCH FROM NOW()) AS BIGINT)
WHERE userid = @user_id AND movieid = @movie_id
RETURNING movieid, userid, rating, review, timestamp`

const sqlReviewsByUsername = `
SELECT m.movieid, m.title, r.rating, r.timestamp
FROM users u
JOIN ratings r ON r.userid = u.id
JOIN movies m ON m.movieid = r.movieid
WHERE u.username = @username
ORDER BY r.timestamp DESC`

const sqlMovieComments = `
SELECT r.rating, r.review, u.username, r.timestamp
FROM ratings r
JOIN users u ON u.id = r.userid
WHERE r.movieid = @movie_id AND r.review IS NOT NULL AND r.review <> ''
ORDER BY r.timestamp DESC`

type reviewRepository struct {
	exec runner
}

func NewReviewRepository(exec *query.Executor) review.IReviewRepository {
	return &reviewRepository{exec: exec}
}

func (r *reviewRepository) Exists(ctx context.Context, userID, movieID int64) (bool, error) {
	_, err := r.exec.Rows(ctx, query.Query{
		Name:   "review_exists",
		SQL:    sqlReviewExists,
		Params: map[string]any{"user_id": userID, "movie_id": movieID},
	})
	if query.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *reviewRepository) Insert(ctx context.Context, rv review.Review) (review.Review, bool, error) {
	saved, err := scanOne[review.Review](ctx, r.exec, query.Query{
		Name:   "insert_review",
		SQL:    sqlInsertReview,
		Params: reviewParams(rv),
	})
	switch {
	case query.IsNotFound(err):
		// ON CONFLICT DO NOTHING returned nothing: a review appeared since Exists.
		return review.Review{}, false, nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return review.Review{}, false, pkgError.NotFoundError("movie not found")
	case err != nil:
		return review.Review{}, false, err
	}
	return saved, true, nil
}

func (r *reviewRepository) Update(ctx context.Context, rv review.Review) (review.Review, error) {
	return scanOne[review.Review](ctx, r.exec, query.Query{
		Name:   "update_review",
		SQL:    sqlUpdateReview,
		Params: reviewParams(rv),
	})
}

func reviewParams(rv review.Review) map[string]any {
	return map[string]any{
		"user_id":  rv.UserID,
		"movie_id": rv.MovieID,
		"rating":   rv.Rating,
		"review":   rv.Review,
	}
}

func (r *reviewRepository) ByUsername(ctx context.Context, username string) ([]review.UserReview, error) {
	return scanAll[review.UserReview](ctx, r.exec, query.Query{
		Name:   "reviews_by_username",
		SQL:    sqlReviewsByUsername,
		Params: map[string]any{"username": username},
	})
}

func (r *reviewRepository) Comments(ctx context.Context, movieID int64) ([]review.Comment, error) {
	return scanAll[review.Comment](ctx, r.exec, query.Query{
		Name:   "movie_comments",
		SQL:    sqlMovieComments,
		Params: map[string]any{"movie_id": movieID},
	})
}
