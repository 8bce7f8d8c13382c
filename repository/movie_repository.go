package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/movi-app/movi/domains/movie"
	"github.com/movi-app/movi/pkg/query"
)

const (
	hiddenGemMinAverage    = 8
	hiddenGemMaxReviews    = 300
	shortMovieMaxDuration  = 120
	shortMovieMinAverage   = 7
	recommendationMinScore = 4
	searchLimit            = 100
	favoriteGenreLimit     = 20
)

const sqlTopRatedByGenre = `
SELECT m.movieid, m.title, m.genre, NULLIF(m.poster_url, 'N/A') AS poster_url, c.directors,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating
FROM movies m
JOIN ratings r ON r.movieid = m.movieid
LEFT JOIN crew c ON c.movieid = m.movieid
WHERE @genre = ANY(m.genre)
GROUP BY m.movieid, c.directors
ORDER BY average_rating DESC, m.movieid
LIMIT @limit`

const sqlLegacyTopRated = `
SELECT m.movieid, m.title, array_to_string(m.genre, ',') AS genre, NULLIF(m.poster_url, 'N/A') AS poster_url,
       r.userid, r.rating, r.review, r.timestamp
FROM movies m
JOIN ratings r ON r.movieid = m.movieid
WHERE @genre = ANY(m.genre)
ORDER BY r.rating DESC, r.ratingid
LIMIT @limit`

const sqlRecommendations = `
WITH user_favorites AS (
    SELECT g.genre, COUNT(*) AS genre_count
    FROM ratings r
    JOIN movies m ON m.movieid = r.movieid
    CROSS JOIN LATERAL UNNEST(m.genre) AS g(genre)
    WHERE r.userid = @user_id AND r.rating >= @min_score
    GROUP BY g.genre
    ORDER BY genre_count DESC, g.genre
    LIMIT 3
)
SELECT m.movieid, m.title, m.genre, m.duration, m.releaseyear, NULLIF(m.poster_url, 'N/A') AS poster_url,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating
FROM movies m
LEFT JOIN ratings r ON r.movieid = m.movieid
WHERE m.genre && ARRAY(SELECT genre FROM user_favorites)
  AND NOT EXISTS (
      SELECT 1 FROM ratings own
      WHERE own.movieid = m.movieid AND own.userid = @user_id
  )
GROUP BY m.movieid
ORDER BY average_rating DESC NULLS LAST, m.movieid
LIMIT @limit`

const sqlFavoriteGenreMovies = `
WITH favorite_genre AS (
    SELECT g.genre, AVG(r.rating) AS genre_average
    FROM ratings r
    JOIN movies m ON m.movieid = r.movieid
    CROSS JOIN LATERAL UNNEST(m.genre) AS g(genre)
    WHERE r.userid = @user_id
    GROUP BY g.genre
    ORDER BY genre_average DESC, g.genre
    LIMIT 1
),
recent_reviews AS (
    SELECT movieid, COUNT(*) AS review_count
    FROM ratings
    WHERE timestamp >= @since
    GROUP BY movieid
)
SELECT m.movieid, m.title, m.genre, m.duration, m.releaseyear, NULLIF(m.poster_url, 'N/A') AS poster_url,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating,
       rr.review_count
FROM movies m
JOIN favorite_genre fg ON fg.genre = ANY(m.genre)
JOIN recent_reviews rr ON rr.movieid = m.movieid
JOIN ratings r ON r.movieid = m.movieid
WHERE NOT EXISTS (
    SELECT 1 FROM ratings own
    WHERE own.movieid = m.movieid AND own.userid = @user_id
)
GROUP BY m.movieid, rr.review_count
ORDER BY rr.review_count DESC, average_rating DESC, m.movieid
LIMIT @limit`

const sqlHiddenGems = `
SELECT m.movieid, m.title, m.genre, m.releaseyear,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating,
       COUNT(r.ratingid) AS review_count
FROM movies m
JOIN ratings r ON r.movieid = m.movieid
GROUP BY m.movieid
HAVING ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) >= @min_average
   AND COUNT(r.ratingid) BETWEEN 1 AND @max_reviews
ORDER BY average_rating DESC, review_count ASC`

const sqlNewReleases = `
SELECT movieid, title, genre, releaseyear, duration, NULLIF(poster_url, 'N/A') AS poster_url
FROM movies
ORDER BY releaseyear DESC NULLS LAST, movieid
LIMIT @limit`

const sqlPopular = `
SELECT m.movieid, m.title, NULLIF(m.poster_url, 'N/A') AS poster_url,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating,
       COUNT(r.rating) AS review_count
FROM movies m
JOIN ratings r ON r.movieid = m.movieid
GROUP BY m.movieid
HAVING ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) > 9.00
   AND COUNT(r.rating) >= 50
ORDER BY review_count DESC, m.movieid
LIMIT @limit`

const sqlTrending = `
WITH recent_reviews AS (
    SELECT movieid, COUNT(*) AS review_count
    FROM ratings
    WHERE timestamp >= @since
    GROUP BY movieid
)
SELECT m.movieid, m.title, NULLIF(m.poster_url, 'N/A') AS poster_url, rr.review_count
FROM recent_reviews rr
JOIN movies m ON m.movieid = rr.movieid
ORDER BY rr.review_count DESC, m.movieid
LIMIT @limit`

const sqlShortHighlyRated = `
SELECT m.movieid, m.title, m.genre, m.duration,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating
FROM movies m
JOIN ratings r ON r.movieid = m.movieid
WHERE m.duration < @max_duration
GROUP BY m.movieid
HAVING AVG(r.rating) > @min_average
ORDER BY average_rating DESC, m.movieid`

const sqlAverageRatings = `
SELECT movieid, ROUND(CAST(AVG(rating) AS NUMERIC), 2) AS average_rating
FROM ratings
GROUP BY movieid
ORDER BY movieid`

const sqlMovieDetail = `
SELECT m.movieid, m.title, m.genre, m.duration, m.releaseyear, m.poster_url,
       ROUND(CAST(AVG(r.rating) AS NUMERIC), 2) AS average_rating,
       COALESCE(c.writers, '{}') AS writers,
       COALESCE(c.directors, '{}') AS directors,
       COALESCE(a.actors, '{}') AS actors
FROM movies m
LEFT JOIN ratings r ON r.movieid = m.movieid
LEFT JOIN crew c ON c.movieid = m.movieid
LEFT JOIN actors a ON a.movieid = m.movieid
WHERE m.movieid = @movie_id
GROUP BY m.movieid, c.writers, c.directors, a.actors`

const sqlPosterSource = `
SELECT m.poster_url, l.imdbid
FROM movies m
JOIN links l ON l.movieid = m.movieid
WHERE m.movieid = @movie_id`

const sqlSetPoster = `UPDATE movies SET poster_url = @poster_url WHERE movieid = @movie_id`

type movieRepository struct {
	exec runner
}

func NewMovieRepository(exec *query.Executor) movie.IMovieRepository {
	return &movieRepository{exec: exec}
}

func (r *movieRepository) Search(ctx context.Context, c movie.SearchCriteria) ([]movie.Summary, error) {
	q, err := buildSearchQuery(c)
	if err != nil {
		return nil, err
	}
	return scanAll[movie.Summary](ctx, r.exec, q)
}

// buildSearchQuery ORs one fixed predicate per supplied criterion. Only the
// predicates vary; every user value stays a bound parameter.
func buildSearchQuery(c movie.SearchCriteria) (query.Query, error) {
	var conditions []string
	params := map[string]any{"limit": searchLimit}

	if c.Title != "" {
		conditions = append(conditions, "m.title ILIKE @title")
		params["title"] = containsPattern(c.Title)
	}
	if c.Actors != "" {
		conditions = append(conditions, "array_to_string(a.actors, ',') ILIKE @actors")
		params["actors"] = containsPattern(c.Actors)
	}
	if c.Directors != "" {
		conditions = append(conditions, "array_to_string(cr.directors, ',') ILIKE @directors")
		params["directors"] = containsPattern(c.Directors)
	}
	if c.Writers != "" {
		conditions = append(conditions, "array_to_string(cr.writers, ',') ILIKE @writers")
		params["writers"] = containsPattern(c.Writers)
	}
	if c.Genre != "" {
		conditions = append(conditions, "@genre = ANY(m.genre)")
		params["genre"] = c.Genre
	}
	if len(conditions) == 0 {
		return query.Query{}, errors.New("search needs at least one criterion")
	}

	sql := `
SELECT m.movieid, m.title, m.genre, m.duration, m.releaseyear, NULLIF(m.poster_url, 'N/A') AS poster_url,
       a.actors, cr.directors, cr.writers,
       CAST(COALESCE(ROUND(CAST(AVG(r.rating) AS NUMERIC), 2), 0) AS FLOAT) AS average_rating,
       COUNT(r.rating) AS review_count
FROM movies m
LEFT JOIN actors a ON a.movieid = m.movieid
LEFT JOIN crew cr ON cr.movieid = m.movieid
LEFT JOIN ratings r ON r.movieid = m.movieid
WHERE ` + strings.Join(conditions, " OR ") + `
GROUP BY m.movieid, a.actors, cr.directors, cr.writers
ORDER BY average_rating DESC NULLS LAST, m.movieid
LIMIT @limit`

	return query.Query{Name: "movie_search", SQL: sql, Params: params}, nil
}

// containsPattern escapes LIKE wildcards so user input only matches literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (r *movieRepository) TopRatedByGenre(ctx context.Context, genre string) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name:   "top_rated_by_genre",
		SQL:    sqlTopRatedByGenre,
		Params: map[string]any{"genre": genre, "limit": movie.TopListSize},
	})
}

func (r *movieRepository) LegacyTopRated(ctx context.Context, genre string) (query.RowSet, error) {
	return r.exec.Rows(ctx, query.Query{
		Name:   "legacy_top_rated",
		SQL:    sqlLegacyTopRated,
		Params: map[string]any{"genre": genre, "limit": movie.TopListSize},
	})
}

func (r *movieRepository) Recommendations(ctx context.Context, userID int64) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name: "recommendations",
		SQL:  sqlRecommendations,
		Params: map[string]any{
			"user_id":   userID,
			"min_score": recommendationMinScore,
			"limit":     movie.TopListSize,
		},
	})
}

func (r *movieRepository) FavoriteGenreMovies(ctx context.Context, userID int64, since int64) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name: "favorite_genre_movies",
		SQL:  sqlFavoriteGenreMovies,
		Params: map[string]any{
			"user_id": userID,
			"since":   since,
			"limit":   favoriteGenreLimit,
		},
	})
}

func (r *movieRepository) HiddenGems(ctx context.Context) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name: "hidden_gems",
		SQL:  sqlHiddenGems,
		Params: map[string]any{
			"min_average": hiddenGemMinAverage,
			"max_reviews": hiddenGemMaxReviews,
		},
	})
}

func (r *movieRepository) NewReleases(ctx context.Context) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name:   "new_releases",
		SQL:    sqlNewReleases,
		Params: map[string]any{"limit": movie.TopListSize},
	})
}

func (r *movieRepository) Popular(ctx context.Context, limit int) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name:   "popular",
		SQL:    sqlPopular,
		Params: map[string]any{"limit": limit},
	})
}

func (r *movieRepository) Trending(ctx context.Context, since int64) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name:   "trending",
		SQL:    sqlTrending,
		Params: map[string]any{"since": since, "limit": movie.TopListSize},
	})
}

func (r *movieRepository) ShortHighlyRated(ctx context.Context) ([]movie.Summary, error) {
	return scanAll[movie.Summary](ctx, r.exec, query.Query{
		Name: "short_highly_rated",
		SQL:  sqlShortHighlyRated,
		Params: map[string]any{
			"max_duration": shortMovieMaxDuration,
			"min_average":  shortMovieMinAverage,
		},
	})
}

func (r *movieRepository) AverageRatings(ctx context.Context) ([]movie.AverageRating, error) {
	return scanAll[movie.AverageRating](ctx, r.exec, query.Query{Name: "average_ratings", SQL: sqlAverageRatings})
}

func (r *movieRepository) Preferences(ctx context.Context, c movie.PreferenceCriteria) ([]movie.PreferenceMatch, error) {
	q, err := buildPreferencesQuery(c)
	if err != nil {
		return nil, err
	}
	return scanAll[movie.PreferenceMatch](ctx, r.exec, q)
}

func buildPreferencesQuery(c movie.PreferenceCriteria) (query.Query, error) {
	var conditions []string
	params := map[string]any{}

	if len(c.Directors) > 0 {
		conditions = append(conditions, "c.directors && CAST(@directors AS TEXT[])")
		params["directors"] = pq.StringArray(c.Directors)
	}
	if len(c.Actors) > 0 {
		conditions = append(conditions, "a.actors && CAST(@actors AS TEXT[])")
		params["actors"] = pq.StringArray(c.Actors)
	}
	if len(conditions) == 0 {
		return query.Query{}, errors.New("preferences need at least one actor or director")
	}

	sql := `
SELECT m.title, m.releaseyear, m.genre, r.rating, c.directors, a.actors
FROM movies m
JOIN ratings r ON r.movieid = m.movieid
JOIN crew c ON c.movieid = m.movieid
JOIN actors a ON a.movieid = m.movieid
WHERE ` + strings.Join(conditions, " OR ") + `
ORDER BY m.releaseyear DESC NULLS LAST, m.title`

	return query.Query{Name: "preferences", SQL: sql, Params: params}, nil
}

func (r *movieRepository) Detail(ctx context.Context, movieID int64) (movie.Detail, error) {
	return scanOne[movie.Detail](ctx, r.exec, query.Query{
		Name:   "movie_detail",
		SQL:    sqlMovieDetail,
		Params: map[string]any{"movie_id": movieID},
	})
}

func (r *movieRepository) PosterSource(ctx context.Context, movieID int64) (movie.PosterSource, error) {
	return scanOne[movie.PosterSource](ctx, r.exec, query.Query{
		Name:   "poster_source",
		SQL:    sqlPosterSource,
		Params: map[string]any{"movie_id": movieID},
	})
}

func (r *movieRepository) SetPoster(ctx context.Context, movieID int64, posterURL string) error {
	_, err := r.exec.Exec(ctx, query.Query{
		Name:   "set_poster",
		SQL:    sqlSetPoster,
		Params: map[string]any{"movie_id": movieID, "poster_url": posterURL},
	})
	return err
}
