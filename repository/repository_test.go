package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/movi-app/movi/domains/movie"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupExecutor builds a SQLite database holding the scalar subset of the schema,
// enough for the queries that do not touch array columns.
func setupExecutor(t *testing.T) *query.Executor {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, username TEXT NOT NULL UNIQUE, password TEXT NOT NULL, profile_img TEXT)`,
		`CREATE TABLE movies (movieid INTEGER PRIMARY KEY, title TEXT NOT NULL)`,
		`CREATE TABLE ratings (ratingid INTEGER PRIMARY KEY AUTOINCREMENT, userid INTEGER NOT NULL, movieid INTEGER NOT NULL, rating REAL NOT NULL, review TEXT, timestamp INTEGER NOT NULL, UNIQUE (userid, movieid))`,
		`INSERT INTO users (id, username, password) VALUES (1, 'alice', 'x'), (2, 'bob', 'y')`,
		`INSERT INTO movies (movieid, title) VALUES (10, 'Heat'), (20, 'Alien')`,
		`INSERT INTO ratings (userid, movieid, rating, review, timestamp) VALUES
			(1, 10, 9, 'tense', 100),
			(2, 10, 7, '', 200),
			(2, 20, 8, 'classic', 300)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return query.NewExecutor(db, time.Second)
}

func TestReviewRepository_Exists(t *testing.T) {
	repo := NewReviewRepository(setupExecutor(t))

	ok, err := repo.Exists(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReviewRepository_CommentsSkipEmptyReviews(t *testing.T) {
	repo := NewReviewRepository(setupExecutor(t))

	comments, err := repo.Comments(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].Username)
	assert.Equal(t, "tense", comments[0].Review)
	assert.Equal(t, float64(9), comments[0].Rating)

	_, err = repo.Comments(context.Background(), 99)
	assert.True(t, query.IsNotFound(err))
}

func TestReviewRepository_ByUsernameNewestFirst(t *testing.T) {
	repo := NewReviewRepository(setupExecutor(t))

	reviews, err := repo.ByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Alien", reviews[0].Title)
	assert.Equal(t, int64(300), reviews[0].Timestamp)
	assert.Equal(t, "Heat", reviews[1].Title)
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	repo := NewUserRepository(setupExecutor(t))
	img := "https://img.test/carol.png"

	created, err := repo.Create(context.Background(), "carol", "hash", &img)
	require.NoError(t, err)
	assert.Equal(t, "carol", created.Username)
	assert.NotZero(t, created.ID)

	found, err := repo.ByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)
	require.NotNil(t, found.ProfileImg)
	assert.Equal(t, img, *found.ProfileImg)

	_, err = repo.ByUsername(context.Background(), "nobody")
	assert.True(t, query.IsNotFound(err))
}

func TestUserRepository_CreateDuplicateIsConflict(t *testing.T) {
	repo := NewUserRepository(setupExecutor(t))

	_, err := repo.Create(context.Background(), "alice", "hash", nil)
	var conflict pkgError.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestBuildSearchQuery(t *testing.T) {
	q, err := buildSearchQuery(movie.SearchCriteria{Title: "50%_off", Genre: "Comedy"})
	require.NoError(t, err)
	require.NoError(t, q.Validate())

	assert.Contains(t, q.SQL, "m.title ILIKE @title OR @genre = ANY(m.genre)")
	assert.Equal(t, `%50\%\_off%`, q.Params["title"])
	assert.Equal(t, "Comedy", q.Params["genre"])
	assert.NotContains(t, q.SQL, "Comedy")

	_, err = buildSearchQuery(movie.SearchCriteria{})
	assert.Error(t, err)
}

func TestBuildPreferencesQuery(t *testing.T) {
	q, err := buildPreferencesQuery(movie.PreferenceCriteria{
		Actors:    []string{"Al Pacino"},
		Directors: []string{"Michael Mann", "Ridley Scott"},
	})
	require.NoError(t, err)
	require.NoError(t, q.Validate())
	assert.Contains(t, q.SQL, "c.directors && CAST(@directors AS TEXT[]) OR a.actors && CAST(@actors AS TEXT[])")
	assert.NotContains(t, q.SQL, "Pacino")

	_, err = buildPreferencesQuery(movie.PreferenceCriteria{})
	assert.Error(t, err)
}

func TestStatementsUseNamedParameters(t *testing.T) {
	statements := []string{
		sqlTopRatedByGenre, sqlLegacyTopRated, sqlRecommendations, sqlFavoriteGenreMovies,
		sqlHiddenGems, sqlNewReleases, sqlPopular, sqlTrending, sqlShortHighlyRated,
		sqlAverageRatings, sqlMovieDetail, sqlPosterSource, sqlSetPoster,
		sqlReviewExists, sqlInsertReview, sqlUpdateReview, sqlReviewsByUsername, sqlMovieComments,
		sqlCreateUser, sqlUserByUsername, sqlWatchlist, sqlToggleWatchlist, sqlWatchlistMovies,
		sqlProfileReviews, sqlMostReviewedGenre, sqlHighestRatedGenre, sqlLongestMovie,
		sqlMostReviewedActor, sqlFavoriteDecade,
	}
	for _, sql := range statements {
		assert.NotContains(t, sql, "$", "positional placeholder in %q", sql)
		assert.NotContains(t, sql, "%s", "format verb in %q", sql)
		assert.False(t, strings.Contains(sql, "@") && strings.Contains(sql, "::"), "cast adjacent to a named parameter in %q", sql)
	}
}
