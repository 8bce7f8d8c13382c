package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// schema is the Postgres layout the movie queries are written against.
// Every statement is idempotent so Migrate can run on each deploy.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		profile_img TEXT,
		watchlist INTEGER[] NOT NULL DEFAULT '{}'
	);`,
	`CREATE TABLE IF NOT EXISTS movies (
		movieid INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		genre TEXT[] NOT NULL DEFAULT '{}',
		duration INTEGER,
		releaseyear INTEGER,
		poster_url TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS ratings (
		ratingid SERIAL PRIMARY KEY,
		userid INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		movieid INTEGER NOT NULL REFERENCES movies(movieid) ON DELETE CASCADE,
		rating NUMERIC(4,2) NOT NULL,
		review TEXT,
		timestamp BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		UNIQUE (userid, movieid)
	);`,
	`CREATE TABLE IF NOT EXISTS crew (
		movieid INTEGER PRIMARY KEY REFERENCES movies(movieid) ON DELETE CASCADE,
		directors TEXT[] NOT NULL DEFAULT '{}',
		writers TEXT[] NOT NULL DEFAULT '{}'
	);`,
	`CREATE TABLE IF NOT EXISTS actors (
		movieid INTEGER PRIMARY KEY REFERENCES movies(movieid) ON DELETE CASCADE,
		actors TEXT[] NOT NULL DEFAULT '{}'
	);`,
	`CREATE TABLE IF NOT EXISTS links (
		movieid INTEGER PRIMARY KEY REFERENCES movies(movieid) ON DELETE CASCADE,
		imdbid TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_movieid ON ratings(movieid);`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_userid ON ratings(userid);`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_timestamp ON ratings(timestamp);`,
	`CREATE INDEX IF NOT EXISTS idx_movies_genre ON movies USING GIN (genre);`,
	`CREATE INDEX IF NOT EXISTS idx_movies_releaseyear ON movies(releaseyear);`,
}

// Migrate applies the schema. Only Postgres is supported because the
// movie queries depend on array columns.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if name := db.Dialector.Name(); name != "postgres" {
		return fmt.Errorf("schema migration requires postgres, got %s", name)
	}

	for _, stmt := range schema {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	logrus.Infof("[DB] schema up to date (%d statements)", len(schema))
	return nil
}
