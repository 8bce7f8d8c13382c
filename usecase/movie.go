package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lib/pq"
	"github.com/movi-app/movi/core/config"
	domainMovie "github.com/movi-app/movi/domains/movie"
	"github.com/movi-app/movi/pkg/cacheaside"
	"github.com/movi-app/movi/pkg/query"
	"github.com/movi-app/movi/pkg/timeutils"
	"github.com/movi-app/movi/pkg/workerpool"
	"github.com/movi-app/movi/validations"
	"github.com/sirupsen/logrus"
)

type serviceMovie struct {
	repo    domainMovie.IMovieRepository
	cache   *cacheaside.Accessor
	ttl     config.CacheConfig
	posters domainMovie.PosterLookup
	writes  *workerpool.Pool
	now     func() time.Time
	pick    func(n int) int
}

// NewMovieService wires the movie queries. posters may be nil, in which case
// movies without artwork are returned as they are. Resolved posters are stored
// through writes; a nil pool stores them inline.
func NewMovieService(repo domainMovie.IMovieRepository, cache *cacheaside.Accessor, ttl config.CacheConfig, posters domainMovie.PosterLookup, writes *workerpool.Pool) domainMovie.IMovieUsecase {
	return &serviceMovie{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		posters: posters,
		writes:  writes,
		now:     time.Now,
		pick:    rand.IntN,
	}
}

func (service serviceMovie) Search(ctx context.Context, criteria domainMovie.SearchCriteria) ([]domainMovie.Summary, error) {
	if err := validations.ValidateSearch(ctx, criteria); err != nil {
		return nil, err
	}
	movies, err := service.repo.Search(ctx, criteria)
	return movies, describeNotFound(err, "no movies found matching the search criteria")
}

func (service serviceMovie) TopRatedByGenre(ctx context.Context, genre string) ([]domainMovie.Summary, error) {
	if err := validations.ValidateGenre(ctx, genre); err != nil {
		return nil, err
	}
	movies, err := cacheaside.FetchCached(ctx, service.cache, cacheaside.TopRatedGenreKey(genre), service.ttl.TopRatedGenreTTL,
		func(ctx context.Context) ([]domainMovie.Summary, error) {
			return service.repo.TopRatedByGenre(ctx, genre)
		})
	return movies, describeNotFound(err, "no movies found for the specified genre")
}

func (service serviceMovie) LegacyTopRated(ctx context.Context, genre string) (query.RowSet, error) {
	if err := validations.ValidateGenre(ctx, genre); err != nil {
		return nil, err
	}
	rows, err := service.repo.LegacyTopRated(ctx, genre)
	return rows, describeNotFound(err, "no rated movies found for the specified genre")
}

func (service serviceMovie) Recommendations(ctx context.Context, userID int64) ([]domainMovie.Summary, error) {
	movies, err := cacheaside.FetchCached(ctx, service.cache, cacheaside.RecommendationsKey(userID), service.ttl.RecommendationsTTL,
		func(ctx context.Context) ([]domainMovie.Summary, error) {
			return service.repo.Recommendations(ctx, userID)
		})
	return movies, describeNotFound(err, "no recommendations found")
}

func (service serviceMovie) FavoriteGenreMovies(ctx context.Context, userID int64) ([]domainMovie.Summary, error) {
	if userID <= 0 {
		return nil, validationError("user id must be a positive integer")
	}
	movies, err := cacheaside.FetchCached(ctx, service.cache, cacheaside.FavoriteGenreKey(userID), service.ttl.FavoriteGenreTTL,
		func(ctx context.Context) ([]domainMovie.Summary, error) {
			return service.repo.FavoriteGenreMovies(ctx, userID, timeutils.WindowStart(service.now()))
		})
	return movies, describeNotFound(err, fmt.Sprintf("no movies found for user: %d", userID))
}

func (service serviceMovie) HiddenGem(ctx context.Context) (domainMovie.Summary, error) {
	gems, err := service.repo.HiddenGems(ctx)
	if err != nil {
		return domainMovie.Summary{}, describeNotFound(err, "no hidden gems found")
	}
	return gems[service.pick(len(gems))], nil
}

func (service serviceMovie) NewReleases(ctx context.Context) ([]domainMovie.Summary, error) {
	return emptyOnNotFound(service.repo.NewReleases(ctx))
}

func (service serviceMovie) Popular(ctx context.Context, limit int) ([]domainMovie.Summary, error) {
	if limit == 0 {
		limit = domainMovie.DefaultPopularLimit
	}
	if err := validations.ValidatePopularLimit(ctx, limit); err != nil {
		return nil, err
	}
	movies, err := service.repo.Popular(ctx, limit)
	return movies, describeNotFound(err, "no popular movies found with the specified criteria")
}

func (service serviceMovie) Trending(ctx context.Context) ([]domainMovie.Summary, error) {
	movies, err := service.repo.Trending(ctx, timeutils.WindowStart(service.now()))
	return movies, describeNotFound(err, "no trending movies found")
}

func (service serviceMovie) ShortHighlyRated(ctx context.Context) ([]domainMovie.Summary, error) {
	movies, err := service.repo.ShortHighlyRated(ctx)
	return movies, describeNotFound(err, "no movies found with the specified criteria")
}

func (service serviceMovie) AverageRatings(ctx context.Context) ([]domainMovie.AverageRating, error) {
	ratings, err := service.repo.AverageRatings(ctx)
	return ratings, describeNotFound(err, "no movie ratings found")
}

func (service serviceMovie) Preferences(ctx context.Context, criteria domainMovie.PreferenceCriteria) ([]domainMovie.PreferenceMatch, error) {
	if err := validations.ValidatePreferences(ctx, criteria); err != nil {
		return nil, err
	}
	matches, err := service.repo.Preferences(ctx, criteria)
	return matches, describeNotFound(err, "no movies found for the given actors or directors")
}

func (service serviceMovie) Detail(ctx context.Context, movieID int64) (domainMovie.Detail, error) {
	if err := validations.ValidateMovieID(ctx, movieID); err != nil {
		return domainMovie.Detail{}, err
	}

	detail, err := service.repo.Detail(ctx, movieID)
	if err != nil {
		return domainMovie.Detail{}, describeNotFound(err, "movie not found")
	}

	detail.Writers = nonNil(detail.Writers)
	detail.Directors = nonNil(detail.Directors)
	detail.Actors = nonNil(detail.Actors)

	switch {
	case detail.PosterURL == nil:
		if poster, ok := service.backfillPoster(ctx, movieID); ok {
			detail.PosterURL = &poster
		}
	case *detail.PosterURL == domainMovie.NoPoster:
		detail.PosterURL = nil
	}
	return detail, nil
}

// backfillPoster resolves a missing poster once and stores it on the movie.
// Failures are logged; the page is served without artwork.
func (service serviceMovie) backfillPoster(ctx context.Context, movieID int64) (string, bool) {
	if service.posters == nil {
		return "", false
	}

	log := logrus.WithField("movie_id", movieID)
	src, err := service.repo.PosterSource(ctx, movieID)
	if err != nil {
		if !query.IsNotFound(err) {
			log.WithError(err).Warn("[OMDB] failed to load poster source")
		}
		return "", false
	}
	if src.PosterURL != nil && *src.PosterURL != "" {
		if *src.PosterURL == domainMovie.NoPoster {
			return "", false
		}
		return *src.PosterURL, true
	}

	poster, err := service.posters.PosterURL(ctx, src.IMDbID)
	if errors.Is(err, domainMovie.ErrNoPoster) {
		log.Debug("[OMDB] no poster for title, remembering it")
		service.storePoster(ctx, movieID, domainMovie.NoPoster)
		return "", false
	}
	if err != nil {
		log.WithError(err).Warn("[OMDB] poster lookup failed")
		return "", false
	}
	service.storePoster(ctx, movieID, poster)
	return poster, true
}

func (service serviceMovie) storePoster(ctx context.Context, movieID int64, poster string) {
	persist := func(ctx context.Context) error {
		return service.repo.SetPoster(ctx, movieID, poster)
	}
	if service.writes != nil && service.writes.TryDispatch(workerpool.Job{
		Key:     fmt.Sprintf("poster:%d", movieID),
		Handler: persist,
	}) {
		return
	}
	if err := persist(ctx); err != nil {
		logrus.WithField("movie_id", movieID).WithError(err).Warn("[OMDB] failed to persist poster")
	}
}

func nonNil(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	return a
}
