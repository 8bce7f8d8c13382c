package usecase

import (
	"context"
	"time"

	"github.com/lib/pq"
	domainMovie "github.com/movi-app/movi/domains/movie"
	domainUser "github.com/movi-app/movi/domains/user"
	"github.com/movi-app/movi/pkg/query"
	"github.com/movi-app/movi/pkg/timeutils"
	"github.com/movi-app/movi/validations"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type serviceUser struct {
	repo domainUser.IUserRepository
	now  func() time.Time
}

func NewUserService(repo domainUser.IUserRepository) domainUser.IUserUsecase {
	return &serviceUser{repo: repo, now: time.Now}
}

func (service serviceUser) ToggleWatchlist(ctx context.Context, userID int64, request domainUser.ToggleWatchlistRequest) (domainUser.WatchlistToggle, error) {
	if err := validations.ValidateMovieID(ctx, request.MovieID); err != nil {
		return domainUser.WatchlistToggle{}, err
	}

	toggle, err := service.repo.ToggleWatchlist(ctx, userID, request.MovieID)
	if err != nil {
		return domainUser.WatchlistToggle{}, describeNotFound(err, "user not found")
	}
	if toggle.Watchlist == nil {
		toggle.Watchlist = pq.Int64Array{}
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "movie_id": request.MovieID, "added": toggle.Added}).Debug("[USER] watchlist toggled")
	return toggle, nil
}

func (service serviceUser) Watchlist(ctx context.Context, userID int64) (pq.Int64Array, error) {
	list, err := service.repo.Watchlist(ctx, userID)
	if err != nil {
		return nil, describeNotFound(err, "user not found")
	}
	if list == nil {
		list = pq.Int64Array{}
	}
	return list, nil
}

// Profile gathers the user's watchlist, reviews and stats concurrently.
// Sections with no data come back empty; any other failure fails the profile.
func (service serviceUser) Profile(ctx context.Context, username string) (domainUser.Profile, error) {
	if username == "" {
		return domainUser.Profile{}, validationError("username is required")
	}

	user, err := service.repo.ByUsername(ctx, username)
	if err != nil {
		return domainUser.Profile{}, describeNotFound(err, "user not found")
	}

	profile := domainUser.Profile{User: user}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		movies, err := emptyOnNotFound(service.repo.WatchlistMovies(gctx, user.ID))
		profile.Watchlist = movies
		return err
	})
	g.Go(func() error {
		reviews, err := emptyOnNotFound(service.repo.Reviews(gctx, user.ID))
		now := service.now()
		for i := range reviews {
			reviews[i].PostedAgo = timeutils.Relative(reviews[i].Timestamp, now)
		}
		profile.Reviews = reviews
		return err
	})
	g.Go(func() error {
		v, err := optional(service.repo.MostReviewedGenre(gctx, user.ID))
		profile.Stats.MostReviewedGenre = v
		return err
	})
	g.Go(func() error {
		v, err := optional(service.repo.HighestRatedGenre(gctx, user.ID))
		profile.Stats.HighestRatedGenre = v
		return err
	})
	g.Go(func() error {
		v, err := optional(service.repo.LongestMovie(gctx, user.ID))
		profile.Stats.LongestMovie = v
		return err
	})
	g.Go(func() error {
		v, err := optional(service.repo.MostReviewedActor(gctx, user.ID))
		profile.Stats.MostReviewedActor = v
		return err
	})
	g.Go(func() error {
		v, err := optional(service.repo.FavoriteDecade(gctx, user.ID))
		profile.Stats.FavoriteDecade = v
		return err
	})

	if err := g.Wait(); err != nil {
		return domainUser.Profile{}, err
	}
	if profile.Watchlist == nil {
		profile.Watchlist = []domainMovie.Summary{}
	}
	if profile.Reviews == nil {
		profile.Reviews = []domainUser.ProfileReview{}
	}
	return profile, nil
}

// optional maps an empty result to nil.
func optional[T any](v T, err error) (*T, error) {
	if query.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
