package usecase

import (
	"context"
	"fmt"
	"time"

	domainReview "github.com/movi-app/movi/domains/review"
	"github.com/movi-app/movi/pkg/timeutils"
	"github.com/movi-app/movi/validations"
	"github.com/sirupsen/logrus"
)

type serviceReview struct {
	repo domainReview.IReviewRepository
	now  func() time.Time
}

func NewReviewService(repo domainReview.IReviewRepository) domainReview.IReviewUsecase {
	return &serviceReview{repo: repo, now: time.Now}
}

// Submit creates the user's review of a movie or replaces the existing one.
// Aggregates served from the cache pick the change up when their entries expire.
func (service serviceReview) Submit(ctx context.Context, userID, movieID int64, request domainReview.SubmitRequest) (domainReview.SubmitResult, error) {
	if err := validations.ValidateSubmitReview(ctx, request); err != nil {
		return domainReview.SubmitResult{}, err
	}
	if err := validations.ValidateMovieID(ctx, movieID); err != nil {
		return domainReview.SubmitResult{}, err
	}

	candidate := domainReview.Review{
		UserID:  userID,
		MovieID: movieID,
		Rating:  float64(request.Rating),
	}
	if request.Review != "" {
		text := request.Review
		candidate.Review = &text
	}

	exists, err := service.repo.Exists(ctx, userID, movieID)
	if err != nil {
		return domainReview.SubmitResult{}, err
	}

	if !exists {
		saved, inserted, err := service.repo.Insert(ctx, candidate)
		if err != nil {
			return domainReview.SubmitResult{}, err
		}
		if inserted {
			logrus.WithFields(logrus.Fields{"user_id": userID, "movie_id": movieID}).Info("[REVIEW] review posted")
			return domainReview.SubmitResult{Review: saved, Created: true}, nil
		}
	}

	saved, err := service.repo.Update(ctx, candidate)
	if err != nil {
		return domainReview.SubmitResult{}, describeNotFound(err, "review not found")
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "movie_id": movieID}).Info("[REVIEW] review updated")
	return domainReview.SubmitResult{Review: saved, Created: false}, nil
}

func (service serviceReview) UserReviews(ctx context.Context, username string) ([]domainReview.UserReview, error) {
	if username == "" {
		return nil, validationError("username is required")
	}

	reviews, err := service.repo.ByUsername(ctx, username)
	if err != nil {
		return nil, describeNotFound(err, fmt.Sprintf("no reviews found for user: %s", username))
	}
	for i := range reviews {
		reviews[i].PostedAt = timeutils.FormatTimestamp(reviews[i].Timestamp)
	}
	return reviews, nil
}

func (service serviceReview) Comments(ctx context.Context, movieID int64) ([]domainReview.Comment, error) {
	if err := validations.ValidateMovieID(ctx, movieID); err != nil {
		return nil, err
	}

	comments, err := service.repo.Comments(ctx, movieID)
	if err != nil {
		return nil, describeNotFound(err, "no comments found for this movie")
	}
	now := service.now()
	for i := range comments {
		comments[i].PostedAgo = timeutils.Relative(comments[i].Timestamp, now)
	}
	return comments, nil
}
