package review

import "context"

const (
	MinRating = 1
	MaxRating = 10
)

type Review struct {
	MovieID   int64   `json:"movieid" gorm:"column:movieid"`
	UserID    int64   `json:"userid" gorm:"column:userid"`
	Rating    float64 `json:"rating" gorm:"column:rating"`
	Review    *string `json:"review" gorm:"column:review"`
	Timestamp int64   `json:"timestamp" gorm:"column:timestamp"`
}

type SubmitRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// SubmitResult tells a first review (Created) apart from an edit.
type SubmitResult struct {
	Review  Review `json:"review"`
	Created bool   `json:"created"`
}

// UserReview is a review listed on its author's page.
type UserReview struct {
	MovieID   int64   `json:"movieid" gorm:"column:movieid"`
	Title     string  `json:"title" gorm:"column:title"`
	Rating    float64 `json:"rating" gorm:"column:rating"`
	Timestamp int64   `json:"timestamp" gorm:"column:timestamp"`
	PostedAt  string  `json:"posted_at" gorm:"-"`
}

// Comment is a written review shown on a movie page.
type Comment struct {
	Rating    float64 `json:"rating" gorm:"column:rating"`
	Review    string  `json:"review" gorm:"column:review"`
	Username  string  `json:"username" gorm:"column:username"`
	Timestamp int64   `json:"timestamp" gorm:"column:timestamp"`
	PostedAgo string  `json:"posted_ago" gorm:"-"`
}

type IReviewRepository interface {
	Exists(ctx context.Context, userID, movieID int64) (bool, error)
	// Insert returns inserted=false when a review for the pair already exists.
	Insert(ctx context.Context, r Review) (saved Review, inserted bool, err error)
	Update(ctx context.Context, r Review) (Review, error)
	ByUsername(ctx context.Context, username string) ([]UserReview, error)
	Comments(ctx context.Context, movieID int64) ([]Comment, error)
}

type IReviewUsecase interface {
	Submit(ctx context.Context, userID, movieID int64, req SubmitRequest) (SubmitResult, error)
	UserReviews(ctx context.Context, username string) ([]UserReview, error)
	Comments(ctx context.Context, movieID int64) ([]Comment, error)
}
