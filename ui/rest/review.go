package rest

import (
	"github.com/gofiber/fiber/v2"
	domainReview "github.com/movi-app/movi/domains/review"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/utils"
)

type Review struct {
	Service domainReview.IReviewUsecase
}

func InitRestReview(app fiber.Router, service domainReview.IReviewUsecase, authenticated fiber.Handler) Review {
	rest := Review{Service: service}
	app.Get("/movies/reviews/:username", rest.UserReviews)
	app.Get("/movies/:movieId/comments", rest.Comments)
	app.Post("/movies/:movieId/reviews", authenticated, rest.Submit)
	return rest
}

func (handler *Review) Submit(c *fiber.Ctx) error {
	movieID := int64Param(c, "movieId")

	var request domainReview.SubmitRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("rating must be between 1 and 10"))
	}

	result, err := handler.Service.Submit(c.UserContext(), identity(c).ID, movieID, request)
	utils.PanicIfNeeded(err)

	if result.Created {
		return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
			Status:  fiber.StatusCreated,
			Code:    "SUCCESS",
			Message: "Review posted successfully",
			Results: result.Review,
		})
	}
	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Review updated successfully",
		Results: result.Review,
	})
}

func (handler *Review) UserReviews(c *fiber.Ctx) error {
	reviews, err := handler.Service.UserReviews(c.UserContext(), c.Params("username"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "User reviews retrieved",
		Results: reviews,
	})
}

func (handler *Review) Comments(c *fiber.Ctx) error {
	comments, err := handler.Service.Comments(c.UserContext(), int64Param(c, "movieId"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Comments retrieved",
		Results: comments,
	})
}
