package rest

import (
	"github.com/gofiber/fiber/v2"
	domainMovie "github.com/movi-app/movi/domains/movie"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/utils"
)

type Movie struct {
	Service domainMovie.IMovieUsecase
}

// InitRestMovie registers the movie listings. Fixed paths are registered before
// /movies/:movieId so they are not captured by it.
func InitRestMovie(app fiber.Router, service domainMovie.IMovieUsecase, authenticated fiber.Handler) Movie {
	rest := Movie{Service: service}

	group := app.Group("/movies")
	group.Get("/search", rest.Search)
	group.Get("/top-rated/:genre", rest.LegacyTopRated)
	group.Get("/top-rated-genre/:genre", rest.TopRatedByGenre)
	group.Get("/preferences", rest.Preferences)
	group.Get("/recommendations", authenticated, rest.Recommendations)
	group.Get("/new-releases", rest.NewReleases)
	group.Get("/hidden-gems", rest.HiddenGem)
	group.Get("/short-highly-rated-movies", authenticated, rest.ShortHighlyRated)
	group.Get("/favorite-genre-movies/:userid", rest.FavoriteGenreMovies)
	group.Get("/average-ratings", rest.AverageRatings)
	group.Get("/popular", rest.Popular)
	group.Get("/trending", rest.Trending)
	group.Get("/:movieId", rest.Detail)

	return rest
}

func (handler *Movie) Search(c *fiber.Ctx) error {
	var criteria domainMovie.SearchCriteria
	if err := c.QueryParser(&criteria); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("invalid search parameters"))
	}

	movies, err := handler.Service.Search(c.UserContext(), criteria)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Search completed",
		Results: movies,
	})
}

func (handler *Movie) TopRatedByGenre(c *fiber.Ctx) error {
	movies, err := handler.Service.TopRatedByGenre(c.UserContext(), c.Params("genre"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Top rated movies retrieved",
		Results: movies,
	})
}

func (handler *Movie) LegacyTopRated(c *fiber.Ctx) error {
	rows, err := handler.Service.LegacyTopRated(c.UserContext(), c.Params("genre"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Top rated movies retrieved",
		Results: rows,
	})
}

func (handler *Movie) Preferences(c *fiber.Ctx) error {
	criteria := domainMovie.PreferenceCriteria{
		Actors:    csvQuery(c, "actors"),
		Directors: csvQuery(c, "directors"),
	}

	matches, err := handler.Service.Preferences(c.UserContext(), criteria)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Movies matching preferences retrieved",
		Results: matches,
	})
}

func (handler *Movie) Recommendations(c *fiber.Ctx) error {
	movies, err := handler.Service.Recommendations(c.UserContext(), identity(c).ID)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Recommendations retrieved",
		Results: movies,
	})
}

func (handler *Movie) NewReleases(c *fiber.Ctx) error {
	movies, err := handler.Service.NewReleases(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "New releases retrieved",
		Results: movies,
	})
}

func (handler *Movie) HiddenGem(c *fiber.Ctx) error {
	movie, err := handler.Service.HiddenGem(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Hidden gem retrieved",
		Results: movie,
	})
}

func (handler *Movie) ShortHighlyRated(c *fiber.Ctx) error {
	movies, err := handler.Service.ShortHighlyRated(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Short highly rated movies retrieved",
		Results: movies,
	})
}

func (handler *Movie) FavoriteGenreMovies(c *fiber.Ctx) error {
	movies, err := handler.Service.FavoriteGenreMovies(c.UserContext(), int64Param(c, "userid"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Favorite genre movies retrieved",
		Results: movies,
	})
}

func (handler *Movie) AverageRatings(c *fiber.Ctx) error {
	ratings, err := handler.Service.AverageRatings(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Average ratings retrieved",
		Results: ratings,
	})
}

func (handler *Movie) Popular(c *fiber.Ctx) error {
	limit := popularLimit(c)

	movies, err := handler.Service.Popular(c.UserContext(), limit)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Popular movies retrieved",
		Results: movies,
	})
}

func (handler *Movie) Trending(c *fiber.Ctx) error {
	movies, err := handler.Service.Trending(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Trending movies retrieved",
		Results: movies,
	})
}

func (handler *Movie) Detail(c *fiber.Ctx) error {
	detail, err := handler.Service.Detail(c.UserContext(), int64Param(c, "movieId"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Movie retrieved",
		Results: detail,
	})
}
