package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	domainMovie "github.com/movi-app/movi/domains/movie"
	pkgError "github.com/movi-app/movi/pkg/error"
)

type QueryHandler struct {
	movieService domainMovie.IMovieUsecase
}

func InitMcpQuery(movieService domainMovie.IMovieUsecase) *QueryHandler {
	return &QueryHandler{movieService: movieService}
}

func (h *QueryHandler) AddQueryTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(h.toolSearch(), h.handleSearch)
	mcpServer.AddTool(h.toolDetails(), h.handleDetails)
	mcpServer.AddTool(h.toolTopRatedByGenre(), h.handleTopRatedByGenre)
	mcpServer.AddTool(h.toolTrending(), h.handleTrending)
}

func (h *QueryHandler) toolSearch() mcp.Tool {
	return mcp.NewTool(
		"movie_search",
		mcp.WithDescription("Search the movie catalog. Criteria are OR-ed together and at least one is required."),
		mcp.WithTitleAnnotation("Search Movies"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("title", mcp.Description("Part of the movie title.")),
		mcp.WithString("actors", mcp.Description("Part of an actor's name.")),
		mcp.WithString("directors", mcp.Description("Part of a director's name.")),
		mcp.WithString("writers", mcp.Description("Part of a writer's name.")),
		mcp.WithString("genre", mcp.Description("Exact genre, e.g. Comedy.")),
	)
}

func (h *QueryHandler) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria := domainMovie.SearchCriteria{
		Title:     request.GetString("title", ""),
		Actors:    request.GetString("actors", ""),
		Directors: request.GetString("directors", ""),
		Writers:   request.GetString("writers", ""),
		Genre:     request.GetString("genre", ""),
	}

	movies, err := h.movieService.Search(ctx, criteria)
	if err != nil {
		return toolError(err)
	}

	fallback := fmt.Sprintf("Found %d movies", len(movies))
	return mcp.NewToolResultStructured(map[string]any{"movies": movies}, fallback), nil
}

func (h *QueryHandler) toolDetails() mcp.Tool {
	return mcp.NewTool(
		"movie_details",
		mcp.WithDescription("Get a movie with its average rating, writers, directors and actors."),
		mcp.WithTitleAnnotation("Movie Details"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("movie_id",
			mcp.Description("The movie identifier."),
			mcp.Required(),
		),
	)
}

func (h *QueryHandler) handleDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	movieID, err := request.RequireInt("movie_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detail, err := h.movieService.Detail(ctx, int64(movieID))
	if err != nil {
		return toolError(err)
	}

	fallback := fmt.Sprintf("%s (%d)", detail.Title, detail.MovieID)
	return mcp.NewToolResultStructured(detail, fallback), nil
}

func (h *QueryHandler) toolTopRatedByGenre() mcp.Tool {
	return mcp.NewTool(
		"movie_top_rated_by_genre",
		mcp.WithDescription("List the ten highest rated movies of a genre."),
		mcp.WithTitleAnnotation("Top Rated By Genre"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("genre",
			mcp.Description("Genre name, e.g. Comedy."),
			mcp.Required(),
		),
	)
}

func (h *QueryHandler) handleTopRatedByGenre(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	genre, err := request.RequireString("genre")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	movies, err := h.movieService.TopRatedByGenre(ctx, genre)
	if err != nil {
		return toolError(err)
	}

	fallback := fmt.Sprintf("Found %d top rated %s movies", len(movies), genre)
	return mcp.NewToolResultStructured(map[string]any{"movies": movies}, fallback), nil
}

func (h *QueryHandler) toolTrending() mcp.Tool {
	return mcp.NewTool(
		"movie_trending",
		mcp.WithDescription("List the movies with the most reviews in the last 30 days."),
		mcp.WithTitleAnnotation("Trending Movies"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (h *QueryHandler) handleTrending(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	movies, err := h.movieService.Trending(ctx)
	if err != nil {
		return toolError(err)
	}

	fallback := fmt.Sprintf("Found %d trending movies", len(movies))
	return mcp.NewToolResultStructured(map[string]any{"movies": movies}, fallback), nil
}

// toolError reports client-facing errors as tool results and returns the rest
// (including query failures) as protocol errors.
func toolError(err error) (*mcp.CallToolResult, error) {
	var queryErr *pkgError.QueryError
	if errors.As(err, &queryErr) {
		return nil, err
	}
	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		return mcp.NewToolResultError(generic.Error()), nil
	}
	return nil, err
}
