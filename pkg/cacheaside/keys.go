package cacheaside

import "strconv"

// Key layouts are shared with existing deployments; keep them stable.

func TopRatedGenreKey(genre string) string {
	return "top_rated_genre:" + genre
}

func RecommendationsKey(userID int64) string {
	return "user_recommendations:" + strconv.FormatInt(userID, 10)
}

func FavoriteGenreKey(userID int64) string {
	return "favorite_genre_movies:" + strconv.FormatInt(userID, 10)
}
