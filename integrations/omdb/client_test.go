package omdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	domainMovie "github.com/movi-app/movi/domains/movie"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func stubClient(apiKey string, fn roundTripperFunc) *Client {
	return NewClient(Config{APIKey: apiKey, BaseURL: "https://omdb.test/"}, &http.Client{Transport: fn})
}

func TestIMDbID(t *testing.T) {
	assert.Equal(t, "tt0114709", IMDbID("114709"))
	assert.Equal(t, "tt0114709", IMDbID("0114709"))
	assert.Equal(t, "tt0114709", IMDbID("tt0114709"))
	assert.Equal(t, "tt12345678", IMDbID("12345678"))
}

func TestPosterURL_Success(t *testing.T) {
	var gotURL string
	client := stubClient("k3y", func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"Title":"Toy Story","Poster":"https://img.test/toy.jpg","Response":"True"}`), nil
	})

	poster, err := client.PosterURL(context.Background(), "114709")
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/toy.jpg", poster)
	assert.Equal(t, "https://omdb.test/?apikey=k3y&i=tt0114709", gotURL)
}

func TestPosterURL_APIErrorResponse(t *testing.T) {
	client := stubClient("k3y", func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"Response":"False","Error":"Incorrect IMDb ID."}`), nil
	})

	_, err := client.PosterURL(context.Background(), "1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect IMDb ID.", apiErr.Message)
}

func TestPosterURL_MissingPoster(t *testing.T) {
	client := stubClient("k3y", func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"Title":"Obscure","Poster":"N/A","Response":"True"}`), nil
	})

	_, err := client.PosterURL(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNoPoster)
	assert.ErrorIs(t, err, domainMovie.ErrNoPoster)
}

func TestPosterURL_NotConfigured(t *testing.T) {
	called := false
	client := stubClient("", func(req *http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unreachable")
	})

	_, err := client.PosterURL(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, called)
}

func TestPosterURL_BreakerOpensAfterTransportFailures(t *testing.T) {
	calls := 0
	client := stubClient("k3y", func(req *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("connection reset")
	})

	for i := 0; i < 5; i++ {
		_, err := client.PosterURL(context.Background(), "42")
		require.Error(t, err)
	}

	_, err := client.PosterURL(context.Background(), "42")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, calls)
}

func TestPosterURL_APIErrorsDoNotTripBreaker(t *testing.T) {
	client := stubClient("k3y", func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"Response":"False","Error":"Movie not found!"}`), nil
	})

	for i := 0; i < 10; i++ {
		_, err := client.PosterURL(context.Background(), "42")
		assert.True(t, isAPIError(err))
	}
	assert.Equal(t, gobreaker.StateClosed, client.cb.State())
}
