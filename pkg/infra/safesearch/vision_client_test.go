package safesearch_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/blogora/moderation/pkg/infra/httpx"
	httpxmocks "github.com/blogora/moderation/pkg/infra/httpx/mocks"
	"github.com/blogora/moderation/pkg/infra/safesearch"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func httpResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{},
	}
}

func newBreaker() httpx.CircuitBreaker {
	return httpx.NewCircuitBreaker("test", time.Second, 10)
}

func TestVisionClient_Classify(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	t.Run("decodes a safe search annotation", func(t *testing.T) {
		httpClient := new(httpxmocks.MockHTTPClient)
		httpClient.On("Do", mock.Anything).Return(httpResponse(200, `{
			"responses": [{
				"safeSearchAnnotation": {
					"adult": "VERY_LIKELY",
					"violence": "UNLIKELY",
					"racy": "POSSIBLE"
				}
			}]
		}`), nil)

		client := safesearch.NewVisionClient(
			safesearch.Config{APIKey: "test-key"}, httpClient, newBreaker(), logger,
		)
		require.True(t, client.Available())

		annotation, err := client.Classify(context.Background(), "https://example.com/cover.jpg")
		require.NoError(t, err)
		assert.Equal(t, safesearch.VeryLikely, annotation.Adult)
		assert.Equal(t, safesearch.Unlikely, annotation.Violence)
		assert.Equal(t, safesearch.Possible, annotation.Racy)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		httpClient := new(httpxmocks.MockHTTPClient)
		httpClient.On("Do", mock.Anything).Return(httpResponse(403, `{"error":"forbidden"}`), nil)

		client := safesearch.NewVisionClient(
			safesearch.Config{APIKey: "test-key"}, httpClient, newBreaker(), logger,
		)

		_, err := client.Classify(context.Background(), "https://example.com/cover.jpg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})

	t.Run("per-image API error is an error", func(t *testing.T) {
		httpClient := new(httpxmocks.MockHTTPClient)
		httpClient.On("Do", mock.Anything).Return(httpResponse(200, `{
			"responses": [{"error": {"code": 7, "message": "image not accessible"}}]
		}`), nil)

		client := safesearch.NewVisionClient(
			safesearch.Config{APIKey: "test-key"}, httpClient, newBreaker(), logger,
		)

		_, err := client.Classify(context.Background(), "https://example.com/cover.jpg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image not accessible")
	})

	t.Run("transport error is an error, not a panic", func(t *testing.T) {
		httpClient := new(httpxmocks.MockHTTPClient)
		httpClient.On("Do", mock.Anything).Return(nil, errors.New("connection refused"))

		client := safesearch.NewVisionClient(
			safesearch.Config{APIKey: "test-key"}, httpClient, newBreaker(), logger,
		)

		_, err := client.Classify(context.Background(), "https://example.com/cover.jpg")
		require.Error(t, err)
	})

	t.Run("missing api key means unavailable", func(t *testing.T) {
		httpClient := new(httpxmocks.MockHTTPClient)
		client := safesearch.NewVisionClient(
			safesearch.Config{}, httpClient, newBreaker(), logger,
		)
		assert.False(t, client.Available())

		_, err := client.Classify(context.Background(), "https://example.com/cover.jpg")
		assert.ErrorIs(t, err, safesearch.ErrUnavailable)
	})
}

func TestLikelihood_Score(t *testing.T) {
	cases := map[safesearch.Likelihood]float64{
		safesearch.Unknown:      0,
		safesearch.VeryUnlikely: 0.1,
		safesearch.Unlikely:     0.3,
		safesearch.Possible:     0.6,
		safesearch.Likely:       0.8,
		safesearch.VeryLikely:   0.9,
	}
	for likelihood, expected := range cases {
		assert.Equal(t, expected, likelihood.Score(), string(likelihood))
	}
	assert.Equal(t, 0.0, safesearch.Likelihood("SOMETHING_ELSE").Score())
}

func TestDisabledClient(t *testing.T) {
	client := safesearch.NewDisabledClient()
	assert.False(t, client.Available())
	_, err := client.Classify(context.Background(), "https://example.com/a.png")
	assert.ErrorIs(t, err, safesearch.ErrUnavailable)
}
