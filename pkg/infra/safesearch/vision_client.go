package safesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blogora/moderation/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const DefaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// ErrUnavailable is returned by Classify when the classifier is not usable at
// all (disabled client, missing credentials).
var ErrUnavailable = errors.New("safesearch: classifier unavailable")

type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type visionClient struct {
	cfg     Config
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
}

// NewVisionClient builds a Client backed by the Vision images:annotate REST
// endpoint with SAFE_SEARCH_DETECTION. Calls go through a circuit breaker so
// a dead endpoint degrades to the analyzer's pattern fallback instead of
// stalling every request.
func NewVisionClient(cfg Config, client httpx.Client, breaker httpx.CircuitBreaker, logger *logrus.Logger) Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &visionClient{
		cfg:     cfg,
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (c *visionClient) Available() bool {
	return c.cfg.APIKey != ""
}

type annotateRequest struct {
	Requests []annotateRequestItem `json:"requests"`
}

type annotateRequestItem struct {
	Image struct {
		Source struct {
			ImageURI string `json:"imageUri"`
		} `json:"source"`
	} `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		SafeSearchAnnotation *Annotation `json:"safeSearchAnnotation"`
		Error                *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func (c *visionClient) Classify(ctx context.Context, imageURL string) (*Annotation, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}

	var item annotateRequestItem
	item.Image.Source.ImageURI = imageURL
	item.Features = []annotateFeature{{Type: "SAFE_SEARCH_DETECTION"}}

	payload, err := json.Marshal(annotateRequest{Requests: []annotateRequestItem{item}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal annotate request: %w", err)
	}

	var annotation *Annotation
	err = c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, fmt.Sprintf("%s?key=%s", c.cfg.Endpoint, c.cfg.APIKey), bytes.NewReader(payload),
		)
		if err != nil {
			return fmt.Errorf("failed to create annotate request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("annotate request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read annotate response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("annotate returned status %d: %s", resp.StatusCode, string(body))
		}

		var decoded annotateResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return fmt.Errorf("failed to decode annotate response: %w", err)
		}
		if len(decoded.Responses) == 0 {
			return fmt.Errorf("annotate response contained no results")
		}
		first := decoded.Responses[0]
		if first.Error != nil {
			return fmt.Errorf("annotate error %d: %s", first.Error.Code, first.Error.Message)
		}
		if first.SafeSearchAnnotation == nil {
			return fmt.Errorf("annotate response missing safeSearchAnnotation")
		}
		annotation = first.SafeSearchAnnotation
		return nil
	})
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"image_url": imageURL,
			"error":     err.Error(),
		}).Warn("safesearch classification failed")
		return nil, err
	}

	return annotation, nil
}
