package moderation

import (
	"context"
	"errors"
	"strings"

	"github.com/blogora/moderation/pkg/infra/safesearch"
	"github.com/blogora/moderation/pkg/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrContentRequired is returned when a request carries no content to
// moderate. The HTTP layer maps it to a 400.
var ErrContentRequired = errors.New("moderation: content is required")

// Service is the moderation pipeline entry point. It is stateless: callers
// own persisting the verdict.
//
//go:generate mockery --name=Service --dir=. --output=./mocks --filename=service_mock.go --case=underscore --with-expecter
type Service interface {
	Moderate(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	text   *TextAnalyzer
	urls   *URLAnalyzer
	images *ImageAnalyzer
	logger *logrus.Logger
}

func NewService(tables *Tables, classifier safesearch.Client, logger *logrus.Logger) Service {
	return &service{
		text:   NewTextAnalyzer(tables, logger),
		urls:   NewURLAnalyzer(tables, logger),
		images: NewImageAnalyzer(tables, classifier, logger),
		logger: logger,
	}
}

func (s *service) Moderate(ctx context.Context, req Request) (*Result, error) {
	if req.Content == "" {
		return nil, ErrContentRequired
	}

	corpus := strings.TrimSpace(req.Title + " " + req.Content)

	// Explicit images first, then markdown-embedded ones. Duplicates are
	// kept; each occurrence is scored.
	images := make([]string, 0, len(req.Images))
	images = append(images, req.Images...)
	images = append(images, s.text.tables.ExtractMarkdownImages(req.Content)...)

	textResult := s.text.Analyze(corpus)
	urlResult := s.urls.Analyze(corpus)
	imageResult := s.images.Analyze(ctx, images)

	merged := mergeResults(textResult, urlResult, imageResult)

	verdict := "clean"
	if merged.IsNSFW {
		verdict = "nsfw"
	}
	metrics.ModerationVerdictTotal.WithLabelValues(verdict).Inc()

	s.logger.WithFields(logrus.Fields{
		"moderation_id": uuid.NewString(),
		"is_nsfw":       merged.IsNSFW,
		"confidence":    merged.Confidence,
		"categories":    merged.Categories,
		"reason_count":  len(merged.Reasons),
		"image_count":   len(images),
	}).Info("moderation verdict")

	return merged, nil
}
