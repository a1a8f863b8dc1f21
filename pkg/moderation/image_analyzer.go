package moderation

import (
	"context"
	"fmt"
	"math"

	"github.com/blogora/moderation/pkg/infra/safesearch"
	"github.com/blogora/moderation/pkg/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	imageScoreThreshold   = 0.7
	patternOnlyWeight     = 0.5
	patternFallbackWeight = 0.4

	defaultImageConcurrency = 4
)

// ImageAnalyzer scores image URLs through the safe-search classifier with a
// three-tier degradation chain: full classification, per-image pattern
// fallback when one call fails, full-batch pattern fallback when the
// classifier is unavailable. It never returns an error; an external outage
// must not fail the post-write path.
type ImageAnalyzer struct {
	tables      *Tables
	classifier  safesearch.Client
	logger      *logrus.Logger
	concurrency int
}

func NewImageAnalyzer(tables *Tables, classifier safesearch.Client, logger *logrus.Logger) *ImageAnalyzer {
	return &ImageAnalyzer{
		tables:      tables,
		classifier:  classifier,
		logger:      logger,
		concurrency: defaultImageConcurrency,
	}
}

func (a *ImageAnalyzer) Analyze(ctx context.Context, imageURLs []string) *AnalysisResult {
	result := newAnalysisResult()
	if len(imageURLs) == 0 {
		result.finalize()
		return result
	}

	if !a.classifier.Available() {
		metrics.ClassifierFallbackTotal.WithLabelValues("full_batch").Inc()
		for _, imageURL := range imageURLs {
			a.scoreByPattern(result, imageURL, patternOnlyWeight)
		}
		result.finalize()
		return result
	}

	// Classification calls run concurrently but contributions are folded in
	// input order, keeping the result deterministic for fixed responses.
	annotations := make([]*safesearch.Annotation, len(imageURLs))
	errs := make([]error, len(imageURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, imageURL := range imageURLs {
		i, imageURL := i, imageURL
		g.Go(func() error {
			annotations[i], errs[i] = a.classifier.Classify(gctx, imageURL)
			return nil
		})
	}
	_ = g.Wait()

	for i, imageURL := range imageURLs {
		if errs[i] != nil {
			a.logger.WithFields(logrus.Fields{
				"image_url": imageURL,
				"error":     errs[i].Error(),
			}).Warn("image classification failed, using pattern fallback")
			metrics.ClassifierFallbackTotal.WithLabelValues("per_image").Inc()
			a.scoreByPattern(result, imageURL, patternFallbackWeight)
			continue
		}
		a.scoreByAnnotation(result, imageURL, annotations[i])
	}

	result.finalize()
	return result
}

func (a *ImageAnalyzer) scoreByAnnotation(result *AnalysisResult, imageURL string, annotation *safesearch.Annotation) {
	adult := annotation.Adult.Score()
	violence := annotation.Violence.Score()
	racy := annotation.Racy.Score()

	highest := math.Max(adult, math.Max(violence, racy))
	if highest < imageScoreThreshold {
		return
	}

	// Summed across images, unlike the cross-analyzer merge which takes max.
	result.Confidence += highest
	result.Detected = append(result.Detected, imageURL)

	if adult >= imageScoreThreshold {
		result.Reasons = append(result.Reasons, fmt.Sprintf("Imagen con contenido adulto (%s): %s", annotation.Adult, imageURL))
		result.addCategory(CategoryAdult)
	}
	if violence >= imageScoreThreshold {
		result.Reasons = append(result.Reasons, fmt.Sprintf("Imagen con contenido violento (%s): %s", annotation.Violence, imageURL))
		result.addCategory(CategoryViolence)
	}
	if racy >= imageScoreThreshold {
		result.Reasons = append(result.Reasons, fmt.Sprintf("Imagen con contenido sugerente (%s): %s", annotation.Racy, imageURL))
		result.addCategory(CategorySuggestive)
	}
}

func (a *ImageAnalyzer) scoreByPattern(result *AnalysisResult, imageURL string, weight float64) {
	if !a.tables.MatchesSuspiciousPattern(imageURL) {
		return
	}
	result.Confidence += weight
	result.Reasons = append(result.Reasons, fmt.Sprintf("URL de imagen sospechosa: %s", imageURL))
	result.Detected = append(result.Detected, imageURL)
	result.addCategory(CategorySuspicious)
}
