package safesearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blogora/moderation/pkg/infra/cache"
	"github.com/sirupsen/logrus"
)

const annotationKeyPattern = "safesearch:annotation:%s"

type cachingClient struct {
	inner  Client
	cache  cache.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachingClient decorates a Client with a redis read-through cache keyed by
// image URL. Cache trouble is logged and ignored; the inner classifier is the
// source of truth.
func NewCachingClient(inner Client, cacheClient cache.Client, ttl time.Duration, logger *logrus.Logger) Client {
	return &cachingClient{
		inner:  inner,
		cache:  cacheClient,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *cachingClient) Available() bool {
	return c.inner.Available()
}

func (c *cachingClient) Classify(ctx context.Context, imageURL string) (*Annotation, error) {
	key := annotationKey(imageURL)

	if cached, err := c.cache.Get(ctx, key); err == nil {
		var annotation Annotation
		if err := json.Unmarshal([]byte(cached), &annotation); err == nil {
			return &annotation, nil
		}
		c.logger.WithField("key", key).Warn("discarding malformed cached annotation")
	}

	annotation, err := c.inner.Classify(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(annotation); err == nil {
		if err := c.cache.Set(ctx, key, string(encoded), c.ttl); err != nil {
			c.logger.WithError(err).Debug("failed to cache annotation")
		}
	}

	return annotation, nil
}

func annotationKey(imageURL string) string {
	sum := sha256.Sum256([]byte(imageURL))
	return fmt.Sprintf(annotationKeyPattern, hex.EncodeToString(sum[:]))
}
