package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/blogora/moderation/pkg/infra/httpx"
	infraLogger "github.com/blogora/moderation/pkg/infra/logger"
	"github.com/blogora/moderation/pkg/moderation"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Post is the shape returned by the blog API listing endpoint.
type Post struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

type batchOptions struct {
	blogAPI       string
	moderationAPI string
	batchSize     int
	delay         time.Duration
}

func main() {
	opts := batchOptions{}

	rootCmd := &cobra.Command{
		Use:   "moderate-posts",
		Short: "Run existing blog posts through the moderation service in batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.blogAPI, "blog-api", "http://localhost:8080", "base URL of the blog API")
	rootCmd.Flags().StringVar(&opts.moderationAPI, "moderation-api", "http://localhost:8085", "base URL of the moderation service")
	rootCmd.Flags().IntVar(&opts.batchSize, "batch-size", 10, "number of posts moderated concurrently per batch")
	rootCmd.Flags().DurationVar(&opts.delay, "delay", time.Second, "pause between batches")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts batchOptions) error {
	logger := infraLogger.NewLogger()

	if opts.batchSize < 1 {
		return fmt.Errorf("batch-size must be at least 1, got %d", opts.batchSize)
	}

	client := httpx.NewFastHTTPClient(httpx.FastHTTPClientConfig{
		Timeout:   30 * time.Second,
		UserAgent: "blogora-moderate-posts",
	})

	posts, err := fetchPosts(ctx, client, opts.blogAPI)
	if err != nil {
		return fmt.Errorf("fetching posts: %w", err)
	}
	logger.WithField("count", len(posts)).Info("fetched posts for moderation")

	var moderated, flagged, failed int

	for start := 0; start < len(posts); start += opts.batchSize {
		end := start + opts.batchSize
		if end > len(posts) {
			end = len(posts)
		}
		batch := posts[start:end]

		results := make([]*moderation.Result, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, post := range batch {
			i, post := i, post
			g.Go(func() error {
				result, err := moderatePost(gctx, client, opts.moderationAPI, post)
				if err != nil {
					logger.WithError(err).WithField("post_id", post.ID).Error("moderation request failed")
					return nil
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, result := range results {
			if result == nil {
				failed++
				continue
			}
			moderated++
			if result.IsNSFW {
				flagged++
				logger.WithFields(logrus.Fields{
					"post_id":    batch[i].ID,
					"confidence": result.Confidence,
					"categories": result.Categories,
				}).Warn("post flagged as NSFW")
			}
		}

		if end < len(posts) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.delay):
			}
		}
	}

	logger.WithFields(logrus.Fields{
		"moderated": moderated,
		"flagged":   flagged,
		"failed":    failed,
	}).Info("batch moderation finished")

	return nil
}

func fetchPosts(ctx context.Context, client httpx.Client, blogAPI string) ([]Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blogAPI+"/api/posts", nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("blog API returned status %d: %s", resp.StatusCode, string(body))
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}
	return posts, nil
}

func moderatePost(ctx context.Context, client httpx.Client, moderationAPI string, post Post) (*moderation.Result, error) {
	payload, err := json.Marshal(moderation.Request{
		Title:   post.Title,
		Content: post.Content,
		Images:  post.Images,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, moderationAPI+"/api/moderate/nsfw", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("moderation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result moderation.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding moderation result: %w", err)
	}
	return &result, nil
}
