package moderation

import (
	"context"
	"testing"

	"github.com/blogora/moderation/pkg/infra/safesearch"
	"github.com/blogora/moderation/pkg/infra/safesearch/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Moderate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty content is rejected", func(t *testing.T) {
		svc := NewService(DefaultTables(), safesearch.NewDisabledClient(), testLogger())
		_, err := svc.Moderate(ctx, Request{Title: "hola"})
		assert.ErrorIs(t, err, ErrContentRequired)
	})

	t.Run("clean post produces a clean verdict", func(t *testing.T) {
		svc := NewService(DefaultTables(), safesearch.NewDisabledClient(), testLogger())
		result, err := svc.Moderate(ctx, Request{
			Title:   "Aprendiendo Go",
			Content: "Cómo aprender JavaScript en 2024",
		})
		require.NoError(t, err)
		assert.False(t, result.IsNSFW)
		assert.Zero(t, result.Confidence)
		assert.Empty(t, result.Categories)
		assert.NotNil(t, result.DetectedContent.Text)
		assert.NotNil(t, result.DetectedContent.URLs)
		assert.NotNil(t, result.DetectedContent.Images)
	})

	t.Run("title participates in the text corpus", func(t *testing.T) {
		svc := NewService(DefaultTables(), safesearch.NewDisabledClient(), testLogger())
		result, err := svc.Moderate(ctx, Request{
			Title:   "Reseña hentai",
			Content: "una reseña inocente",
		})
		require.NoError(t, err)
		assert.Contains(t, result.DetectedContent.Text, "hentai")
	})

	t.Run("merge takes the max confidence and ORs the flags", func(t *testing.T) {
		svc := NewService(DefaultTables(), safesearch.NewDisabledClient(), testLogger())
		result, err := svc.Moderate(ctx, Request{
			Content: "Mira este enlace: https://pornhub.com/video/123",
		})
		require.NoError(t, err)
		// Text analyzer scores 0.7 (porn keyword + suspicious url in text),
		// URL analyzer 1.0 (domain + pattern); merged takes the max.
		assert.True(t, result.IsNSFW)
		assert.Equal(t, 1.0, result.Confidence)
		assert.Contains(t, result.Categories, CategorySexual)
	})

	t.Run("categories are deduplicated across analyzers", func(t *testing.T) {
		svc := NewService(DefaultTables(), safesearch.NewDisabledClient(), testLogger())
		result, err := svc.Moderate(ctx, Request{
			Content: "hentai y además https://xvideos.com/v/1",
		})
		require.NoError(t, err)
		count := 0
		for _, c := range result.Categories {
			if c == CategorySexual {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("markdown images join the explicit image list", func(t *testing.T) {
		classifier := new(mocks.Client)
		classifier.On("Available").Return(true)
		classifier.On("Classify", mock.Anything, "https://cdn.example.com/explicit.jpg").
			Return(&safesearch.Annotation{Adult: safesearch.VeryLikely}, nil)
		classifier.On("Classify", mock.Anything, "https://cdn.example.com/inline.png").
			Return(&safesearch.Annotation{Racy: safesearch.Likely}, nil)

		svc := NewService(DefaultTables(), classifier, testLogger())
		result, err := svc.Moderate(ctx, Request{
			Content: "Mi galería ![foto](https://cdn.example.com/inline.png)",
			Images:  []string{"https://cdn.example.com/explicit.jpg"},
		})
		require.NoError(t, err)

		// Explicit image first, markdown-extracted second.
		assert.Equal(t, []string{
			"https://cdn.example.com/explicit.jpg",
			"https://cdn.example.com/inline.png",
		}, result.DetectedContent.Images)
		classifier.AssertNumberOfCalls(t, "Classify", 2)
	})

	t.Run("duplicate image urls are scored twice", func(t *testing.T) {
		classifier := new(mocks.Client)
		classifier.On("Available").Return(true)
		classifier.On("Classify", mock.Anything, "https://cdn.example.com/a.jpg").
			Return(&safesearch.Annotation{Adult: safesearch.Likely}, nil)

		svc := NewService(DefaultTables(), classifier, testLogger())
		result, err := svc.Moderate(ctx, Request{
			Content: "dup ![a](https://cdn.example.com/a.jpg)",
			Images:  []string{"https://cdn.example.com/a.jpg"},
		})
		require.NoError(t, err)
		assert.Len(t, result.DetectedContent.Images, 2)
	})

	t.Run("repeated calls with identical input are deterministic", func(t *testing.T) {
		svc := NewService(DefaultTables(), safesearch.NewDisabledClient(), testLogger())
		req := Request{
			Title:   "18+",
			Content: "contenido porn xxx nsfw y https://pornhub.com/x ![i](https://cdn.example.com/bdsm.jpg)",
		}
		first, err := svc.Moderate(ctx, req)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := svc.Moderate(ctx, req)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("merged flag equals the or of analyzer flags", func(t *testing.T) {
		tables := DefaultTables()
		logger := testLogger()
		text := NewTextAnalyzer(tables, logger)
		urls := NewURLAnalyzer(tables, logger)
		images := NewImageAnalyzer(tables, safesearch.NewDisabledClient(), logger)
		svc := NewService(tables, safesearch.NewDisabledClient(), logger)

		for _, content := range []string{
			"Cómo aprender JavaScript en 2024",
			"contenido porn xxx nsfw",
			"solo un enlace https://pornhub.com/v",
			"![x](https://cdn.example.com/naked.jpg)",
		} {
			merged, err := svc.Moderate(ctx, Request{Content: content})
			require.NoError(t, err)

			tr := text.Analyze(content)
			ur := urls.Analyze(content)
			ir := images.Analyze(ctx, tables.ExtractMarkdownImages(content))
			assert.Equal(t, tr.IsNSFW || ur.IsNSFW || ir.IsNSFW, merged.IsNSFW, content)
		}
	})
}

func TestTables_ExtractMarkdownImages(t *testing.T) {
	tables := DefaultTables()

	urls := tables.ExtractMarkdownImages("antes ![uno](https://a.com/1.png) texto ![dos](https://b.com/2.jpg \"titulo\") después")
	assert.Equal(t, []string{"https://a.com/1.png", "https://b.com/2.jpg"}, urls)

	assert.Empty(t, tables.ExtractMarkdownImages("un [enlace](https://a.com) normal"))
}
