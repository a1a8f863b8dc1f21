package mocks

import (
	"context"

	"github.com/blogora/moderation/pkg/infra/safesearch"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Client) Classify(ctx context.Context, imageURL string) (*safesearch.Annotation, error) {
	args := m.Called(ctx, imageURL)
	annotation, ok := args.Get(0).(*safesearch.Annotation)
	if !ok && args.Get(0) != nil {
		panic("expected *safesearch.Annotation")
	}
	return annotation, args.Error(1)
}
