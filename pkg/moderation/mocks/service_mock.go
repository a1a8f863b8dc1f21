package mocks

import (
	"context"

	"github.com/blogora/moderation/pkg/moderation"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Moderate(ctx context.Context, req moderation.Request) (*moderation.Result, error) {
	args := m.Called(ctx, req)
	result, ok := args.Get(0).(*moderation.Result)
	if !ok && args.Get(0) != nil {
		panic("expected *moderation.Result")
	}
	return result, args.Error(1)
}
