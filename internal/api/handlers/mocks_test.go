package handlers

import (
	"context"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/transfer"
	"github.com/stretchr/testify/mock"
)

type MockGeneratorService struct {
	mock.Mock
}

func (m *MockGeneratorService) IngestRawIdeas(ctx context.Context, ideas []models.Idea) (*models.PostCollection, error) {
	args := m.Called(ctx, ideas)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostCollection), args.Error(1)
}

func (m *MockGeneratorService) GeneratePosts(ctx context.Context) (*models.PostCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostCollection), args.Error(1)
}

func (m *MockGeneratorService) ResolveNextPost(ctx context.Context) (*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) NextPostBy(ctx context.Context, statusKey string, statusValue any, filters map[string]any) (*models.Post, error) {
	args := m.Called(ctx, statusKey, statusValue, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) SetStatus(ctx context.Context, id int64, statusKey string, status models.PostingStatus) error {
	args := m.Called(ctx, id, statusKey, status)
	return args.Error(0)
}

func (m *MockPostService) MarkPlatformStatus(ctx context.Context, id int64, platform string, status models.PostingStatus) error {
	args := m.Called(ctx, id, platform, status)
	return args.Error(0)
}

type MockPublishService struct {
	mock.Mock
}

func (m *MockPublishService) RunPosts(ctx context.Context) (*transfer.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.RunResult), args.Error(1)
}

func (m *MockPublishService) PublishNext(ctx context.Context, platform string) (*models.Post, string, error) {
	args := m.Called(ctx, platform)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Post), args.String(1), args.Error(2)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
