package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGeneratorService struct {
	mock.Mock
}

func (m *MockGeneratorService) IngestRawIdeas(ctx context.Context, ideas []models.Idea) (*models.PostCollection, error) {
	args := m.Called(ctx, ideas)
	return nil, args.Error(1)
}

func (m *MockGeneratorService) GeneratePosts(ctx context.Context) (*models.PostCollection, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockGeneratorService) ResolveNextPost(ctx context.Context) (*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
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
	return nil, args.String(1), args.Error(2)
}

func newTask(t *testing.T, taskType string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(TaskPayload{RequestedBy: "tester", RequestedAt: time.Now()})
	require.NoError(t, err)
	return asynq.NewTask(taskType, payload)
}

func TestEnqueueTask_UnknownType(t *testing.T) {
	_, err := EnqueueTask(nil, "posts:unknown", TaskPayload{}, 0)

	assert.ErrorContains(t, err, "unknown task type")
}

func TestHandleGeneratePostTask(t *testing.T) {
	g := new(MockGeneratorService)
	g.On("ResolveNextPost", mock.Anything).Return(models.NewSkeleton(1, models.PostTypePromptToMedia), nil).Once()
	g.On("ResolveNextPost", mock.Anything).Return(nil, nil).Once()
	g.On("ResolveNextPost", mock.Anything).Return(nil, errors.New("quota exceeded")).Once()
	q := NewQueue(g, new(MockPublishService))

	assert.NoError(t, q.HandleGeneratePostTask(context.Background(), newTask(t, TaskTypeGeneratePost)))
	assert.NoError(t, q.HandleGeneratePostTask(context.Background(), newTask(t, TaskTypeGeneratePost)))
	assert.ErrorContains(t, q.HandleGeneratePostTask(context.Background(), newTask(t, TaskTypeGeneratePost)), "quota exceeded")
	g.AssertExpectations(t)
}

func TestHandleRunPostsTask(t *testing.T) {
	pub := new(MockPublishService)
	pub.On("RunPosts", mock.Anything).Return(&transfer.RunResult{RunID: "run-1", AllOK: true}, nil).Once()
	q := NewQueue(new(MockGeneratorService), pub)

	require.NoError(t, q.HandleRunPostsTask(context.Background(), newTask(t, TaskTypeRunPosts)))
	pub.AssertExpectations(t)
}

func TestHandlers_SkipRetryOnBadPayload(t *testing.T) {
	g := new(MockGeneratorService)
	pub := new(MockPublishService)
	q := NewQueue(g, pub)
	bad := asynq.NewTask(TaskTypeRunPosts, []byte("{not json"))

	assert.ErrorIs(t, q.HandleRunPostsTask(context.Background(), bad), asynq.SkipRetry)
	assert.ErrorIs(t, q.HandleGeneratePostTask(context.Background(), bad), asynq.SkipRetry)
	g.AssertNotCalled(t, "ResolveNextPost", mock.Anything)
	pub.AssertNotCalled(t, "RunPosts", mock.Anything)
}

func TestRegister(t *testing.T) {
	g := new(MockGeneratorService)
	g.On("ResolveNextPost", mock.Anything).Return(nil, nil).Once()
	mux := asynq.NewServeMux()
	NewQueue(g, new(MockPublishService)).Register(mux)

	require.NoError(t, mux.ProcessTask(context.Background(), newTask(t, TaskTypeGeneratePost)))
	g.AssertExpectations(t)
}
