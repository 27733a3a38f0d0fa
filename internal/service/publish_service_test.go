package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/repository"
	"github.com/maheshrc27/autoposter/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type publishFixture struct {
	repo      repository.PostRepository
	generator *MockGenerator
	notifier  *MockNotifier
	files     FileService
	imagesDir string
}

func newPublishFixture(t *testing.T, posts ...*models.Post) *publishFixture {
	t.Helper()
	cfg := testConfig(t)
	repo := repository.NewPostRepository(store.NewFileStore(cfg.Paths.JSONDir), cfg.Files.Posts)
	require.NoError(t, repo.Save(context.Background(), &models.PostCollection{Posts: posts}))

	return &publishFixture{
		repo:      repo,
		generator: new(MockGenerator),
		notifier:  new(MockNotifier),
		files:     NewFileService(cfg),
		imagesDir: cfg.Paths.ImagesDir,
	}
}

func (f *publishFixture) service(dispatchers ...Dispatcher) PublishService {
	return NewPublishService(f.generator, NewPostService(f.repo), f.files, dispatchers, []Notifier{f.notifier})
}

func dispatcher(platform, statusKey string) *MockDispatcher {
	return &MockDispatcher{platform: platform, statusKey: statusKey}
}

func TestPublishService_RunPostsPartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, processedPost(1))
	image := writePNG(t, filepath.Join(f.imagesDir, "image_file_1.png"))

	x := dispatcher("x", "x_status")
	x.On("Publish", mock.Anything, mock.Anything).Return("", errors.New("401 unauthorized")).Once()
	ig := dispatcher("instagram", "ig_status")
	ig.On("Publish", mock.Anything, mock.MatchedBy(func(p *models.Post) bool { return p.ID == 1 })).Return("17890", nil).Once()

	f.generator.On("ResolveNextPost", mock.Anything).Return(nil, nil).Once()
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(m string) bool {
		return strings.Contains(m, "X (Twitter): ERROR") &&
			strings.Contains(m, "Instagram: OK") &&
			strings.Contains(m, "- x: 401 unauthorized")
	})).Return(errors.New("telegram down")).Once()

	res, err := f.service(x, ig).RunPosts(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.AllOK)
	assert.Equal(t, runMessageErrors, res.Message)
	assert.True(t, res.SocialOK.Instagram)
	assert.False(t, res.SocialOK.X)
	assert.Equal(t, "17890", res.Result["instagram"].PostID)
	assert.Equal(t, "401 unauthorized", res.Result["x"].Error)
	assert.Equal(t, "401 unauthorized", res.Errors["x"])

	c, err := f.repo.Load(ctx)
	require.NoError(t, err)
	post := repository.FindByID(c, 1)
	assert.Equal(t, models.StatusPosted, post.IGStatus)
	assert.Equal(t, models.StatusNotPosted, post.XStatus)

	assert.FileExists(t, image)
	f.notifier.AssertExpectations(t)
}

func TestPublishService_RunPostsAllOKCleansImages(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, processedPost(1))
	image := writePNG(t, filepath.Join(f.imagesDir, "image_file_1.png"))

	x := dispatcher("x", "x_status")
	x.On("Publish", mock.Anything, mock.Anything).Return("1850", nil).Once()
	fb := dispatcher("facebook", "fb_status")
	fb.On("Publish", mock.Anything, mock.Anything).Return("99_12", nil).Once()

	generated := processedPost(1)
	f.generator.On("ResolveNextPost", mock.Anything).Return(generated, nil).Once()
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(m string) bool {
		return strings.HasSuffix(m, "No errors.")
	})).Return(nil).Once()

	res, err := f.service(x, fb).RunPosts(ctx)
	require.NoError(t, err)

	assert.True(t, res.AllOK)
	assert.Equal(t, runMessageOK, res.Message)
	assert.Same(t, generated, res.Generated)
	assert.True(t, res.SocialOK.X)
	assert.True(t, res.SocialOK.Facebook)
	assert.Empty(t, res.Errors)
	assert.NoFileExists(t, image)
}

func TestPublishService_RunPostsKeepsImagesWithBacklog(t *testing.T) {
	f := newPublishFixture(t, processedPost(1), processedPost(2))
	image := writePNG(t, filepath.Join(f.imagesDir, "image_file_2.png"))

	x := dispatcher("x", "x_status")
	x.On("Publish", mock.Anything, mock.Anything).Return("1850", nil).Once()
	f.generator.On("ResolveNextPost", mock.Anything).Return(nil, nil).Once()
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	res, err := f.service(x).RunPosts(context.Background())
	require.NoError(t, err)

	assert.True(t, res.AllOK)
	assert.FileExists(t, image)
}

func TestPublishService_RunPostsContinuesAfterGenerationError(t *testing.T) {
	f := newPublishFixture(t)

	fb := dispatcher("facebook", "fb_status")
	f.generator.On("ResolveNextPost", mock.Anything).Return(nil, ErrGenerationIncomplete).Once()
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(m string) bool {
		return strings.Index(m, "- generate:") < strings.Index(m, "- facebook:")
	})).Return(nil).Once()

	res, err := f.service(fb).RunPosts(context.Background())
	require.NoError(t, err)

	assert.False(t, res.AllOK)
	assert.Nil(t, res.Generated)
	assert.Equal(t, ErrGenerationIncomplete.Error(), res.Errors["generate"])
	assert.Equal(t, ErrNoPosts.Error(), res.Errors["facebook"])
	fb.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.notifier.AssertExpectations(t)
}

func TestPublishService_RunPostsWithoutDispatchers(t *testing.T) {
	f := newPublishFixture(t)
	f.generator.On("ResolveNextPost", mock.Anything).Return(nil, nil).Once()
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	res, err := f.service().RunPosts(context.Background())
	require.NoError(t, err)

	assert.False(t, res.AllOK)
	assert.Equal(t, runMessageOK, res.Message)
}

func TestPublishService_PublishNext(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, processedPost(1))

	ig := dispatcher("instagram", "ig_status")
	ig.On("Publish", mock.Anything, mock.Anything).Return("17890", nil).Once()
	s := f.service(ig)

	post, remoteID, err := s.PublishNext(ctx, "instagram")
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, "17890", remoteID)

	_, _, err = s.PublishNext(ctx, "instagram")
	assert.True(t, IsNoPosts(err))

	_, _, err = s.PublishNext(ctx, "x")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPublishService_BrokenThreadMarksRootPosted(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t, processedPost(1), processedPost(2))

	x := dispatcher("x", "x_status")
	x.On("Publish", mock.Anything, mock.MatchedBy(func(p *models.Post) bool { return p.ID == 1 })).
		Return("t1", errors.New("thread broken after tweet t1: 503")).Once()

	f.generator.On("ResolveNextPost", mock.Anything).Return(nil, nil).Once()
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

	res, err := f.service(x).RunPosts(ctx)
	require.NoError(t, err)

	assert.False(t, res.AllOK)
	assert.False(t, res.SocialOK.X)
	assert.Equal(t, "t1", res.Result["x"].PostID)
	assert.Contains(t, res.Result["x"].Error, "thread broken")
	assert.Contains(t, res.Errors["x"], "thread broken")

	c, err := f.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPosted, repository.FindByID(c, 1).XStatus)
	assert.Equal(t, models.StatusNotPosted, repository.FindByID(c, 2).XStatus)

	x.On("Publish", mock.Anything, mock.MatchedBy(func(p *models.Post) bool { return p.ID == 2 })).
		Return("t2", nil).Once()

	post, remoteID, err := f.service(x).PublishNext(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.ID)
	assert.Equal(t, "t2", remoteID)
	x.AssertExpectations(t)
}
