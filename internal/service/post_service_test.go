package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelChronicle/internal/logger"
	"travelChronicle/internal/models"
	"travelChronicle/internal/repository"
	"travelChronicle/internal/storage"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, input models.PostInput) (*models.Post, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, postID string, input models.PostInput) (*models.Post, error) {
	args := m.Called(ctx, postID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID string) (bool, error) {
	args := m.Called(ctx, postID)
	return args.Bool(0), args.Error(1)
}

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func newBlobService(t *testing.T) PostService {
	t.Helper()
	repo := repository.NewBlobPostRepository(storage.NewMemoryStore(), "posts", logger.NewNop())
	return NewPostService(repo, logger.NewNop(), fixedNow)
}

func sampleInput(title string) models.PostInput {
	return models.PostInput{
		Title:    title,
		Location: "Lisbon",
		Content:  "Trams\nPastéis",
		Date:     "2024-05-20",
	}
}

func TestPostService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := newBlobService(t)

	created, err := svc.CreatePost(ctx, sampleInput("Lisbon"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	in := sampleInput("Lisbon again")
	updated, err := svc.UpdatePost(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Lisbon again", updated.Title)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	deleted, err := svc.DeletePost(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeletePost(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.GetPost(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostService_CreatePostDefaultsDate(t *testing.T) {
	ctx := context.Background()
	svc := newBlobService(t)

	in := sampleInput("Undated")
	in.Date = ""

	post, err := svc.CreatePost(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", post.Date)
}

func TestPostService_UpdatePostDefaultsDate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPostRepository)
	svc := NewPostService(repo, logger.NewNop(), fixedNow)

	in := sampleInput("Undated")
	in.Date = ""
	expected := in
	expected.Date = "2024-06-01"

	repo.On("Update", ctx, "a", expected).Return(&models.Post{ID: "a", Date: "2024-06-01"}, nil)

	post, err := svc.UpdatePost(ctx, "a", in)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", post.Date)
	repo.AssertExpectations(t)
}

func TestPostService_UpdatePostNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newBlobService(t)

	post, err := svc.UpdatePost(ctx, "missing", sampleInput("Nowhere"))

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, post)
}

func TestPostService_ListPostsCorrupt(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "posts", []byte("{not json")))

	repo := repository.NewBlobPostRepository(store, "posts", logger.NewNop())
	svc := NewPostService(repo, logger.NewNop(), fixedNow)

	posts, err := svc.ListPosts(ctx)

	assert.ErrorIs(t, err, repository.ErrCorruptBlob)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostService_Errors(t *testing.T) {
	ctx := context.Background()
	storageErr := errors.Join(repository.ErrPersistence, errors.New("disk full"))

	t.Run("create", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := NewPostService(repo, logger.NewNop(), fixedNow)
		repo.On("Create", ctx, mock.Anything).Return(nil, storageErr)

		post, err := svc.CreatePost(ctx, sampleInput("A"))

		assert.ErrorIs(t, err, repository.ErrPersistence)
		assert.Nil(t, post)
		repo.AssertExpectations(t)
	})

	t.Run("delete", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := NewPostService(repo, logger.NewNop(), fixedNow)
		repo.On("Delete", ctx, "a").Return(false, storageErr)

		deleted, err := svc.DeletePost(ctx, "a")

		assert.ErrorIs(t, err, repository.ErrPersistence)
		assert.False(t, deleted)
		repo.AssertExpectations(t)
	})

	t.Run("list", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := NewPostService(repo, logger.NewNop(), fixedNow)
		repo.On("ListAll", ctx).Return([]models.Post{}, storageErr)

		posts, err := svc.ListPosts(ctx)

		assert.ErrorIs(t, err, repository.ErrPersistence)
		assert.Empty(t, posts)
		repo.AssertExpectations(t)
	})
}
