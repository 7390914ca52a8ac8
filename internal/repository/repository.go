package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"

	"travelChronicle/internal/models"
)

var (
	// ErrNotFound is the normal outcome for an id that is not in the store.
	ErrNotFound = errors.New("post not found")
	// ErrCorruptBlob means the persisted collection could not be parsed.
	ErrCorruptBlob = errors.New("persisted posts are corrupt")
	// ErrUnsupportedVersion means the blob was written by a newer schema.
	ErrUnsupportedVersion = errors.New("unsupported posts schema version")
	// ErrPersistence wraps failures of the backing storage.
	ErrPersistence = errors.New("posts persistence failed")
	ErrIDExhausted = errors.New("could not generate a unique post id")
)

var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostRepository is the CRUD contract over the post collection. Listing is
// most-recent-first. Implementations assign ID and CreatedAt on Create and
// never change them afterwards.
type PostRepository interface {
	ListAll(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Create(ctx context.Context, input models.PostInput) (*models.Post, error)
	Update(ctx context.Context, postID string, input models.PostInput) (*models.Post, error)
	Delete(ctx context.Context, postID string) (bool, error)
}

type Repository struct {
	Post PostRepository
}

func NewRepository(post PostRepository) *Repository {
	return &Repository{Post: post}
}
