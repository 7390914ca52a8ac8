package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"travelChronicle/internal/models"
)

const uniqueViolation = "23505"

var postColumns = []string{"post_id", "title", "location", "content", "date", "image_url", "created_at"}

// PostRepositoryImpl stores one row per post. Order is kept by the seq
// column, which is assigned on insert and never updated.
type PostRepositoryImpl struct {
	DB    *sqlx.DB
	now   func() time.Time
	newID func() string
}

var _ PostRepository = (*PostRepositoryImpl)(nil)

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db, now: time.Now, newID: uuid.NewString}
}

func (r *PostRepositoryImpl) ListAll(ctx context.Context) ([]models.Post, error) {
	query, args, err := SqBuilder.
		Select(postColumns...).
		From("posts").
		OrderBy("seq DESC").
		ToSql()
	if err != nil {
		return []models.Post{}, fmt.Errorf("failed to build list query: %w", err)
	}

	var posts []models.Post
	if err := r.DB.SelectContext(ctx, &posts, query, args...); err != nil {
		return []models.Post{}, fmt.Errorf("%w: failed to list posts: %w", ErrPersistence, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query, args, err := SqBuilder.
		Select(postColumns...).
		From("posts").
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	var post models.Post
	if err := r.DB.GetContext(ctx, &post, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to get post %s: %w", ErrPersistence, postID, err)
	}
	return &post, nil
}

func (r *PostRepositoryImpl) Create(ctx context.Context, input models.PostInput) (*models.Post, error) {
	post := models.Post{CreatedAt: r.now().UnixMilli()}
	post.Apply(input)

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		post.ID = r.newID()

		query, args, err := SqBuilder.
			Insert("posts").
			Columns(postColumns...).
			Values(post.ID, post.Title, post.Location, post.Content, post.Date, post.ImageURL, post.CreatedAt).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build insert query: %w", err)
		}

		_, err = r.DB.ExecContext(ctx, query, args...)
		if err == nil {
			return &post, nil
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			continue
		}
		return nil, fmt.Errorf("%w: failed to create post: %w", ErrPersistence, err)
	}

	return nil, ErrIDExhausted
}

func (r *PostRepositoryImpl) Update(ctx context.Context, postID string, input models.PostInput) (*models.Post, error) {
	query, args, err := SqBuilder.
		Update("posts").
		Set("title", input.Title).
		Set("location", input.Location).
		Set("content", input.Content).
		Set("date", input.Date).
		Set("image_url", input.ImageURL).
		Where(sq.Eq{"post_id": postID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	var createdAt int64
	if err := r.DB.GetContext(ctx, &createdAt, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to update post %s: %w", ErrPersistence, postID, err)
	}

	post := models.Post{ID: postID, CreatedAt: createdAt}
	post.Apply(input)
	return &post, nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) (bool, error) {
	query, args, err := SqBuilder.
		Delete("posts").
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete post %s: %w", ErrPersistence, postID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: failed to check deleted rows: %w", ErrPersistence, err)
	}

	return rowsAffected > 0, nil
}
