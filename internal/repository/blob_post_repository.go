package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"travelChronicle/internal/logger"
	"travelChronicle/internal/models"
	"travelChronicle/internal/storage"
)

// SchemaVersion is written into every persisted collection. A bare JSON
// array is read as version 0.
const SchemaVersion = 1

const maxIDAttempts = 5

type collection struct {
	Version int           `json:"version"`
	Posts   []models.Post `json:"posts"`
}

// BlobPostRepository keeps the whole collection in one blob under a fixed
// key. Every mutation reads the full blob, changes it and writes it back.
type BlobPostRepository struct {
	mu     sync.Mutex
	store  storage.BlobStore
	key    string
	now    func() time.Time
	newID  func() string
	logger logger.Logger
}

type BlobOption func(*BlobPostRepository)

func WithClock(now func() time.Time) BlobOption {
	return func(r *BlobPostRepository) {
		r.now = now
	}
}

func WithIDGenerator(newID func() string) BlobOption {
	return func(r *BlobPostRepository) {
		r.newID = newID
	}
}

var _ PostRepository = (*BlobPostRepository)(nil)

func NewBlobPostRepository(store storage.BlobStore, key string, log logger.Logger, opts ...BlobOption) *BlobPostRepository {
	r := &BlobPostRepository{
		store:  store,
		key:    key,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.WithComponent("BlobPostRepo"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *BlobPostRepository) load(ctx context.Context) ([]models.Post, error) {
	data, err := r.store.Load(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return decodeCollection(data)
}

func (r *BlobPostRepository) save(ctx context.Context, posts []models.Post) error {
	data, err := json.Marshal(collection{Version: SchemaVersion, Posts: posts})
	if err != nil {
		return fmt.Errorf("%w: failed to encode posts: %w", ErrPersistence, err)
	}
	if err := r.store.Save(ctx, r.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func decodeCollection(data []byte) ([]models.Post, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []models.Post{}, nil
	}

	if data[0] == '[' {
		var posts []models.Post
		if err := json.Unmarshal(data, &posts); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlob, err)
		}
		if posts == nil {
			posts = []models.Post{}
		}
		return posts, nil
	}

	var c collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptBlob, err)
	}
	if c.Version < 1 || c.Version > SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, c.Version)
	}
	if c.Posts == nil {
		c.Posts = []models.Post{}
	}
	return c.Posts, nil
}

func indexOf(posts []models.Post, postID string) int {
	for i := range posts {
		if posts[i].ID == postID {
			return i
		}
	}
	return -1
}

// ListAll returns an empty slice together with the error when the blob
// cannot be parsed, so callers can keep going with an empty view.
func (r *BlobPostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return []models.Post{}, err
	}
	return posts, nil
}

func (r *BlobPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(posts, postID)
	if i == -1 {
		return nil, ErrNotFound
	}
	post := posts[i]
	return &post, nil
}

func (r *BlobPostRepository) Create(ctx context.Context, input models.PostInput) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	postID, err := r.uniqueID(posts)
	if err != nil {
		return nil, err
	}

	post := models.Post{ID: postID, CreatedAt: r.now().UnixMilli()}
	post.Apply(input)

	updated := make([]models.Post, 0, len(posts)+1)
	updated = append(updated, post)
	updated = append(updated, posts...)

	if err := r.save(ctx, updated); err != nil {
		return nil, err
	}

	r.logger.Debug("post created", "id", post.ID, "total", len(updated))
	return &post, nil
}

func (r *BlobPostRepository) uniqueID(posts []models.Post) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		postID := r.newID()
		if postID != "" && indexOf(posts, postID) == -1 {
			return postID, nil
		}
		r.logger.Warn("generated post id collides, retrying", "id", postID, "attempt", attempt+1)
	}
	return "", ErrIDExhausted
}

func (r *BlobPostRepository) Update(ctx context.Context, postID string, input models.PostInput) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(posts, postID)
	if i == -1 {
		return nil, ErrNotFound
	}

	posts[i].Apply(input)

	if err := r.save(ctx, posts); err != nil {
		return nil, err
	}

	post := posts[i]
	r.logger.Debug("post updated", "id", post.ID)
	return &post, nil
}

func (r *BlobPostRepository) Delete(ctx context.Context, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	// legacy collections may hold several posts under one id; drop them all
	updated := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if post.ID != postID {
			updated = append(updated, post)
		}
	}
	if len(updated) == len(posts) {
		return false, nil
	}

	if err := r.save(ctx, updated); err != nil {
		return false, err
	}

	r.logger.Debug("post deleted", "id", postID, "total", len(updated))
	return true, nil
}
