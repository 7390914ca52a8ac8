package service

import (
	"context"
	"errors"
	"time"

	"travelChronicle/internal/logger"
	"travelChronicle/internal/models"
	"travelChronicle/internal/repository"
)

type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	CreatePost(ctx context.Context, req models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, postID string, req models.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) (bool, error)
}

type postService struct {
	postRepo repository.PostRepository
	logger   logger.Logger
	now      func() time.Time
}

func NewPostService(postRepo repository.PostRepository, log logger.Logger, now func() time.Time) PostService {
	if now == nil {
		now = time.Now
	}
	return &postService{
		postRepo: postRepo,
		logger:   log.WithComponent("PostService"),
		now:      now,
	}
}

// withDefaults fills the date with today when the caller left it empty.
func (p *postService) withDefaults(req models.PostInput) models.PostInput {
	if req.Date == "" {
		req.Date = p.now().Format(models.DateLayout)
	}
	return req
}

func (p *postService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := p.postRepo.ListAll(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptBlob) || errors.Is(err, repository.ErrUnsupportedVersion) {
			p.logger.Warn("stored posts are unreadable, showing an empty list", "error", err)
		} else {
			p.logger.Error("failed to list posts", "error", err)
		}
		return posts, err
	}
	return posts, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) CreatePost(ctx context.Context, req models.PostInput) (*models.Post, error) {
	post, err := p.postRepo.Create(ctx, p.withDefaults(req))
	if err != nil {
		p.logger.Error("failed to create post", "error", err)
		return nil, err
	}

	p.logger.Info("post created", "id", post.ID, "title", post.Title, "has_image", post.HasImage())
	return post, nil
}

func (p *postService) UpdatePost(ctx context.Context, postID string, req models.PostInput) (*models.Post, error) {
	post, err := p.postRepo.Update(ctx, postID, p.withDefaults(req))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			p.logger.Error("failed to update post", "id", postID, "error", err)
		}
		return nil, err
	}

	p.logger.Info("post updated", "id", post.ID)
	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, postID string) (bool, error) {
	deleted, err := p.postRepo.Delete(ctx, postID)
	if err != nil {
		p.logger.Error("failed to delete post", "id", postID, "error", err)
		return false, err
	}

	if deleted {
		p.logger.Info("post deleted", "id", postID)
	}
	return deleted, nil
}
