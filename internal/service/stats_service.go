package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/dustin/go-humanize"

	"travelChronicle/internal/repository"
)

type Stats struct {
	Posts           int `json:"posts"`
	PostsWithImages int `json:"postsWithImages"`
	// ImageBytes is the decoded size of all inline images, EncodedBytes the
	// size of their data URLs as persisted.
	ImageBytes   int64  `json:"imageBytes"`
	EncodedBytes int64  `json:"encodedBytes"`
	ImageSize    string `json:"imageSize"`
	EncodedSize  string `json:"encodedSize"`
}

// StatsService reports how much of the collection is inline image data.
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	postRepo repository.PostRepository
}

func NewStatsService(postRepo repository.PostRepository) StatsService {
	return &statsService{postRepo: postRepo}
}

func (s *statsService) Stats(ctx context.Context) (*Stats, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Posts: len(posts)}
	for _, post := range posts {
		if post.HasImage() {
			stats.PostsWithImages++
			stats.ImageBytes += payloadSize(*post.ImageURL)
			stats.EncodedBytes += int64(len(*post.ImageURL))
		}
	}
	stats.ImageSize = humanize.Bytes(uint64(stats.ImageBytes))
	stats.EncodedSize = humanize.Bytes(uint64(stats.EncodedBytes))

	return stats, nil
}

// payloadSize is the number of bytes a base64 data URL decodes to, computed
// without decoding. Anything else counts as zero.
func payloadSize(dataURL string) int64 {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, dataURLPrefix) || !strings.HasSuffix(header, ";base64") {
		return 0
	}
	padding := len(payload) - len(strings.TrimRight(payload, "="))
	n := base64.StdEncoding.DecodedLen(len(payload)) - padding
	if n < 0 {
		return 0
	}
	return int64(n)
}
