package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelChronicle/internal/models"
)

func TestStatsService_Stats(t *testing.T) {
	ctx := context.Background()
	image := "data:image/png;base64,AAAA"
	gif := "data:image/gif;base64,R0lGODlh"
	empty := ""

	repo := new(MockPostRepository)
	repo.On("ListAll", ctx).Return([]models.Post{
		{ID: "a", ImageURL: &image},
		{ID: "b", ImageURL: &empty},
		{ID: "c"},
		{ID: "d", ImageURL: &gif},
	}, nil)

	stats, err := NewStatsService(repo).Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.Posts)
	assert.Equal(t, 2, stats.PostsWithImages)
	assert.Equal(t, int64(3+6), stats.ImageBytes)
	assert.Equal(t, int64(len(image)+len(gif)), stats.EncodedBytes)
	assert.Equal(t, "9 B", stats.ImageSize)
	assert.Equal(t, "56 B", stats.EncodedSize)
	repo.AssertExpectations(t)
}

func TestPayloadSize(t *testing.T) {
	tests := []struct {
		name    string
		dataURL string
		want    int64
	}{
		{name: "no padding", dataURL: "data:image/png;base64,AAAA", want: 3},
		{name: "one pad", dataURL: "data:image/png;base64,AAA=", want: 2},
		{name: "two pads", dataURL: "data:image/png;base64,AA==", want: 1},
		{name: "empty payload", dataURL: "data:image/png;base64,", want: 0},
		{name: "matches decoded length", dataURL: mustEncode(t, pngBytes), want: int64(len(pngBytes))},
		{name: "not base64", dataURL: "data:image/png,raw", want: 0},
		{name: "not a data url", dataURL: "https://example.com/a.png", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payloadSize(tt.dataURL))
		})
	}
}

func mustEncode(t *testing.T, data []byte) string {
	t.Helper()
	dataURL, err := EncodeDataURL("image/png", data)
	require.NoError(t, err)
	return dataURL
}

func TestStatsService_StatsError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPostRepository)
	repo.On("ListAll", ctx).Return([]models.Post{}, errors.New("boom"))

	stats, err := NewStatsService(repo).Stats(ctx)

	assert.Error(t, err)
	assert.Nil(t, stats)
}
