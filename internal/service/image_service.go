package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"travelChronicle/internal/logger"
)

var (
	ErrImageRead      = errors.New("failed to read image file")
	ErrImageEncode    = errors.New("failed to encode image")
	ErrInvalidDataURL = errors.New("invalid data url")
	ErrStaleIngestion = errors.New("ingestion result superseded by a newer one")
)

const dataURLPrefix = "data:"

// ImageService turns image files into data URLs that can be embedded in a
// post. The caller is expected to check the media type beforehand; the
// content itself is not validated and no size limit applies.
type ImageService interface {
	Ingest(ctx context.Context, file io.Reader, mediaType string) (string, error)
}

type imageService struct {
	logger logger.Logger
}

func NewImageService(log logger.Logger) ImageService {
	return &imageService{logger: log.WithComponent("ImageService")}
}

// Ingest reads file to the end and encodes it as
// data:<mediaType>;base64,<payload>. Cancelling ctx abandons a read that is
// still in progress.
func (s *imageService) Ingest(ctx context.Context, file io.Reader, mediaType string) (string, error) {
	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(file)
		done <- result{data: data, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("image ingestion cancelled: %w", ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageRead, res.err)
	}

	dataURL, err := EncodeDataURL(mediaType, res.data)
	if err != nil {
		return "", err
	}

	s.logger.Debug("image ingested",
		"media_type", mediaTypeOf(dataURL),
		"size", humanize.Bytes(uint64(len(res.data))),
		"encoded", humanize.Bytes(uint64(len(dataURL))),
	)
	return dataURL, nil
}


// EncodeDataURL builds a base64 data URL. An empty media type is sniffed
// from the content.
func EncodeDataURL(mediaType string, data []byte) (string, error) {
	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
	}

	mt, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", fmt.Errorf("%w: media type %q: %w", ErrImageEncode, mediaType, err)
	}

	var b strings.Builder
	b.Grow(len(dataURLPrefix) + len(mediaType) + len(";base64,") + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataURLPrefix)
	b.WriteString(mime.FormatMediaType(mt, params))
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// DecodeDataURL is the inverse of EncodeDataURL. Only base64 payloads are
// accepted.
func DecodeDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}

	header, payload, ok := strings.Cut(s[len(dataURLPrefix):], ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURL)
	}

	mediaType, found := strings.CutSuffix(header, ";base64")
	if !found {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURL)
	}
	if mediaType == "" {
		mediaType = "text/plain;charset=US-ASCII"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}
	return mediaType, data, nil
}

func mediaTypeOf(dataURL string) string {
	header, _, _ := strings.Cut(strings.TrimPrefix(dataURL, dataURLPrefix), ";base64")
	return header
}

// IngestTask is one ingestion running in the background.
type IngestTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	result string
	err    error
}

// StartIngest runs images.Ingest in the background. The task is cancelled
// together with ctx.
func StartIngest(ctx context.Context, images ImageService, file io.Reader, mediaType string) *IngestTask {
	ctx, cancel := context.WithCancel(ctx)
	task := &IngestTask{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(task.done)
		defer cancel()
		task.result, task.err = images.Ingest(ctx, file, mediaType)
	}()

	return task
}

func (t *IngestTask) Done() <-chan struct{} {
	return t.done
}

func (t *IngestTask) Cancel() {
	t.cancel()
}

// Wait blocks until the task finishes or ctx is done. Giving up on ctx does
// not cancel the task.
func (t *IngestTask) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ImagePreview holds the single preview slot of an editing session. Only the
// most recently started ingestion may fill it; starting a new one cancels
// the previous.
type ImagePreview struct {
	images  ImageService
	mu      sync.Mutex
	current *IngestTask
}

func NewImagePreview(images ImageService) *ImagePreview {
	return &ImagePreview{images: images}
}

func (p *ImagePreview) Begin(ctx context.Context, file io.Reader, mediaType string) *IngestTask {
	task := StartIngest(ctx, p.images, file, mediaType)

	p.mu.Lock()
	previous := p.current
	p.current = task
	p.mu.Unlock()

	if previous != nil {
		previous.Cancel()
	}
	return task
}

// Result waits for task and returns its data URL, or ErrStaleIngestion when
// a newer task has been started since.
func (p *ImagePreview) Result(ctx context.Context, task *IngestTask) (string, error) {
	dataURL, err := task.Wait(ctx)

	p.mu.Lock()
	current := p.current == task
	p.mu.Unlock()

	if !current {
		return "", ErrStaleIngestion
	}
	return dataURL, err
}
