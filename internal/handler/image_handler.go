package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"travelChronicle/internal/service"
)

type ImageResponse struct {
	ImageURL  string `json:"imageUrl"`
	MediaType string `json:"mediaType"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
}

// UploadImage converts the multipart field "image" into a data URL. Only
// image/* media types are accepted; a missing or generic type is sniffed
// from the content.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, fmt.Sprintf("file too large (max %s)", humanize.IBytes(uint64(h.Cfg.MaxUploadSize))),
				http.StatusRequestEntityTooLarge)
		} else {
			WriteError(w, "invalid multipart form", http.StatusBadRequest)
		}
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		detected, err := mimetype.DetectReader(file)
		if err != nil {
			WriteError(w, "failed to read image file", http.StatusBadRequest)
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		mediaType = detected.String()
	}

	if !strings.HasPrefix(mediaType, "image/") {
		WriteError(w, fmt.Sprintf("unsupported file type %q, an image is required", mediaType), http.StatusBadRequest)
		return
	}

	task := service.StartIngest(r.Context(), h.ImageService, file, mediaType)
	defer task.Cancel()

	dataURL, err := task.Wait(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, ImageResponse{
		ImageURL:  dataURL,
		MediaType: mediaType,
		FileName:  header.Filename,
		FileSize:  header.Size,
	}, http.StatusOK)
}
