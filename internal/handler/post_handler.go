package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"travelChronicle/internal/models"
	"travelChronicle/internal/repository"
	"travelChronicle/internal/service"
)

// PostView is a post as shown in the list. ImageSrc falls back to the
// placeholder image when the post has none.
type PostView struct {
	models.Post
	ImageSrc string `json:"imageSrc"`
}

type PostDetailView struct {
	PostView
	Paragraphs []string `json:"paragraphs"`
}

type PostsResponse struct {
	Posts   []PostView `json:"posts"`
	Warning string     `json:"warning,omitempty"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

func (h *Handlers) newPostView(post models.Post) PostView {
	src := h.Cfg.PlaceholderImage
	if post.HasImage() && isImageDataURL(*post.ImageURL) {
		src = *post.ImageURL
	}
	return PostView{Post: post, ImageSrc: src}
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListPosts(r.Context())

	response := PostsResponse{Posts: make([]PostView, 0, len(posts))}
	if err != nil {
		// an unreadable collection still renders as an empty list
		if !errors.Is(err, repository.ErrCorruptBlob) && !errors.Is(err, repository.ErrUnsupportedVersion) {
			h.writeServiceError(w, r, err)
			return
		}
		response.Warning = "stored posts could not be read"
		posts = nil
	}

	for _, post := range posts {
		response.Posts = append(response.Posts, h.newPostView(post))
	}

	writeSuccess(w, response, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, PostDetailView{
		PostView:   h.newPostView(*post),
		Paragraphs: post.Paragraphs(),
	}, http.StatusOK)
}

// decodeInput reads and validates a PostInput body. It writes the error
// response itself and reports whether the handler may continue.
func (h *Handlers) decodeInput(w http.ResponseWriter, r *http.Request) (models.PostInput, bool) {
	var req models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}

	if req.ImageURL != nil && *req.ImageURL == "" {
		req.ImageURL = nil
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, validationMessage(err), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/posts/"+post.ID)
	writeSuccess(w, h.newPostView(*post), http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	req, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), postID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, h.newPostView(*post), http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	deleted, err := h.PostService.DeletePost(r.Context(), postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !deleted {
		WriteError(w, repository.ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	writeSuccess(w, DeleteResponse{Deleted: true}, http.StatusOK)
}

// GetPostImage serves the inline image of a post as raw bytes. Posts without
// a usable image data URL are redirected to the placeholder.
func (h *Handlers) GetPostImage(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if !post.HasImage() {
		http.Redirect(w, r, h.Cfg.PlaceholderImage, http.StatusFound)
		return
	}

	mediaType, data, err := service.DecodeDataURL(*post.ImageURL)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		http.Redirect(w, r, h.Cfg.PlaceholderImage, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
