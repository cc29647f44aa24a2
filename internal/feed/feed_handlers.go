package feed

import (
	"net/http"

	"go.uber.org/zap"

	"socialapp/internal/common"
)

type FeedHandlers struct {
	FeedSvc   FeedUsecase
	MaxUpload int64
	Log       *zap.Logger
}

type createPostRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

type addCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *FeedHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	common.WriteError(w, r, h.Log, err)
}

// CreatePost accepts JSON, or multipart with an "image" file.
func (h *FeedHandlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in CreatePostInput

	if common.IsMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
		if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
			h.fail(w, r, common.NewValidationError("invalid multipart form"))
			return
		}
		upload, closeUpload, err := common.FormUpload(r, "image")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		defer closeUpload()
		in = CreatePostInput{Content: r.FormValue("content"), Image: upload}
	} else {
		var req createPostRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
		in = CreatePostInput{Content: req.Content, ImageRef: req.Image}
	}

	post, err := h.FeedSvc.CreatePost(r.Context(), common.ViewerID(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, post)
}

// ListFeed works for anonymous callers too.
func (h *FeedHandlers) ListFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.FeedSvc.ListFeed(r.Context(), common.ViewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, posts)
}

func (h *FeedHandlers) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	viewer := common.ViewerID(r.Context())
	posts, err := h.FeedSvc.ListPostsByUser(r.Context(), viewer, viewer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, posts)
}

func (h *FeedHandlers) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	authorID, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	posts, err := h.FeedSvc.ListPostsByUser(r.Context(), authorID, common.ViewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, posts)
}

func (h *FeedHandlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	post, err := h.FeedSvc.GetPost(r.Context(), postID, common.ViewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, post)
}

func (h *FeedHandlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.FeedSvc.ToggleLike(r.Context(), postID, common.ViewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, result)
}

func (h *FeedHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req addCommentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	comment, err := h.FeedSvc.AddComment(r.Context(), postID, common.ViewerID(r.Context()), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, comment)
}

func (h *FeedHandlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.FeedSvc.DeletePost(r.Context(), postID, common.ViewerID(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
