package notif

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"socialapp/internal/common"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// NotificationUsecase is what the HTTP layer needs from NotificationService.
type NotificationUsecase interface {
	Create(ctx context.Context, callerID uint64, in CreateInput) (*NotificationView, error)
	List(ctx context.Context, recipientID uint64, limit, offset int) ([]NotificationView, error)
	UnreadCount(ctx context.Context, recipientID uint64) (int64, error)
	MarkRead(ctx context.Context, notificationID, callerID uint64) (*NotificationView, error)
}

type NotificationHandler struct {
	service NotificationUsecase
	log     *zap.Logger
}

func NewNotificationHandler(service NotificationUsecase, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

type createNotificationRequest struct {
	RecipientID uint64  `json:"recipientId" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	PostID      *uint64 `json:"postId"`
	MessageID   *uint64 `json:"messageId"`
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

// List pages with limit and offset, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := common.QueryInt(r, "limit", defaultListLimit)
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset, err := common.QueryInt(r, "offset", 0)
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}

	notifications, err := h.service.List(r.Context(), common.ViewerID(r.Context()), limit, offset)
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.UnreadCount(r.Context(), common.ViewerID(r.Context()))
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, unreadCountResponse{Count: count})
}

// Create records a notification whose sender is the caller.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}

	n, err := h.service.Create(r.Context(), common.ViewerID(r.Context()), CreateInput{
		RecipientID: req.RecipientID,
		Type:        common.NotificationType(req.Type),
		PostID:      req.PostID,
		MessageID:   req.MessageID,
	})
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}

	n, err := h.service.MarkRead(r.Context(), id, common.ViewerID(r.Context()))
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, n)
}
