// Package handler exposes the direct message endpoints over HTTP.
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"socialapp/internal/chat/service"
	"socialapp/internal/common"
)

type ChatHandler struct {
	chatService service.ChatService
	log         *zap.Logger
}

func NewChatHandler(chatService service.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

type sendMessageRequest struct {
	ReceiverID common.FlexID `json:"receiverId" validate:"required"`
	Content    string        `json:"content" validate:"required"`
}

type deleteConversationResponse struct {
	Message string `json:"message"`
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), common.ViewerID(r.Context()), uint64(req.ReceiverID), req.Content)
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.chatService.ListConversations(r.Context(), common.ViewerID(r.Context()))
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, conversations)
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	otherID, err := common.PathID(r, "otherUserId")
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}

	messages, err := h.chatService.GetConversation(r.Context(), common.ViewerID(r.Context()), otherID)
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	otherID, err := common.PathID(r, "otherUserId")
	if err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}

	if err := h.chatService.DeleteConversation(r.Context(), common.ViewerID(r.Context()), otherID); err != nil {
		common.WriteError(w, r, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, deleteConversationResponse{Message: "conversation deleted"})
}
