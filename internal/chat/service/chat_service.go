package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"socialapp/internal/chat/repository"
	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
)

// UserLookup is the slice of the user repository the chat needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint64) (*dbmysql.User, error)
}

type MessageView struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"senderId"`
	ReceiverID uint64    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newMessageView(m *dbmysql.Message) MessageView {
	return MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

// Conversation is one counterpart in the caller's inbox.
type Conversation struct {
	common.UserSummary
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// ChatService defines the interface exposed to the handler layer
type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (*MessageView, error)
	ListConversations(ctx context.Context, userID uint64) ([]Conversation, error)
	GetConversation(ctx context.Context, userID, otherID uint64) ([]MessageView, error)
	DeleteConversation(ctx context.Context, userID, otherID uint64) error
}

type chatService struct {
	repo     repository.ChatRepository
	users    UserLookup
	tx       common.Transactor
	notifier common.Notifier
	log      *zap.Logger
}

// Constructor used in DI/wire
func NewChatService(r repository.ChatRepository, users UserLookup, tx common.Transactor,
	notifier common.Notifier, log *zap.Logger) ChatService {
	return &chatService{
		repo:     r,
		users:    users,
		tx:       tx,
		notifier: notifier,
		log:      log.Named("chat"),
	}
}

func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (*MessageView, error) {
	content = strings.TrimSpace(content)
	switch {
	case receiverID == 0:
		return nil, common.NewValidationError("receiverId is required")
	case receiverID == senderID:
		return nil, common.NewValidationError("you cannot send messages to yourself")
	case content == "":
		return nil, common.NewValidationError("message content is required")
	}

	msg := &dbmysql.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetUserByID(ctx, receiverID); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, msg); err != nil {
			return err
		}
		return s.notifier.Emit(ctx, common.NotificationEvent{
			Type:        common.NotificationMessage,
			RecipientID: receiverID,
			SenderID:    senderID,
			MessageID:   &msg.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("message sent", zap.Uint64("message_id", msg.ID), zap.Uint64("sender_id", senderID))
	view := newMessageView(msg)
	return &view, nil
}

// ListConversations keeps the newest message per counterpart, then orders the
// inbox by that message's time, newest first, ties broken by counterpart id.
func (s *chatService) ListConversations(ctx context.Context, userID uint64) ([]Conversation, error) {
	messages, err := s.repo.FetchInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{})
	conversations := make([]Conversation, 0)
	for _, m := range messages {
		otherID, other := m.CounterpartOf(userID)
		if otherID == userID {
			continue
		}
		if _, ok := seen[otherID]; ok {
			continue
		}
		seen[otherID] = struct{}{}
		conversations = append(conversations, Conversation{
			UserSummary:   other.Summary(),
			LastMessage:   m.Content,
			LastMessageAt: m.CreatedAt,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastMessageAt.Equal(b.LastMessageAt) {
			return a.LastMessageAt.After(b.LastMessageAt)
		}
		return a.ID < b.ID
	})
	return conversations, nil
}

func (s *chatService) GetConversation(ctx context.Context, userID, otherID uint64) ([]MessageView, error) {
	messages, err := s.repo.FetchThread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, newMessageView(m))
	}
	return views, nil
}

func (s *chatService) DeleteConversation(ctx context.Context, userID, otherID uint64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		deleted, err := s.repo.DeleteThread(ctx, userID, otherID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return common.NewNotFoundError("conversation not found")
		}
		s.log.Info("conversation deleted",
			zap.Uint64("user_id", userID),
			zap.Uint64("other_user_id", otherID),
			zap.Int64("messages", deleted))
		return nil
	})
}
