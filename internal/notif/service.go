package notif

import (
	"context"
	"time"

	"go.uber.org/zap"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
)

// UserLookup is the slice of the user repository notifications need.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint64) (*dbmysql.User, error)
}

type NotificationView struct {
	ID          uint64              `json:"id"`
	RecipientID uint64              `json:"recipientId"`
	SenderID    *uint64             `json:"senderId"`
	Type        string              `json:"type"`
	PostID      *uint64             `json:"postId"`
	MessageID   *uint64             `json:"messageId"`
	Read        bool                `json:"read"`
	CreatedAt   time.Time           `json:"createdAt"`
	Sender      *common.UserSummary `json:"sender"`
}

func newNotificationView(n *dbmysql.Notification) NotificationView {
	view := NotificationView{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Type:        n.Type,
		PostID:      n.PostID,
		MessageID:   n.MessageID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
	if n.Sender != nil {
		s := n.Sender.Summary()
		view.Sender = &s
	}
	return view
}

type CreateInput struct {
	RecipientID uint64
	Type        common.NotificationType
	PostID      *uint64
	MessageID   *uint64
}

type NotificationService struct {
	manager *NotificationManager
	repo    dbmysql.NotificationRepository
	users   UserLookup
	log     *zap.Logger
}

func NewNotificationService(repo dbmysql.NotificationRepository, users UserLookup, log *zap.Logger) *NotificationService {
	log = log.Named("notif")
	manager := NewNotificationManager(log)
	manager.Subscribe(NewLogNotificationObserver(log))

	return &NotificationService{
		manager: manager,
		repo:    repo,
		users:   users,
		log:     log,
	}
}

// Subscribe registers an extra observer for stored notifications.
func (s *NotificationService) Subscribe(observer Observer) {
	s.manager.Subscribe(observer)
}

// Emit stores the notification raised by another mutation and runs inside the caller's
// transaction when ctx carries one. Actions on one's own content notify nobody.
func (s *NotificationService) Emit(ctx context.Context, event common.NotificationEvent) error {
	if event.SenderID == event.RecipientID {
		return nil
	}
	if !event.Type.IsValid() {
		return common.NewValidationError("invalid notification type")
	}

	sender := event.SenderID
	n := &dbmysql.Notification{
		RecipientID: event.RecipientID,
		SenderID:    &sender,
		Type:        string(event.Type),
		PostID:      event.PostID,
		MessageID:   event.MessageID,
	}
	return s.store(ctx, n)
}

// Create stores an explicitly requested notification on behalf of the caller.
func (s *NotificationService) Create(ctx context.Context, callerID uint64, in CreateInput) (*NotificationView, error) {
	switch {
	case in.RecipientID == 0:
		return nil, common.NewValidationError("recipientId is required")
	case in.Type == "":
		return nil, common.NewValidationError("type is required")
	case !in.Type.IsValid():
		return nil, common.NewValidationError("type must be one of like, follow, comment, message")
	}

	if _, err := s.users.GetUserByID(ctx, in.RecipientID); err != nil {
		return nil, err
	}

	n := &dbmysql.Notification{
		RecipientID: in.RecipientID,
		Type:        string(in.Type),
		PostID:      in.PostID,
		MessageID:   in.MessageID,
	}
	if callerID != 0 {
		n.SenderID = &callerID
	}
	if err := s.store(ctx, n); err != nil {
		return nil, err
	}

	stored, err := s.repo.ByID(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	view := newNotificationView(stored)
	return &view, nil
}

func (s *NotificationService) store(ctx context.Context, n *dbmysql.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	// observers only hear about rows that survive the caller's transaction
	dbmysql.AfterCommit(ctx, func(ctx context.Context) {
		s.manager.Notify(ctx, n)
	})
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID uint64, limit, offset int) ([]NotificationView, error) {
	if limit < 0 || offset < 0 {
		return nil, common.NewValidationError("limit and offset must not be negative")
	}

	notifications, err := s.repo.ByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, newNotificationView(n))
	}
	return views, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

// MarkRead is idempotent for the recipient.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID uint64) (*NotificationView, error) {
	n, err := s.repo.ByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != callerID {
		return nil, common.NewForbiddenError("you can only mark your own notifications as read")
	}

	if !n.Read {
		if err := s.repo.MarkAsRead(ctx, notificationID); err != nil {
			return nil, err
		}
		n.Read = true
	}

	view := newNotificationView(n)
	return &view, nil
}
