package notif

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"socialapp/internal/dbmysql"
)

// Observer reacts to a notification once it has been stored.
type Observer interface {
	Name() string
	Update(ctx context.Context, n *dbmysql.Notification) error
}

// NotificationManager fans stored notifications out to its observers, in the caller's goroutine.
type NotificationManager struct {
	observers map[string]Observer
	mu        sync.RWMutex
	log       *zap.Logger
}

func NewNotificationManager(log *zap.Logger) *NotificationManager {
	return &NotificationManager{
		observers: make(map[string]Observer),
		log:       log,
	}
}

func (nm *NotificationManager) Subscribe(observer Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.observers[observer.Name()] = observer
	nm.log.Debug("observer subscribed", zap.String("observer", observer.Name()))
}

func (nm *NotificationManager) Unsubscribe(observer Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.observers, observer.Name())
	nm.log.Debug("observer unsubscribed", zap.String("observer", observer.Name()))
}

// Notify never fails the caller: observer errors are logged.
func (nm *NotificationManager) Notify(ctx context.Context, n *dbmysql.Notification) {
	nm.mu.RLock()
	observers := make([]Observer, 0, len(nm.observers))
	for _, obs := range nm.observers {
		observers = append(observers, obs)
	}
	nm.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(ctx, n); err != nil {
			nm.log.Warn("observer update failed",
				zap.String("observer", observer.Name()),
				zap.Uint64("notification_id", n.ID),
				zap.Error(err))
		}
	}
}

// LogNotificationObserver writes one structured line per notification.
type LogNotificationObserver struct {
	log *zap.Logger
}

func NewLogNotificationObserver(log *zap.Logger) *LogNotificationObserver {
	return &LogNotificationObserver{log: log}
}

func (l *LogNotificationObserver) Name() string {
	return "log_observer"
}

func (l *LogNotificationObserver) Update(_ context.Context, n *dbmysql.Notification) error {
	fields := []zap.Field{
		zap.Uint64("notification_id", n.ID),
		zap.String("type", n.Type),
		zap.Uint64("recipient_id", n.RecipientID),
	}
	if n.SenderID != nil {
		fields = append(fields, zap.Uint64("sender_id", *n.SenderID))
	}
	if n.PostID != nil {
		fields = append(fields, zap.Uint64("post_id", *n.PostID))
	}
	if n.MessageID != nil {
		fields = append(fields, zap.Uint64("message_id", *n.MessageID))
	}
	l.log.Info("notification stored", fields...)
	return nil
}
