package repository

import (
	"context"

	"gorm.io/gorm"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
)

type ChatRepository interface {
	Save(ctx context.Context, msg *dbmysql.Message) error
	// FetchInvolving returns every message the user sent or received, newest first,
	// with both participants loaded.
	FetchInvolving(ctx context.Context, userID uint64) ([]*dbmysql.Message, error)
	FetchThread(ctx context.Context, userID, otherID uint64) ([]*dbmysql.Message, error)
	// DeleteThread removes the messages between the pair in both directions together
	// with the message notifications pointing at them. It reports how many messages went.
	DeleteThread(ctx context.Context, userID, otherID uint64) (int64, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	err := dbmysql.Conn(ctx, r.db).Omit("Sender", "Receiver").Create(msg).Error
	return dbmysql.TranslateError(err, "user")
}

func (r *chatRepo) FetchInvolving(ctx context.Context, userID uint64) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := dbmysql.Conn(ctx, r.db).
		Preload("Sender").
		Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, dbmysql.TranslateError(err, "message")
	}
	return messages, nil
}

func (r *chatRepo) FetchThread(ctx context.Context, userID, otherID uint64) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := between(dbmysql.Conn(ctx, r.db), userID, otherID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, dbmysql.TranslateError(err, "message")
	}
	return messages, nil
}

func (r *chatRepo) DeleteThread(ctx context.Context, userID, otherID uint64) (int64, error) {
	conn := dbmysql.Conn(ctx, r.db)

	ids := between(conn.Model(&dbmysql.Message{}), userID, otherID).Select("id")
	if err := conn.
		Where("type = ? AND message_id IN (?)", string(common.NotificationMessage), ids).
		Delete(&dbmysql.Notification{}).Error; err != nil {
		return 0, dbmysql.TranslateError(err, "notification")
	}

	res := between(conn, userID, otherID).Delete(&dbmysql.Message{})
	if res.Error != nil {
		return 0, dbmysql.TranslateError(res.Error, "message")
	}
	return res.RowsAffected, nil
}

func between(db *gorm.DB, a, b uint64) *gorm.DB {
	return db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
}
