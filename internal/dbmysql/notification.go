package dbmysql

import "time"

type Notification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	RecipientID uint64    `gorm:"column:recipient_id;not null;index:idx_notifications_recipient_created,priority:1"`
	SenderID    *uint64   `gorm:"column:sender_id;index"`
	Type        string    `gorm:"column:type;size:20;not null"`
	PostID      *uint64   `gorm:"column:post_id;index"`
	MessageID   *uint64   `gorm:"column:message_id;index"`
	Read        bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index:idx_notifications_recipient_created,priority:2"`

	Sender    *User    `gorm:"foreignKey:SenderID"`
	Recipient *User    `gorm:"foreignKey:RecipientID"`
	Post      *Post    `gorm:"foreignKey:PostID"`
	Message   *Message `gorm:"foreignKey:MessageID"`
}

func (Notification) TableName() string {
	return "notifications"
}
