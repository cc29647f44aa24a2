package dbmysql

import (
	"time"
)

type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	SenderID   uint64    `gorm:"column:sender_id;not null;index"`
	ReceiverID uint64    `gorm:"column:receiver_id;not null;index"`
	Content    string    `gorm:"column:content;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index"`

	Sender   User `gorm:"foreignKey:SenderID"`
	Receiver User `gorm:"foreignKey:ReceiverID"`
}

func (Message) TableName() string {
	return "messages"
}

// CounterpartOf returns the participant that is not userID.
func (m *Message) CounterpartOf(userID uint64) (uint64, *User) {
	if m.SenderID == userID {
		return m.ReceiverID, &m.Receiver
	}
	return m.SenderID, &m.Sender
}
