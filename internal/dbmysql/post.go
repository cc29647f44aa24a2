package dbmysql

import (
	"time"
)

// Post requires Content or Image; the service enforces it.
type Post struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	Content   *string   `gorm:"column:content;type:text"`
	Image     *string   `gorm:"column:image;size:512"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`

	Author   User      `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}

type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    uint64    `gorm:"column:post_id;not null;index"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	Text      string    `gorm:"column:text;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Author User `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}
