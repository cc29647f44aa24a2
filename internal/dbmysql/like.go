package dbmysql

import "time"

// Like is keyed by (post, user) so a pair can exist at most once.
type Like struct {
	PostID    uint64    `gorm:"primaryKey;autoIncrement:false;column:post_id"`
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false;column:user_id;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	// belongs-to only so migrations emit the foreign keys
	Post *Post `gorm:"foreignKey:PostID"`
	User *User `gorm:"foreignKey:UserID"`
}

func (Like) TableName() string {
	return "likes"
}
