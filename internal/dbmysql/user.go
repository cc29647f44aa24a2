package dbmysql

import (
	"time"

	"socialapp/internal/common"
)

type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	FirstName      string    `gorm:"column:first_name;size:100;not null"`
	LastName       string    `gorm:"column:last_name;size:100;not null"`
	Email          string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Username       string    `gorm:"column:username;size:50;uniqueIndex;not null"`
	PasswordHash   string    `gorm:"column:password_hash;size:255;not null"`
	Phone          string    `gorm:"column:phone;size:20"`
	Bio            *string   `gorm:"column:bio;type:text"`
	ProfilePicture *string   `gorm:"column:profile_picture;size:512"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Summary() common.UserSummary {
	return common.UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}
