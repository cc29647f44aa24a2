package dbmysql

import (
	"time"
)

// Follow is a directed edge from follower to following.
type Follow struct {
	FollowerID  uint64    `gorm:"primaryKey;autoIncrement:false;column:follower_id"`
	FollowingID uint64    `gorm:"primaryKey;autoIncrement:false;column:following_id;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	Follower  User `gorm:"foreignKey:FollowerID"`
	Following User `gorm:"foreignKey:FollowingID"`
}

func (Follow) TableName() string {
	return "follows"
}
