package user

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialapp/internal/dbmysql"
)

type FollowRepository interface {
	// Toggle flips the follower->following edge and reports whether it now exists.
	Toggle(ctx context.Context, followerID, followingID uint64) (bool, error)
	Exists(ctx context.Context, followerID, followingID uint64) (bool, error)
	ListFollowers(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
	ListFollowing(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Toggle deletes the edge and inserts it only when nothing was deleted.
// The composite key absorbs a concurrent insert of the same pair.
func (r *followRepository) Toggle(ctx context.Context, followerID, followingID uint64) (bool, error) {
	conn := dbmysql.Conn(ctx, r.db)

	res := conn.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&dbmysql.Follow{})
	if res.Error != nil {
		return false, fmt.Errorf("removing follow: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	edge := &dbmysql.Follow{FollowerID: followerID, FollowingID: followingID}
	err := conn.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(edge).Error
	if err != nil {
		return false, dbmysql.TranslateError(err, "follow")
	}
	return true, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var count int64
	err := dbmysql.Conn(ctx, r.db).Model(&dbmysql.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking follow: %w", err)
	}
	return count > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	var edges []dbmysql.Follow
	err := dbmysql.Conn(ctx, r.db).
		Preload("Follower").
		Where("following_id = ?", userID).
		Order("created_at ASC").Order("follower_id ASC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("listing followers: %w", err)
	}

	users := make([]*dbmysql.User, 0, len(edges))
	for i := range edges {
		users = append(users, &edges[i].Follower)
	}
	return users, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	var edges []dbmysql.Follow
	err := dbmysql.Conn(ctx, r.db).
		Preload("Following").
		Where("follower_id = ?", userID).
		Order("created_at ASC").Order("following_id ASC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("listing following: %w", err)
	}

	users := make([]*dbmysql.User, 0, len(edges))
	for i := range edges {
		users = append(users, &edges[i].Following)
	}
	return users, nil
}
