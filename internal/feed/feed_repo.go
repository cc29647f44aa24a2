package feed

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialapp/internal/dbmysql"
)

// PostFilter narrows a post listing. The zero value lists every post.
type PostFilter struct {
	AuthorID uint64
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *dbmysql.Post) error
	// GetPostByID loads the author and comments with their authors.
	GetPostByID(ctx context.Context, id uint64) (*dbmysql.Post, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*dbmysql.Post, error)
	LikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	LikedBy(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error)
	// ToggleLike flips the like and reports whether the post is now liked.
	ToggleLike(ctx context.Context, postID, userID uint64) (bool, error)
	CreateComment(ctx context.Context, comment *dbmysql.Comment) error
	// DeletePostCascade removes the post with its likes, comments and notifications.
	DeletePostCascade(ctx context.Context, postID uint64) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *dbmysql.Post) error {
	err := dbmysql.Conn(ctx, r.db).Omit(clause.Associations).Create(post).Error
	return dbmysql.TranslateError(err, "user")
}

func (r *postRepository) withThread(conn *gorm.DB) *gorm.DB {
	return conn.
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Comments.Author")
}

func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*dbmysql.Post, error) {
	var post dbmysql.Post
	if err := r.withThread(dbmysql.Conn(ctx, r.db)).First(&post, id).Error; err != nil {
		return nil, dbmysql.TranslateError(err, "post")
	}
	return &post, nil
}

func (r *postRepository) ListPosts(ctx context.Context, filter PostFilter) ([]*dbmysql.Post, error) {
	query := r.withThread(dbmysql.Conn(ctx, r.db))
	if filter.AuthorID != 0 {
		query = query.Where("user_id = ?", filter.AuthorID)
	}

	var posts []*dbmysql.Post
	if err := query.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) LikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint64
		Total  int64
	}
	err := dbmysql.Conn(ctx, r.db).Model(&dbmysql.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}

	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

func (r *postRepository) LikedBy(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool)
	if userID == 0 || len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uint64
	err := dbmysql.Conn(ctx, r.db).Model(&dbmysql.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("loading likes: %w", err)
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ToggleLike never reads before writing; the (post, user) key settles races.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint64) (bool, error) {
	conn := dbmysql.Conn(ctx, r.db)

	res := conn.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&dbmysql.Like{})
	if res.Error != nil {
		return false, fmt.Errorf("removing like: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := &dbmysql.Like{PostID: postID, UserID: userID}
	if err := conn.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return false, dbmysql.TranslateError(err, "like")
	}
	return true, nil
}

// CreateComment inserts the comment and loads its author.
func (r *postRepository) CreateComment(ctx context.Context, comment *dbmysql.Comment) error {
	conn := dbmysql.Conn(ctx, r.db)
	if err := conn.Omit(clause.Associations).Create(comment).Error; err != nil {
		return dbmysql.TranslateError(err, "post")
	}
	if err := conn.Model(comment).Association("Author").Find(&comment.Author); err != nil {
		return fmt.Errorf("loading comment author: %w", err)
	}
	return nil
}

func (r *postRepository) DeletePostCascade(ctx context.Context, postID uint64) error {
	conn := dbmysql.Conn(ctx, r.db)

	if err := conn.Where("post_id = ?", postID).Delete(&dbmysql.Notification{}).Error; err != nil {
		return fmt.Errorf("deleting post notifications: %w", err)
	}
	if err := conn.Where("post_id = ?", postID).Delete(&dbmysql.Like{}).Error; err != nil {
		return fmt.Errorf("deleting likes: %w", err)
	}
	if err := conn.Where("post_id = ?", postID).Delete(&dbmysql.Comment{}).Error; err != nil {
		return fmt.Errorf("deleting comments: %w", err)
	}

	res := conn.Delete(&dbmysql.Post{}, postID)
	if res.Error != nil {
		return fmt.Errorf("deleting post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbmysql.TranslateError(gorm.ErrRecordNotFound, "post")
	}
	return nil
}
