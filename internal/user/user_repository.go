package user

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"socialapp/internal/dbmysql"
)

// Stats are derived at read time from the follow and post tables.
type Stats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
}

// UserRepository holds the identity store queries.
type UserRepository interface {
	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
	GetUserByEmail(ctx context.Context, email string) (*dbmysql.User, error)
	UpdateUser(ctx context.Context, user *dbmysql.User) error

	// Exists checks ignore the row with excludeID, so an update can keep its own value.
	UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error)

	SearchUsers(ctx context.Context, query string, columns []string, limit int) ([]*dbmysql.User, error)
	CountStats(ctx context.Context, userID uint64) (*Stats, error)

	// DeleteUserCascade removes the user and everything referencing them.
	// It returns the media references the caller should discard.
	DeleteUserCascade(ctx context.Context, userID uint64) ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	return dbmysql.TranslateError(dbmysql.Conn(ctx, r.db).Create(user).Error, "user")
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	if err := dbmysql.Conn(ctx, r.db).First(&user, userID).Error; err != nil {
		return nil, dbmysql.TranslateError(err, "user")
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*dbmysql.User, error) {
	var user dbmysql.User
	if err := dbmysql.Conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, dbmysql.TranslateError(err, "user")
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *dbmysql.User) error {
	return dbmysql.TranslateError(dbmysql.Conn(ctx, r.db).Save(user).Error, "user")
}

func (r *userRepository) UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "username", username, excludeID)
}

func (r *userRepository) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *userRepository) exists(ctx context.Context, column, value string, excludeID uint64) (bool, error) {
	var count int64
	err := dbmysql.Conn(ctx, r.db).Model(&dbmysql.User{}).
		Where(column+" = ? AND id <> ?", value, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", column, err)
	}
	return count > 0, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchUsers does a case-insensitive substring match over the given columns.
func (r *userRepository) SearchUsers(ctx context.Context, query string, columns []string, limit int) ([]*dbmysql.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	conds := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '!'")
		args = append(args, pattern)
	}

	var users []*dbmysql.User
	err := dbmysql.Conn(ctx, r.db).
		Where(strings.Join(conds, " OR "), args...).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	return users, nil
}

func (r *userRepository) CountStats(ctx context.Context, userID uint64) (*Stats, error) {
	conn := dbmysql.Conn(ctx, r.db)
	var stats Stats

	if err := conn.Model(&dbmysql.Follow{}).Where("following_id = ?", userID).Count(&stats.Followers).Error; err != nil {
		return nil, fmt.Errorf("counting followers: %w", err)
	}
	if err := conn.Model(&dbmysql.Follow{}).Where("follower_id = ?", userID).Count(&stats.Following).Error; err != nil {
		return nil, fmt.Errorf("counting following: %w", err)
	}
	if err := conn.Model(&dbmysql.Post{}).Where("user_id = ?", userID).Count(&stats.Posts).Error; err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}
	return &stats, nil
}

// DeleteUserCascade must run inside a transaction.
// Rows go children first so foreign keys hold at every step.
func (r *userRepository) DeleteUserCascade(ctx context.Context, userID uint64) ([]string, error) {
	conn := dbmysql.Conn(ctx, r.db)

	var user dbmysql.User
	if err := conn.Select("id", "profile_picture").First(&user, userID).Error; err != nil {
		return nil, dbmysql.TranslateError(err, "user")
	}

	var posts []dbmysql.Post
	if err := conn.Select("id", "image").Where("user_id = ?", userID).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}
	postIDs := make([]uint64, 0, len(posts))
	var refs []string
	if user.ProfilePicture != nil && *user.ProfilePicture != "" {
		refs = append(refs, *user.ProfilePicture)
	}
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if p.Image != nil && *p.Image != "" {
			refs = append(refs, *p.Image)
		}
	}

	var messageIDs []uint64
	if err := conn.Model(&dbmysql.Message{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Pluck("id", &messageIDs).Error; err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}

	notifications := conn.Where("recipient_id = ? OR sender_id = ?", userID, userID)
	if len(postIDs) > 0 {
		notifications = notifications.Or("post_id IN ?", postIDs)
	}
	if len(messageIDs) > 0 {
		notifications = notifications.Or("message_id IN ?", messageIDs)
	}

	steps := []struct {
		what  string
		query *gorm.DB
		model interface{}
	}{
		{"notifications", notifications, &dbmysql.Notification{}},
		{"likes", byUserOrPosts(conn, "user_id", userID, postIDs), &dbmysql.Like{}},
		{"comments", byUserOrPosts(conn, "user_id", userID, postIDs), &dbmysql.Comment{}},
		{"posts", conn.Where("user_id = ?", userID), &dbmysql.Post{}},
		{"messages", conn.Where("sender_id = ? OR receiver_id = ?", userID, userID), &dbmysql.Message{}},
		{"follows", conn.Where("follower_id = ? OR following_id = ?", userID, userID), &dbmysql.Follow{}},
	}
	for _, step := range steps {
		if err := step.query.Delete(step.model).Error; err != nil {
			return nil, fmt.Errorf("deleting %s: %w", step.what, err)
		}
	}

	res := conn.Delete(&dbmysql.User{}, userID)
	if res.Error != nil {
		return nil, fmt.Errorf("deleting user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, dbmysql.TranslateError(gorm.ErrRecordNotFound, "user")
	}
	return refs, nil
}

func byUserOrPosts(conn *gorm.DB, column string, userID uint64, postIDs []uint64) *gorm.DB {
	q := conn.Where(column+" = ?", userID)
	if len(postIDs) > 0 {
		q = q.Or("post_id IN ?", postIDs)
	}
	return q
}
