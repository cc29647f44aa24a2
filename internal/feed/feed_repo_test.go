package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
	"socialapp/internal/testutil"
)

func TestPostRepository_ListOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	base := time.Now().Add(-time.Hour)
	older := &dbmysql.Post{UserID: alice.ID, Content: strPtr("older"), CreatedAt: base}
	newer := &dbmysql.Post{UserID: bob.ID, Content: strPtr("newer"), CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.CreatePost(ctx, older))
	require.NoError(t, repo.CreatePost(ctx, newer))

	second := &dbmysql.Comment{PostID: older.ID, UserID: alice.ID, Text: "second", CreatedAt: base.Add(2 * time.Minute)}
	first := &dbmysql.Comment{PostID: older.ID, UserID: bob.ID, Text: "first", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.CreateComment(ctx, second))
	require.NoError(t, repo.CreateComment(ctx, first))
	assert.Equal(t, "bob", first.Author.Username)

	posts, err := repo.ListPosts(ctx, PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, "bob", posts[0].Author.Username)

	require.Len(t, posts[1].Comments, 2)
	assert.Equal(t, "first", posts[1].Comments[0].Text)
	assert.Equal(t, "bob", posts[1].Comments[0].Author.Username)
	assert.Equal(t, "second", posts[1].Comments[1].Text)

	mine, err := repo.ListPosts(ctx, PostFilter{AuthorID: alice.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, older.ID, mine[0].ID)
}

func TestPostRepository_ToggleLike(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice.ID, "hello")

	liked, err := repo.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	counts, err := repo.LikeCounts(ctx, []uint64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[post.ID])

	byBob, err := repo.LikedBy(ctx, bob.ID, []uint64{post.ID})
	require.NoError(t, err)
	assert.True(t, byBob[post.ID])

	byAlice, err := repo.LikedBy(ctx, alice.ID, []uint64{post.ID})
	require.NoError(t, err)
	assert.False(t, byAlice[post.ID])

	liked, err = repo.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	counts, err = repo.LikeCounts(ctx, []uint64{post.ID})
	require.NoError(t, err)
	assert.Zero(t, counts[post.ID])
}

func TestPostRepository_ConcurrentToggleLike(t *testing.T) {
	db := testutil.NewFileDB(t, 4)
	repo := NewPostRepository(db)
	tx := dbmysql.NewTransactor(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice.ID, "hello")

	const toggles = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		likes int
	)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
				liked, err := repo.ToggleLike(ctx, post.ID, bob.ID)
				if err == nil && liked {
					mu.Lock()
					likes++
					mu.Unlock()
				}
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, db.Model(&dbmysql.Like{}).Where("post_id = ? AND user_id = ?", post.ID, bob.ID).Count(&rows).Error)
	assert.LessOrEqual(t, rows, int64(1))
	assert.Equal(t, int64(likes-(toggles-likes)), rows, "every toggle flips the state exactly once")
}

func TestLike_KeyRejectsDuplicatePair(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice.ID, "hello")

	require.NoError(t, db.Create(&dbmysql.Like{PostID: post.ID, UserID: bob.ID}).Error)
	err := dbmysql.TranslateError(db.Create(&dbmysql.Like{PostID: post.ID, UserID: bob.ID}).Error, "like")
	assert.True(t, common.IsKind(err, common.KindConflict), "got %v", err)
}

func TestPostRepository_ToggleLikeDanglingReferences(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice.ID, "hello")

	tests := []struct {
		name   string
		postID uint64
		userID uint64
	}{
		{"missing post", 9999, alice.ID},
		{"missing user", post.ID, 8888},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.ToggleLike(ctx, tt.postID, tt.userID)
			assert.True(t, common.IsKind(err, common.KindNotFound), "got %v", err)

			var rows int64
			require.NoError(t, db.Model(&dbmysql.Like{}).Count(&rows).Error)
			assert.Zero(t, rows)
		})
	}
}

func TestPostRepository_DeletePostCascade(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice.ID, "hello")
	keep := testutil.CreatePost(t, db, alice.ID, "keep me")

	_, err := repo.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, repo.CreateComment(ctx, &dbmysql.Comment{PostID: post.ID, UserID: bob.ID, Text: "nice"}))
	require.NoError(t, repo.CreateComment(ctx, &dbmysql.Comment{PostID: keep.ID, UserID: bob.ID, Text: "also nice"}))
	require.NoError(t, db.Create(&dbmysql.Notification{RecipientID: alice.ID, SenderID: &bob.ID, Type: "like", PostID: &post.ID}).Error)

	require.NoError(t, repo.DeletePostCascade(ctx, post.ID))

	_, err = repo.GetPostByID(ctx, post.ID)
	assert.True(t, common.IsKind(err, common.KindNotFound))

	var likes, comments, notifications int64
	require.NoError(t, db.Model(&dbmysql.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&dbmysql.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&dbmysql.Notification{}).Count(&notifications).Error)
	assert.Zero(t, likes)
	assert.Equal(t, int64(1), comments, "other posts keep their comments")
	assert.Zero(t, notifications)

	err = repo.DeletePostCascade(ctx, post.ID)
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func strPtr(s string) *string {
	return &s
}
