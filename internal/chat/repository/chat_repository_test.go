package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
	"socialapp/internal/testutil"
)

func send(t *testing.T, repo ChatRepository, from, to uint64, content string, at time.Time) *dbmysql.Message {
	t.Helper()
	msg := &dbmysql.Message{SenderID: from, ReceiverID: to, Content: content, CreatedAt: at}
	require.NoError(t, repo.Save(context.Background(), msg))
	return msg
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestChatRepository_Save(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChatRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	tests := []struct {
		name     string
		message  *dbmysql.Message
		wantKind common.ErrorKind
	}{
		{
			name:    "successful save",
			message: &dbmysql.Message{SenderID: alice.ID, ReceiverID: alice.ID, Content: "note to self"},
		},
		{
			name:     "unknown receiver",
			message:  &dbmysql.Message{SenderID: alice.ID, ReceiverID: 999, Content: "hello?"},
			wantKind: common.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Save(context.Background(), tt.message)
			if tt.wantKind != "" {
				assert.True(t, common.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.message.ID)
			assert.False(t, tt.message.CreatedAt.IsZero())
		})
	}
}

func TestChatRepository_FetchThread(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChatRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	base := time.Now().Add(-time.Hour)
	second := send(t, repo, bob.ID, alice.ID, "second", base.Add(time.Minute))
	first := send(t, repo, alice.ID, bob.ID, "first", base)
	send(t, repo, carol.ID, alice.ID, "unrelated", base)

	thread, err := repo.FetchThread(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, first.ID, thread[0].ID)
	assert.Equal(t, second.ID, thread[1].ID)

	mirrored, err := repo.FetchThread(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mirrored, 2)
}

func TestChatRepository_FetchInvolving(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChatRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	base := time.Now().Add(-time.Hour)
	send(t, repo, alice.ID, bob.ID, "old", base)
	latest := send(t, repo, carol.ID, alice.ID, "new", base.Add(time.Minute))
	send(t, repo, bob.ID, carol.ID, "not alice", base.Add(2*time.Minute))

	messages, err := repo.FetchInvolving(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, latest.ID, messages[0].ID)
	assert.Equal(t, "carol", messages[0].Sender.Username)
	assert.Equal(t, "alice", messages[0].Receiver.Username)
}

func TestChatRepository_DeleteThread(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	now := time.Now()
	hi := send(t, repo, alice.ID, bob.ID, "hi", now)
	send(t, repo, bob.ID, alice.ID, "hey", now)
	kept := send(t, repo, carol.ID, alice.ID, "still here", now)

	require.NoError(t, db.Create(&dbmysql.Notification{
		RecipientID: bob.ID, SenderID: &alice.ID, Type: string(common.NotificationMessage), MessageID: &hi.ID,
	}).Error)
	require.NoError(t, db.Create(&dbmysql.Notification{
		RecipientID: alice.ID, SenderID: &carol.ID, Type: string(common.NotificationMessage), MessageID: &kept.ID,
	}).Error)

	deleted, err := repo.DeleteThread(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	assert.Equal(t, int64(1), count(t, db, &dbmysql.Message{}))
	assert.Equal(t, int64(1), count(t, db, &dbmysql.Notification{}))

	deleted, err = repo.DeleteThread(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
