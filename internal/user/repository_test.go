package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gochat/internal/dbmysql"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

var userColumns = []string{"user_id", "handle", "password_hash", "email", "status"}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get by id", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users` WHERE \\(user_id = \\? AND status = \\?\\)").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "alice", "h", "a@x.com", "active"))

		u, err := NewUserRepository(db).GetUserByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Handle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user exists maps not found to false", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(sqlmock.NewRows(userColumns))

		ok, err := NewUserRepository(db).UserExists(ctx, 42)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("user exists surfaces driver errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnError(errors.New("conn reset"))

		ok, err := NewUserRepository(db).UserExists(ctx, 42)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("sidebar excludes caller", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users` WHERE \\(user_id <> \\? AND status = \\?\\).*ORDER BY handle ASC").
			WithArgs(1, "active").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(2, "bob", "h", "", "active").
				AddRow(3, "carol", "h", "", "active"))

		users, err := NewUserRepository(db).ListUsersExcept(ctx, 1)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "bob", users[0].Handle)
	})

	t.Run("no ids no query", func(t *testing.T) {
		db, mock := newMockDB(t)
		users, err := NewUserRepository(db).GetUsersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(5, 1))
		mock.ExpectCommit()

		u := &dbmysql.User{Handle: "dave", PasswordHash: "h", Status: dbmysql.UserStatusActive}
		require.NoError(t, NewUserRepository(db).CreateUser(ctx, u))
		assert.Equal(t, uint64(5), u.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFriendRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("friendship check covers both directions", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `friends` WHERE \\(\\(user_id = \\? AND friend_user_id = \\?\\) OR \\(user_id = \\? AND friend_user_id = \\?\\)\\)").
			WithArgs(1, 2, 2, 1).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		ok, err := NewFriendRepository(db).CheckFriendshipExists(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incoming requests pluck requesters", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT `user_id` FROM `friends` WHERE \\(friend_user_id = \\? AND status = \\?\\)").
			WithArgs(1, "pending").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(4).AddRow(6))

		ids, err := NewFriendRepository(db).ListIncomingRequestIDs(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint64{4, 6}, ids)
	})

	t.Run("outgoing requests pluck targets", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT `friend_user_id` FROM `friends` WHERE \\(user_id = \\? AND status = \\?\\)").
			WithArgs(1, "pending").
			WillReturnRows(sqlmock.NewRows([]string{"friend_user_id"}).AddRow(8))

		ids, err := NewFriendRepository(db).ListOutgoingRequestIDs(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint64{8}, ids)
	})

	t.Run("accept writes both rows in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `friends` SET").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO `friends`").WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectCommit()

		req := &dbmysql.Friend{ID: 10, UserID: 2, FriendUserID: 1, Status: dbmysql.FriendStatusPending}
		at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, NewFriendRepository(db).AcceptFriendRequest(ctx, req, at))
		assert.Equal(t, dbmysql.FriendStatusAccepted, req.Status)
		assert.Equal(t, at, *req.AcceptedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("accept rolls back when reverse row fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `friends` SET").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO `friends`").WillReturnError(errors.New("duplicate entry"))
		mock.ExpectRollback()

		req := &dbmysql.Friend{ID: 10, UserID: 2, FriendUserID: 1, Status: dbmysql.FriendStatusPending}
		assert.Error(t, NewFriendRepository(db).AcceptFriendRequest(ctx, req, time.Now()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
