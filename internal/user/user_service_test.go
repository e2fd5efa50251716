package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gochat/internal/common"
	"gochat/internal/dbmysql"
)

type serviceFixture struct {
	svc        *userService
	userRepo   *MockUserRepository
	friendRepo *MockFriendRepository
	tokens     *common.TokenManager
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &serviceFixture{
		userRepo:   NewMockUserRepository(ctrl),
		friendRepo: NewMockFriendRepository(ctrl),
		tokens:     common.NewTokenManager("test-secret", time.Hour),
	}
	f.svc = NewUserService(f.userRepo, f.friendRepo, f.tokens, zap.NewNop()).(*userService)
	return f
}

func TestUserService_RegisterUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		handle   string
		email    string
		password string
		setup    func(f *serviceFixture)
		kind     error
	}{
		{
			name:     "success",
			handle:   "alice",
			email:    "Alice@Example.com",
			password: "Password123",
			setup: func(f *serviceFixture) {
				f.userRepo.EXPECT().CheckUserExists(ctx, "alice").Return(false, nil)
				f.userRepo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, u *dbmysql.User) error {
						assert.Equal(t, "alice@example.com", u.Email)
						assert.NotEqual(t, "Password123", u.PasswordHash)
						u.UserID = 7
						return nil
					})
			},
		},
		{
			name:     "duplicate handle",
			handle:   "bob",
			password: "Password123",
			setup: func(f *serviceFixture) {
				f.userRepo.EXPECT().CheckUserExists(ctx, "bob").Return(true, nil)
			},
			kind: common.ErrValidation,
		},
		{name: "invalid handle", handle: "!", password: "Password123", setup: func(*serviceFixture) {}, kind: common.ErrValidation},
		{name: "invalid email", handle: "alicegood", email: "bademail", password: "Password123", setup: func(*serviceFixture) {}, kind: common.ErrValidation},
		{name: "short password", handle: "alicegood", password: "123", setup: func(*serviceFixture) {}, kind: common.ErrValidation},
		{
			name:     "database failure",
			handle:   "carol",
			password: "Password123",
			setup: func(f *serviceFixture) {
				f.userRepo.EXPECT().CheckUserExists(ctx, "carol").Return(false, errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			tt.setup(f)

			u, token, err := f.svc.RegisterUser(ctx, tt.handle, tt.email, tt.password)
			if tt.name == "success" {
				require.NoError(t, err)
				assert.Equal(t, uint64(7), u.UserID)
				claims, err := f.tokens.ValidToken(token)
				require.NoError(t, err)
				assert.Equal(t, uint64(7), claims.UserID)
				return
			}
			require.Error(t, err)
			assert.Nil(t, u)
			assert.Empty(t, token)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			}
		})
	}
}

func TestUserService_LoginUser(t *testing.T) {
	ctx := context.Background()
	hash, err := common.HashPassword("Password123")
	require.NoError(t, err)
	alice := &dbmysql.User{UserID: 1, Handle: "alice", PasswordHash: hash, Status: dbmysql.UserStatusActive}

	tests := []struct {
		name     string
		handle   string
		password string
		setup    func(f *serviceFixture)
		kind     error
	}{
		{
			name: "success", handle: "alice", password: "Password123",
			setup: func(f *serviceFixture) { f.userRepo.EXPECT().GetUserByHandle(ctx, "alice").Return(alice, nil) },
		},
		{
			name: "wrong password", handle: "alice", password: "nope-nope",
			setup: func(f *serviceFixture) { f.userRepo.EXPECT().GetUserByHandle(ctx, "alice").Return(alice, nil) },
			kind:  common.ErrUnauthenticated,
		},
		{
			name: "unknown handle", handle: "ghost", password: "Password123",
			setup: func(f *serviceFixture) {
				f.userRepo.EXPECT().GetUserByHandle(ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			kind: common.ErrUnauthenticated,
		},
		{name: "missing fields", setup: func(*serviceFixture) {}, kind: common.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			tt.setup(f)
			u, token, err := f.svc.LoginUser(ctx, tt.handle, tt.password)
			if tt.kind == nil {
				require.NoError(t, err)
				assert.Equal(t, alice.UserID, u.UserID)
				assert.NotEmpty(t, token)
				return
			}
			assert.ErrorIs(t, err, tt.kind)
			if errors.Is(err, common.ErrUnauthenticated) {
				assert.EqualError(t, err, "Invalid handle or password")
			}
		})
	}
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.userRepo.EXPECT().GetUserByID(ctx, uint64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.GetProfile(ctx, 9)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserService_SendFriendRequest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		from   uint64
		to     uint64
		setup  func(f *serviceFixture)
		kind   error
		create bool
	}{
		{name: "self", from: 1, to: 1, setup: func(*serviceFixture) {}, kind: common.ErrValidation},
		{
			name: "unknown target", from: 1, to: 9,
			setup: func(f *serviceFixture) { f.userRepo.EXPECT().UserExists(ctx, uint64(9)).Return(false, nil) },
			kind:  common.ErrNotFound,
		},
		{
			name: "already friends or pending", from: 1, to: 2,
			setup: func(f *serviceFixture) {
				f.userRepo.EXPECT().UserExists(ctx, uint64(2)).Return(true, nil)
				f.friendRepo.EXPECT().CheckFriendshipExists(ctx, uint64(1), uint64(2)).Return(true, nil)
			},
			kind: common.ErrValidation,
		},
		{
			name: "created", from: 1, to: 2,
			setup: func(f *serviceFixture) {
				f.userRepo.EXPECT().UserExists(ctx, uint64(2)).Return(true, nil)
				f.friendRepo.EXPECT().CheckFriendshipExists(ctx, uint64(1), uint64(2)).Return(false, nil)
				f.friendRepo.EXPECT().CreateFriendRequest(ctx, &dbmysql.Friend{
					UserID: 1, FriendUserID: 2, Status: dbmysql.FriendStatusPending,
				}).Return(nil)
			},
			create: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			tt.setup(f)
			err := f.svc.SendFriendRequest(ctx, tt.from, tt.to)
			if tt.create {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestUserService_AcceptFriendRequest(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("accepts pending", func(t *testing.T) {
		f := newServiceFixture(t)
		f.svc.now = func() time.Time { return at }
		req := &dbmysql.Friend{ID: 3, UserID: 2, FriendUserID: 1, Status: dbmysql.FriendStatusPending}
		f.friendRepo.EXPECT().GetFriendRequest(ctx, uint64(2), uint64(1)).Return(req, nil)
		f.friendRepo.EXPECT().AcceptFriendRequest(ctx, req, at).Return(nil)

		assert.NoError(t, f.svc.AcceptFriendRequest(ctx, 1, 2))
	})

	t.Run("no such request", func(t *testing.T) {
		f := newServiceFixture(t)
		f.friendRepo.EXPECT().GetFriendRequest(ctx, uint64(2), uint64(1)).Return(nil, gorm.ErrRecordNotFound)
		assert.ErrorIs(t, f.svc.AcceptFriendRequest(ctx, 1, 2), common.ErrNotFound)
	})

	t.Run("already accepted", func(t *testing.T) {
		f := newServiceFixture(t)
		req := &dbmysql.Friend{UserID: 2, FriendUserID: 1, Status: dbmysql.FriendStatusAccepted}
		f.friendRepo.EXPECT().GetFriendRequest(ctx, uint64(2), uint64(1)).Return(req, nil)
		assert.ErrorIs(t, f.svc.AcceptFriendRequest(ctx, 1, 2), common.ErrValidation)
	})
}

func TestUserService_Lists(t *testing.T) {
	ctx := context.Background()
	users := []*dbmysql.User{{UserID: 2, Handle: "bob"}, {UserID: 3, Handle: "carol"}}

	f := newServiceFixture(t)
	f.friendRepo.EXPECT().ListFriendIDs(ctx, uint64(1)).Return([]uint64{3, 2}, nil)
	f.friendRepo.EXPECT().ListIncomingRequestIDs(ctx, uint64(1)).Return([]uint64{}, nil)
	f.friendRepo.EXPECT().ListOutgoingRequestIDs(ctx, uint64(1)).Return(nil, errors.New("db down"))
	f.userRepo.EXPECT().GetUsersByIDs(ctx, []uint64{3, 2}).Return(users, nil)
	f.userRepo.EXPECT().GetUsersByIDs(ctx, []uint64{}).Return([]*dbmysql.User{}, nil)
	f.userRepo.EXPECT().ListUsersExcept(ctx, uint64(1)).Return(users, nil)

	friends, err := f.svc.ListFriends(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, friends, 2)

	incoming, err := f.svc.ListIncomingRequests(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, incoming)

	_, err = f.svc.ListOutgoingRequests(ctx, 1)
	assert.Error(t, err)

	sidebar, err := f.svc.ListSidebarUsers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, users, sidebar)
}
