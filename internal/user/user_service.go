package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gochat/internal/common"
	"gochat/internal/dbmysql"
)

//go:generate mockgen -source=user_service.go -destination=mock_user_service.go -package=user

type UserService interface {
	RegisterUser(ctx context.Context, handle, email, password string) (*dbmysql.User, string, error)
	LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error)
	ListSidebarUsers(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
	SendFriendRequest(ctx context.Context, userID, targetUserID uint64) error
	AcceptFriendRequest(ctx context.Context, userID, requesterID uint64) error
	ListFriends(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
	ListIncomingRequests(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
	ListOutgoingRequests(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
}

type userService struct {
	userRepo   UserRepository
	friendRepo FriendRepository
	tokens     *common.TokenManager
	log        *zap.Logger
	now        func() time.Time
}

func NewUserService(userRepo UserRepository, friendRepo FriendRepository, tokens *common.TokenManager, log *zap.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		tokens:     tokens,
		log:        log,
		now:        time.Now,
	}
}

func (s *userService) RegisterUser(ctx context.Context, handle, email, password string) (*dbmysql.User, string, error) {
	handle = strings.TrimSpace(handle)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := common.ValidateHandle(handle); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	exists, err := s.userRepo.CheckUserExists(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", common.Invalid("handle already exists")
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &dbmysql.User{
		Handle:       handle,
		Email:        email,
		PasswordHash: hashed,
		Status:       dbmysql.UserStatusActive,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.UserID, user.Handle)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", zap.Uint64("user_id", user.UserID), zap.String("handle", user.Handle))
	return user, token, nil
}

// LoginUser answers every credential failure with the same error.
func (s *userService) LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error) {
	if handle == "" || password == "" {
		return nil, "", common.Invalid("handle and password required")
	}

	user, err := s.userRepo.GetUserByHandle(ctx, strings.TrimSpace(handle))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", common.Unauthenticated("Invalid handle or password")
	}
	if err != nil {
		return nil, "", err
	}
	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", common.Unauthenticated("Invalid handle or password")
	}

	token, err := s.tokens.GenerateToken(user.UserID, user.Handle)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("User not found")
	}
	return user, err
}

func (s *userService) ListSidebarUsers(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	return s.userRepo.ListUsersExcept(ctx, userID)
}

func (s *userService) SendFriendRequest(ctx context.Context, userID, targetUserID uint64) error {
	if userID == targetUserID {
		return common.Invalid("cannot send a friend request to yourself")
	}

	exists, err := s.userRepo.UserExists(ctx, targetUserID)
	if err != nil {
		return err
	}
	if !exists {
		return common.NotFound("User not found")
	}

	pending, err := s.friendRepo.CheckFriendshipExists(ctx, userID, targetUserID)
	if err != nil {
		return err
	}
	if pending {
		return common.Invalid("already friends or request pending")
	}

	return s.friendRepo.CreateFriendRequest(ctx, &dbmysql.Friend{
		UserID:       userID,
		FriendUserID: targetUserID,
		Status:       dbmysql.FriendStatusPending,
	})
}

func (s *userService) AcceptFriendRequest(ctx context.Context, userID, requesterID uint64) error {
	req, err := s.friendRepo.GetFriendRequest(ctx, requesterID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NotFound("Friend request not found")
	}
	if err != nil {
		return err
	}
	if req.Status != dbmysql.FriendStatusPending {
		return common.Invalid("friend request is not pending")
	}
	return s.friendRepo.AcceptFriendRequest(ctx, req, s.now().UTC())
}

func (s *userService) ListFriends(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	return s.usersFor(ctx, userID, s.friendRepo.ListFriendIDs)
}

func (s *userService) ListIncomingRequests(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	return s.usersFor(ctx, userID, s.friendRepo.ListIncomingRequestIDs)
}

func (s *userService) ListOutgoingRequests(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	return s.usersFor(ctx, userID, s.friendRepo.ListOutgoingRequestIDs)
}

func (s *userService) usersFor(ctx context.Context, userID uint64, ids func(context.Context, uint64) ([]uint64, error)) ([]*dbmysql.User, error) {
	list, err := ids(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetUsersByIDs(ctx, list)
}
