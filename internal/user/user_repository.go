package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gochat/internal/dbmysql"
)

//go:generate mockgen -source=user_repository.go -destination=mock_user_repository.go -package=user

type UserRepository interface {
	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
	GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint64) ([]*dbmysql.User, error)
	CheckUserExists(ctx context.Context, handle string) (bool, error)
	// UserExists reports whether userID is an active account.
	UserExists(ctx context.Context, userID uint64) (bool, error)
	// ListUsersExcept feeds the chat sidebar.
	ListUsersExcept(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, dbmysql.UserStatusActive).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("handle = ? AND status = ?", handle, dbmysql.UserStatusActive).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*dbmysql.User, error) {
	if len(ids) == 0 {
		return []*dbmysql.User{}, nil
	}
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status = ?", ids, dbmysql.UserStatusActive).
		Order("handle ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) CheckUserExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).Where("handle = ?", handle).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UserExists(ctx context.Context, userID uint64) (bool, error) {
	_, err := r.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepository) ListUsersExcept(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).
		Where("user_id <> ? AND status = ?", userID, dbmysql.UserStatusActive).
		Order("handle ASC").
		Find(&users).Error
	return users, err
}
