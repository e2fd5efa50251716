package user

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gochat/internal/dbmysql"
)

//go:generate mockgen -source=friend_repository.go -destination=mock_friend_repository.go -package=user

type FriendRepository interface {
	CreateFriendRequest(ctx context.Context, friend *dbmysql.Friend) error
	GetFriendRequest(ctx context.Context, userID, friendUserID uint64) (*dbmysql.Friend, error)
	// AcceptFriendRequest flips req to accepted and writes the reverse row in one transaction.
	AcceptFriendRequest(ctx context.Context, req *dbmysql.Friend, at time.Time) error
	ListFriendIDs(ctx context.Context, userID uint64) ([]uint64, error)
	// ListIncomingRequestIDs returns who asked userID; ListOutgoingRequestIDs whom userID asked.
	ListIncomingRequestIDs(ctx context.Context, userID uint64) ([]uint64, error)
	ListOutgoingRequestIDs(ctx context.Context, userID uint64) ([]uint64, error)
	CheckFriendshipExists(ctx context.Context, userID, friendUserID uint64) (bool, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateFriendRequest(ctx context.Context, friend *dbmysql.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *friendRepository) GetFriendRequest(ctx context.Context, userID, friendUserID uint64) (*dbmysql.Friend, error) {
	var friend dbmysql.Friend
	err := r.db.WithContext(ctx).Where("user_id = ? AND friend_user_id = ?", userID, friendUserID).First(&friend).Error
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

func (r *friendRepository) AcceptFriendRequest(ctx context.Context, req *dbmysql.Friend, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req.Status = dbmysql.FriendStatusAccepted
		req.AcceptedAt = &at
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		reverse := &dbmysql.Friend{
			UserID:       req.FriendUserID,
			FriendUserID: req.UserID,
			Status:       dbmysql.FriendStatusAccepted,
			AcceptedAt:   &at,
		}
		return tx.Create(reverse).Error
	})
}

func (r *friendRepository) ListFriendIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Friend{}).
		Where("user_id = ? AND status = ?", userID, dbmysql.FriendStatusAccepted).
		Order("accepted_at DESC").
		Pluck("friend_user_id", &ids).Error
	return ids, err
}

func (r *friendRepository) ListIncomingRequestIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Friend{}).
		Where("friend_user_id = ? AND status = ?", userID, dbmysql.FriendStatusPending).
		Order("requested_at DESC").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *friendRepository) ListOutgoingRequestIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Friend{}).
		Where("user_id = ? AND status = ?", userID, dbmysql.FriendStatusPending).
		Order("requested_at DESC").
		Pluck("friend_user_id", &ids).Error
	return ids, err
}

// CheckFriendshipExists is true for a pending request either way or an accepted friendship.
func (r *friendRepository) CheckFriendshipExists(ctx context.Context, userID, friendUserID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Friend{}).
		Where("(user_id = ? AND friend_user_id = ?) OR (user_id = ? AND friend_user_id = ?)", userID, friendUserID, friendUserID, userID).
		Count(&count).Error
	return count > 0, err
}
