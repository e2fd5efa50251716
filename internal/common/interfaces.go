package common

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// ImageHost stores image bytes and returns the URI clients fetch them from.
type ImageHost interface {
	Upload(ctx context.Context, ownerID uint64, img *Image) (string, error)
}

// UserDirectory answers whether a user id belongs to an active account.
type UserDirectory interface {
	UserExists(ctx context.Context, userID uint64) (bool, error)
}
