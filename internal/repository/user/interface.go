package user

import (
	"context"

	"github.com/jvidalgz/go-gympulse/internal/domain"
)

// UserRepository handles user directory operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
