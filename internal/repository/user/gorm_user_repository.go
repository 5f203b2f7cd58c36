// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateEmail = errors.New("email already registered")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}
	if err := user.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	taken, err := r.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Database error creating user: %v", err)
		return nil, errors.New("database error creating user")
	}
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] Database error finding user ID %d: %v", id, err)
		return nil, errors.New("database query failed")
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] Database error finding user by email: %v", err)
		return nil, errors.New("database query failed")
	}
	return &user, nil
}

// FindByIDs loads several users at once, keyed by ID. Missing IDs are
// simply absent from the result.
func (r *gormUserRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]domain.User, error) {
	result := make(map[uint]domain.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Printf("[UserRepository] Database error loading %d users: %v", len(ids), err)
		return nil, errors.New("database query failed")
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		log.Printf("[UserRepository] Database error checking email existence: %v", err)
		return false, errors.New("database query failed")
	}
	return count > 0, nil
}
