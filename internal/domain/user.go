// File: internal/domain/user.go
package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles mirror the membership tiers of the gym. Everything above
// "usuario" counts as staff when assigning conversation sides.
const (
	RoleCreator = "creador"
	RoleAdmin   = "admin"
	RoleMonitor = "monitor"
	RoleMember  = "usuario"
)

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:usuario"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsStaff reports whether the user holds an elevated role. Staff users
// take the staff side of a private conversation.
func (u *User) IsStaff() bool {
	switch u.Role {
	case RoleCreator, RoleAdmin, RoleMonitor:
		return true
	}
	return false
}

// IsAdmin reports whether the user may moderate the public chat.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the user's hashed password.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsValid() error {
	if len(strings.TrimSpace(u.Name)) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("a valid email is required")
	}
	switch u.Role {
	case RoleCreator, RoleAdmin, RoleMonitor, RoleMember:
	default:
		return errors.New("unknown role")
	}
	return nil
}
