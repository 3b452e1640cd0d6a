package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer      UserRole = "customer"
	RoleRestaurant    UserRole = "restaurant"
	RoleDeliveryAgent UserRole = "delivery_agent"
	RoleSupportAgent  UserRole = "support_agent"
	RoleAdmin         UserRole = "admin"
)

// UserStatus is the account-level status, distinct from restaurant approval
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserDeleted   UserStatus = "deleted"
)

// User is the identity anchor. Accounts are keyed by (country_code,
// phone_number) and created on the first OTP send for an unseen phone,
// with phone_verified=false until a matching OTP is confirmed.
type User struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey"`
	CountryCode   string     `json:"country_code" gorm:"size:3;not null;uniqueIndex:idx_users_phone"`
	PhoneNumber   string     `json:"phone_number" gorm:"size:20;not null;uniqueIndex:idx_users_phone"`
	Role          UserRole   `json:"role" gorm:"size:20;not null;default:'customer'"`
	Status        UserStatus `json:"status" gorm:"size:20;not null;default:'active'"`
	PhoneVerified bool       `json:"phone_verified" gorm:"default:false"`
	Email         string     `json:"email,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
