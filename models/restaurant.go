package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestaurantStatus is the admin-controlled approval lifecycle state.
// Only an admin decision writes this field.
type RestaurantStatus string

const (
	StatusPendingApproval RestaurantStatus = "pending_approval"
	StatusApproved        RestaurantStatus = "approved"
	StatusRejected        RestaurantStatus = "rejected"
	StatusSuspended       RestaurantStatus = "suspended"
	StatusActive          RestaurantStatus = "active"
	StatusInactive        RestaurantStatus = "inactive"
)

// WorkingStatus is the owner-controlled operational sub-state, meaningful
// only while the restaurant is approved.
type WorkingStatus string

const (
	WorkingOnline  WorkingStatus = "online"
	WorkingBusy    WorkingStatus = "busy"
	WorkingOffline WorkingStatus = "offline"
)

// Restaurant has a one-to-one owner relationship with a User.
type Restaurant struct {
	ID          string `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description,omitempty"`
	OwnerName   string `json:"owner_name" gorm:"size:255"`
	OwnerContact string `json:"owner_contact,omitempty" gorm:"size:20"`

	Address   string  `json:"address"`
	City      string  `json:"city,omitempty" gorm:"size:100"`
	State     string  `json:"state,omitempty" gorm:"size:100"`
	Country   string  `json:"country" gorm:"size:3;index"` // ISO code, immutable after registration
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	LogoURL       string     `json:"logo_url,omitempty"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	CuisineTypes  StringList `json:"cuisine_types" gorm:"type:text"`

	WorkingStatus WorkingStatus    `json:"working_status" gorm:"size:50;not null;default:'offline';index"`
	Status        RestaurantStatus `json:"status" gorm:"size:50;not null;default:'pending_approval';index"`

	Rating          float64 `json:"rating" gorm:"default:0"`
	TotalReviews    int     `json:"total_reviews" gorm:"default:0"`
	TotalOrders     int     `json:"total_orders" gorm:"default:0"`
	CancelledOrders int     `json:"cancelled_orders" gorm:"default:0"`

	IsVegetarianOnly bool `json:"is_vegetarian_only" gorm:"default:true"`

	// Approval metadata, written only by admin decisions
	ApprovedBy      string     `json:"approved_by,omitempty" gorm:"type:uuid"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`

	AcceptsOrders      bool    `json:"accepts_orders" gorm:"default:true"`
	AvgPrepTimeMinutes int     `json:"avg_prep_time_minutes" gorm:"default:30"`
	MinimumOrderAmount float64 `json:"minimum_order_amount" gorm:"default:0"`
	OffersDelivery     bool    `json:"offers_delivery" gorm:"default:false"`
	OffersPickup       bool    `json:"offers_pickup" gorm:"default:false"`

	LastOrderAt *time.Time `json:"last_order_at,omitempty"`

	MenuItems []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
