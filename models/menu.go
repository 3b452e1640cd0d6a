package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DietaryTag enumerates the dietary classifications an item may carry.
type DietaryTag string

const (
	TagPureVeg    DietaryTag = "pure_veg"
	TagVegan      DietaryTag = "vegan"
	TagJain       DietaryTag = "jain"
	TagGlutenFree DietaryTag = "gluten_free"
	TagOrganic    DietaryTag = "organic"
	TagHalal      DietaryTag = "halal"
)

type SpicinessLevel string

const (
	SpicinessNotSpicy SpicinessLevel = "not_spicy"
	SpicinessMild     SpicinessLevel = "mild"
	SpicinessMedium   SpicinessLevel = "medium"
	SpicinessHot      SpicinessLevel = "hot"
	SpicinessVeryHot  SpicinessLevel = "very_hot"
)

// MenuItem belongs to exactly one Restaurant. Every mutation must go
// through the owning restaurant's ownership gate.
type MenuItem struct {
	ID           string `json:"id" gorm:"type:uuid;primaryKey"`
	RestaurantID string `json:"restaurant_id" gorm:"type:uuid;not null;index"`

	Name        string  `json:"name" gorm:"size:255;not null"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       float64 `json:"price" gorm:"not null"`

	DietaryTags    StringList     `json:"dietary_tags" gorm:"type:text"`
	SpicinessLevel SpicinessLevel `json:"spiciness_level" gorm:"size:50;default:'medium'"`

	IsAvailable           bool `json:"is_available" gorm:"default:true;index"`
	EstimatedPrepTimeMins int  `json:"estimated_prep_time_minutes" gorm:"default:20"`

	Calories     int     `json:"calories,omitempty"`
	ProteinGrams float64 `json:"protein_grams,omitempty"`
	CarbsGrams   float64 `json:"carbs_grams,omitempty"`
	FatGrams     float64 `json:"fat_grams,omitempty"`
	FiberGrams   float64 `json:"fiber_grams,omitempty"`
	ServingSize  string  `json:"serving_size,omitempty" gorm:"size:100"`

	SpecialInstructions string `json:"special_instructions,omitempty"`
	Category            string `json:"category,omitempty" gorm:"size:100"`

	TotalOrders   int     `json:"total_orders" gorm:"default:0"`
	AverageRating float64 `json:"average_rating" gorm:"default:0"`
	TotalRatings  int     `json:"total_ratings" gorm:"default:0"`
	QuantitySold  int     `json:"quantity_sold" gorm:"default:0"`
	IsBestseller  bool    `json:"is_bestseller" gorm:"default:false"`
	IsNew         bool    `json:"is_new" gorm:"default:false"`

	// A temporary item past its end date is treated as unavailable by all
	// public read paths, independently of is_available.
	IsTemporary         bool       `json:"is_temporary" gorm:"default:false"`
	AvailabilityEndDate *time.Time `json:"availability_end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
