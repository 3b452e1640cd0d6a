package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"khao-backend/apperr"
	"khao-backend/models"
	"khao-backend/repository"
)

// updatableMenuItemFields maps the patchable JSON field names onto their
// columns; ids and counters written by the order/review subsystems are not
// patchable. Keys are the names clients send, which for prep time differs
// from the column.
var updatableMenuItemFields = map[string]string{
	"name":                        "name",
	"description":                 "description",
	"image_url":                   "image_url",
	"price":                       "price",
	"dietary_tags":                "dietary_tags",
	"spiciness_level":             "spiciness_level",
	"is_available":                "is_available",
	"estimated_prep_time_minutes": "estimated_prep_time_mins",
	"calories":                    "calories",
	"protein_grams":               "protein_grams",
	"carbs_grams":                 "carbs_grams",
	"fat_grams":                   "fat_grams",
	"fiber_grams":                 "fiber_grams",
	"serving_size":                "serving_size",
	"special_instructions":        "special_instructions",
	"category":                    "category",
	"is_temporary":                "is_temporary",
	"availability_end_date":       "availability_end_date",
	"is_new":                      "is_new",
}

// MenuService owns menu items scoped to one restaurant. Every mutation is
// gated by the restaurant's ownership predicate; read paths are public.
type MenuService struct {
	menu        *repository.MenuRepository
	restaurants *repository.RestaurantRepository
	log         *logrus.Logger
	now         func() time.Time
}

func NewMenuService(menu *repository.MenuRepository, restaurants *repository.RestaurantRepository, log *logrus.Logger) *MenuService {
	return &MenuService{menu: menu, restaurants: restaurants, log: log, now: time.Now}
}

// AddItem attaches a new item to the caller's restaurant. Approval status
// is deliberately not required: a pending restaurant may curate its menu
// while admin review is in flight.
func (s *MenuService) AddItem(ctx context.Context, ownerID, restaurantID string, item *models.MenuItem) (*models.MenuItem, error) {
	if _, err := s.requireOwnership(restaurantID, ownerID); err != nil {
		return nil, err
	}

	item.RestaurantID = restaurantID
	item.IsAvailable = true
	if err := s.menu.Create(item); err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("adding menu item")
		return nil, apperr.Wrap(apperr.Internal, "Failed to add menu item", err)
	}
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, ownerID, restaurantID, itemID string, patch map[string]interface{}) (*models.MenuItem, error) {
	if _, err := s.requireOwnership(restaurantID, ownerID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	for k, v := range patch {
		if column, ok := updatableMenuItemFields[k]; ok {
			updates[column] = v
		}
	}
	if len(updates) > 0 {
		affected, err := s.menu.Updates(itemID, restaurantID, updates)
		if err != nil {
			s.log.WithError(err).WithField("item_id", itemID).Error("updating menu item")
			return nil, apperr.Wrap(apperr.Internal, "Failed to update menu item", err)
		}
		if affected == 0 {
			return nil, apperr.New(apperr.NotFound, "Menu item not found")
		}
	}

	item, err := s.menu.FindInRestaurant(itemID, restaurantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Menu item not found")
	} else if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update menu item", err)
	}
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, ownerID, restaurantID, itemID string) error {
	if _, err := s.requireOwnership(restaurantID, ownerID); err != nil {
		return err
	}

	affected, err := s.menu.Delete(itemID, restaurantID)
	if err != nil {
		s.log.WithError(err).WithField("item_id", itemID).Error("deleting menu item")
		return apperr.Wrap(apperr.Internal, "Failed to delete menu item", err)
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "Menu item not found")
	}
	return nil
}

// ToggleAvailability flips is_available relative to the stored value, not
// a blind set, so concurrent toggles are not lost.
func (s *MenuService) ToggleAvailability(ctx context.Context, ownerID, restaurantID, itemID string) (*models.MenuItem, error) {
	if _, err := s.requireOwnership(restaurantID, ownerID); err != nil {
		return nil, err
	}

	affected, err := s.menu.ToggleAvailability(itemID, restaurantID)
	if err != nil {
		s.log.WithError(err).WithField("item_id", itemID).Error("toggling item availability")
		return nil, apperr.Wrap(apperr.Internal, "Failed to toggle item availability", err)
	}
	if affected == 0 {
		return nil, apperr.New(apperr.NotFound, "Menu item not found")
	}

	item, err := s.menu.FindInRestaurant(itemID, restaurantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to toggle item availability", err)
	}
	return item, nil
}

func (s *MenuService) Stats(ctx context.Context, ownerID, restaurantID string) (*repository.MenuStats, error) {
	if _, err := s.requireOwnership(restaurantID, ownerID); err != nil {
		return nil, err
	}
	stats, err := s.menu.Stats(restaurantID)
	if err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("fetching menu stats")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch menu statistics", err)
	}
	return stats, nil
}

// GetMenu is a public read; only effectively available items are returned.
func (s *MenuService) GetMenu(ctx context.Context, restaurantID, category, tag string) ([]models.MenuItem, error) {
	if err := s.requireRestaurant(restaurantID); err != nil {
		return nil, err
	}

	items, err := s.menu.ListEffective(restaurantID, category, tag, s.now())
	if err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("fetching menu")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch menu", err)
	}
	return items, nil
}

func (s *MenuService) GetItem(ctx context.Context, itemID string) (*models.MenuItem, error) {
	item, err := s.menu.FindByID(itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Menu item not found")
	} else if err != nil {
		s.log.WithError(err).WithField("item_id", itemID).Error("fetching menu item")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch menu item", err)
	}
	if !s.effectivelyAvailable(item) {
		return nil, apperr.New(apperr.NotFound, "Menu item not found")
	}
	return item, nil
}

func (s *MenuService) Search(ctx context.Context, restaurantID, term string) ([]models.MenuItem, error) {
	if err := s.requireRestaurant(restaurantID); err != nil {
		return nil, err
	}

	items, err := s.menu.Search(restaurantID, term, s.now())
	if err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("searching menu items")
		return nil, apperr.Wrap(apperr.Internal, "Failed to search menu items", err)
	}
	return items, nil
}

func (s *MenuService) ByDietaryTag(ctx context.Context, restaurantID, tag string) ([]models.MenuItem, error) {
	if err := s.requireRestaurant(restaurantID); err != nil {
		return nil, err
	}

	items, err := s.menu.ListEffective(restaurantID, "", tag, s.now())
	if err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("fetching items by dietary tag")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch items by dietary tag", err)
	}
	return items, nil
}

// Bestsellers ranks by quantity sold, tie-broken by average rating.
func (s *MenuService) Bestsellers(ctx context.Context, restaurantID string, limit int) ([]models.MenuItem, error) {
	if limit <= 0 {
		limit = 10
	}
	if err := s.requireRestaurant(restaurantID); err != nil {
		return nil, err
	}

	items, err := s.menu.Bestsellers(restaurantID, limit, s.now())
	if err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("fetching bestsellers")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch bestseller items", err)
	}
	return items, nil
}

// requireOwnership resolves the restaurant by (id, owner). Any miss is
// Forbidden, never NotFound: the gate must not leak whether the restaurant
// exists under a different owner.
func (s *MenuService) requireOwnership(restaurantID, ownerID string) (*models.Restaurant, error) {
	rest, err := s.restaurants.FindByIDAndOwner(restaurantID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.Forbidden, "You can only manage items in your own restaurant")
	} else if err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("resolving restaurant ownership")
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify restaurant ownership", err)
	}
	return rest, nil
}

// requireRestaurant guards the public read paths: listing against an unknown
// restaurant id is NotFound, never an empty result.
func (s *MenuService) requireRestaurant(restaurantID string) error {
	if _, err := s.restaurants.FindByID(restaurantID); errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "Restaurant not found")
	} else if err != nil {
		s.log.WithError(err).WithField("restaurant_id", restaurantID).Error("resolving restaurant for menu read")
		return apperr.Wrap(apperr.Internal, "Failed to fetch restaurant", err)
	}
	return nil
}

func (s *MenuService) effectivelyAvailable(item *models.MenuItem) bool {
	if !item.IsAvailable {
		return false
	}
	if !item.IsTemporary {
		return true
	}
	return item.AvailabilityEndDate != nil && item.AvailabilityEndDate.After(s.now())
}
