package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"khao-backend/models"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) Create(item *models.MenuItem) error {
	return r.DB.Create(item).Error
}

func (r *MenuRepository) FindByID(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) FindInRestaurant(itemID, restaurantID string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.DB.Where("id = ? AND restaurant_id = ?", itemID, restaurantID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) Updates(itemID, restaurantID string, fields map[string]interface{}) (int64, error) {
	res := r.DB.Model(&models.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *MenuRepository) Delete(itemID, restaurantID string) (int64, error) {
	res := r.DB.Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		Delete(&models.MenuItem{})
	return res.RowsAffected, res.Error
}

// ToggleAvailability flips is_available against the stored value in one
// conditional update, so concurrent toggles are never lost.
func (r *MenuRepository) ToggleAvailability(itemID, restaurantID string) (int64, error) {
	res := r.DB.Model(&models.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		UpdateColumn("is_available", gorm.Expr("NOT is_available"))
	return res.RowsAffected, res.Error
}

// effectivelyAvailable is the public read-path filter: an item must be
// switched on, and a temporary item must still be inside its window.
func effectivelyAvailable(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("is_available = ?", true).
		Where("is_temporary = ? OR (availability_end_date IS NOT NULL AND availability_end_date > ?)", false, now)
}

func (r *MenuRepository) ListEffective(restaurantID, category, tag string, now time.Time) ([]models.MenuItem, error) {
	query := effectivelyAvailable(r.DB.Model(&models.MenuItem{}), now).
		Where("restaurant_id = ?", restaurantID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if tag != "" {
		query = query.Where("(',' || dietary_tags || ',') LIKE ?", "%,"+tag+",%")
	}

	var items []models.MenuItem
	err := query.Order("category ASC").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *MenuRepository) Search(restaurantID, term string, now time.Time) ([]models.MenuItem, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	query := effectivelyAvailable(r.DB.Model(&models.MenuItem{}), now).
		Where("restaurant_id = ?", restaurantID).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var items []models.MenuItem
	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *MenuRepository) Bestsellers(restaurantID string, limit int, now time.Time) ([]models.MenuItem, error) {
	query := effectivelyAvailable(r.DB.Model(&models.MenuItem{}), now).
		Where("restaurant_id = ?", restaurantID)

	var items []models.MenuItem
	err := query.Order("quantity_sold DESC").Order("average_rating DESC").
		Limit(limit).Find(&items).Error
	return items, err
}

// MenuStats aggregates owner-facing menu counters.
type MenuStats struct {
	TotalItems      int64 `json:"total_items"`
	AvailableItems  int64 `json:"available_items"`
	BestsellerItems int64 `json:"bestseller_items"`
	TotalOrders     int64 `json:"total_orders"`
}

func (r *MenuRepository) Stats(restaurantID string) (*MenuStats, error) {
	base := func() *gorm.DB {
		return r.DB.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurantID)
	}

	var stats MenuStats
	if err := base().Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_available = ?", true).Count(&stats.AvailableItems).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_bestseller = ?", true).Count(&stats.BestsellerItems).Error; err != nil {
		return nil, err
	}
	var totalOrders *int64
	if err := base().Select("SUM(total_orders)").Scan(&totalOrders).Error; err != nil {
		return nil, err
	}
	if totalOrders != nil {
		stats.TotalOrders = *totalOrders
	}
	return &stats, nil
}
