package repository

import (
	"gorm.io/gorm"

	"khao-backend/models"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) FindByID(id string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.Where("id = ?", id).First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) FindByOwner(ownerID string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.Where("user_id = ?", ownerID).First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

// FindByIDAndOwner is the ownership predicate every privileged mutation
// resolves through.
func (r *RestaurantRepository) FindByIDAndOwner(id, ownerID string) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.DB.Where("id = ? AND user_id = ?", id, ownerID).First(&rest).Error
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) CountByOwner(ownerID string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Restaurant{}).Where("user_id = ?", ownerID).Count(&count).Error
	return count, err
}

// CreateWithOwnerRole persists the restaurant and promotes its owner to the
// restaurant role in a single transaction.
func (r *RestaurantRepository) CreateWithOwnerRole(rest *models.Restaurant) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rest).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", rest.UserID).
			Update("role", models.RoleRestaurant).Error
	})
}

func (r *RestaurantRepository) Updates(id string, fields map[string]interface{}) error {
	return r.DB.Model(&models.Restaurant{}).Where("id = ?", id).Updates(fields).Error
}

// TransitionStatus performs a compare-and-set on the approval status so a
// lifecycle write observes exactly the state it was decided against.
// Returns false when the row no longer holds the expected status.
func (r *RestaurantRepository) TransitionStatus(id string, from, to models.RestaurantStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.DB.Model(&models.Restaurant{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetWorkingStatus writes the operational sub-state conditionally on the
// restaurant still being approved, so a concurrent suspension wins.
func (r *RestaurantRepository) SetWorkingStatus(id string, ws models.WorkingStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"working_status": ws}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.DB.Model(&models.Restaurant{}).
		Where("id = ? AND status = ?", id, models.StatusApproved).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// List returns approved restaurants only; pending, rejected and suspended
// entries never reach public listings.
func (r *RestaurantRepository) List(country string, ws models.WorkingStatus, skip, take int) ([]models.Restaurant, int64, error) {
	query := r.DB.Model(&models.Restaurant{}).Where("status = ?", models.StatusApproved)
	if country != "" {
		query = query.Where("country = ?", country)
	}
	if ws != "" {
		query = query.Where("working_status = ?", ws)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rests []models.Restaurant
	err := query.Order("rating DESC").Offset(skip).Limit(take).Find(&rests).Error
	return rests, total, err
}

// ListPending is the admin review queue, oldest first.
func (r *RestaurantRepository) ListPending(skip, take int) ([]models.Restaurant, int64, error) {
	query := r.DB.Model(&models.Restaurant{}).Where("status = ?", models.StatusPendingApproval)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rests []models.Restaurant
	err := query.Order("created_at ASC").Offset(skip).Limit(take).Find(&rests).Error
	return rests, total, err
}

// DeleteCascade removes the restaurant and its menu items as one explicit
// multi-step operation inside a single transaction.
func (r *RestaurantRepository) DeleteCascade(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Restaurant{}).Error
	})
}
