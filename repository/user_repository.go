package repository

import (
	"gorm.io/gorm"

	"khao-backend/models"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// FindByPhone looks an account up by its (country_code, phone_number) pair.
func (r *UserRepository) FindByPhone(countryCode, phoneNumber string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("country_code = ? AND phone_number = ?", countryCode, phoneNumber).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(user *models.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Save(user *models.User) error {
	return r.DB.Save(user).Error
}
