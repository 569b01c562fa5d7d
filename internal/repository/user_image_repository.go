package repository

import (
	"aboutwebsite-backend/internal/models"

	"gorm.io/gorm"
)

type UserImageRepository interface {
	Create(image *models.UserImage) error
	Delete(id uint) error
	GetByID(id uint) (*models.UserImage, error)
	GetByUser(userID uint) ([]models.UserImage, error)
	CountByUser(userID uint) (int64, error)
	GetByURL(userID uint, url string) (*models.UserImage, error)
}

type userImageRepository struct {
	db *gorm.DB
}

func NewUserImageRepository(db *gorm.DB) UserImageRepository {
	return &userImageRepository{db: db}
}

func (r *userImageRepository) Create(image *models.UserImage) error {
	return r.db.Create(image).Error
}

func (r *userImageRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.UserImage{}, id).Error
}

func (r *userImageRepository) GetByID(id uint) (*models.UserImage, error) {
	var image models.UserImage
	if err := r.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *userImageRepository) GetByUser(userID uint) ([]models.UserImage, error) {
	var images []models.UserImage
	if err := r.db.Where("user_id = ?", userID).
		Order("user_images.created_at DESC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *userImageRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserImage{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *userImageRepository) GetByURL(userID uint, url string) (*models.UserImage, error) {
	var image models.UserImage
	if err := r.db.Where("user_id = ? AND url = ?", userID, url).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}
