package repository

import (
	"aboutwebsite-backend/internal/models"

	"gorm.io/gorm"
)

type WebsiteRepository interface {
	Create(website *models.Website) error
	Update(website *models.Website) error
	Delete(id uint) error
	GetByID(id uint) (*models.Website, error)
	GetByUser(userID uint) ([]models.Website, error)
	GetBySubdomain(subdomain string) (*models.Website, error)
	GetByCustomDomain(domain string) (*models.Website, error)
	GetPublishedByHost(host string) (*models.Website, error)
	ExistsBySubdomain(subdomain string) (bool, error)
	ExistsByCustomDomain(domain string) (bool, error)
	GetPendingSSL() ([]models.Website, error)
	GetWithLoadingImages() ([]models.Website, error)
	CountByUser(userID uint) (int64, error)
	CountPublishedByUser(userID uint) (int64, error)
	List() ([]models.Website, error)
}

type websiteRepository struct {
	db *gorm.DB
}

func NewWebsiteRepository(db *gorm.DB) WebsiteRepository {
	return &websiteRepository{db: db}
}

func (r *websiteRepository) Create(website *models.Website) error {
	return r.db.Create(website).Error
}

func (r *websiteRepository) Update(website *models.Website) error {
	return r.db.Save(website).Error
}

func (r *websiteRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Website{}, id).Error
}

func (r *websiteRepository) GetByID(id uint) (*models.Website, error) {
	var website models.Website
	if err := r.db.First(&website, id).Error; err != nil {
		return nil, err
	}
	return &website, nil
}

func (r *websiteRepository) GetByUser(userID uint) ([]models.Website, error) {
	var websites []models.Website
	if err := r.db.Where("user_id = ?", userID).
		Order("websites.created_at DESC").
		Find(&websites).Error; err != nil {
		return nil, err
	}
	return websites, nil
}

func (r *websiteRepository) GetBySubdomain(subdomain string) (*models.Website, error) {
	var website models.Website
	if err := r.db.Where("subdomain = ?", subdomain).First(&website).Error; err != nil {
		return nil, err
	}
	return &website, nil
}

func (r *websiteRepository) GetByCustomDomain(domain string) (*models.Website, error) {
	var website models.Website
	if err := r.db.Where("custom_domain = ?", domain).First(&website).Error; err != nil {
		return nil, err
	}
	return &website, nil
}

// GetPublishedByHost resolves an incoming Host header: either a custom domain
// or the subdomain label in front of the base domain. The caller strips the
// base domain before passing a subdomain here.
func (r *websiteRepository) GetPublishedByHost(host string) (*models.Website, error) {
	var website models.Website
	if err := r.db.Where("is_published = ?", true).
		Where("custom_domain = ? OR subdomain = ?", host, host).
		First(&website).Error; err != nil {
		return nil, err
	}
	return &website, nil
}

func (r *websiteRepository) ExistsBySubdomain(subdomain string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Website{}).Where("subdomain = ?", subdomain).Count(&count).Error
	return count > 0, err
}

func (r *websiteRepository) ExistsByCustomDomain(domain string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Website{}).Where("custom_domain = ?", domain).Count(&count).Error
	return count > 0, err
}

func (r *websiteRepository) GetPendingSSL() ([]models.Website, error) {
	var websites []models.Website
	if err := r.db.Where("ssl_status = ?", models.SSLStatusPending).Find(&websites).Error; err != nil {
		return nil, err
	}
	return websites, nil
}

// GetWithLoadingImages finds documents that still carry an in-flight image
// marker. A text scan over the jsonb column is enough here: the marker key is
// written by us and only ever appears inside image fields.
func (r *websiteRepository) GetWithLoadingImages() ([]models.Website, error) {
	var websites []models.Website
	if err := r.db.Where("data::text LIKE ?", `%"loading":true%`).Find(&websites).Error; err != nil {
		return nil, err
	}
	return websites, nil
}

func (r *websiteRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Website{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *websiteRepository) List() ([]models.Website, error) {
	var websites []models.Website
	if err := r.db.Order("websites.created_at DESC").Find(&websites).Error; err != nil {
		return nil, err
	}
	return websites, nil
}

func (r *websiteRepository) CountPublishedByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Website{}).
		Where("user_id = ? AND is_published = ?", userID, true).
		Count(&count).Error
	return count, err
}
