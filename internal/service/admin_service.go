package service

import (
	"errors"

	"gorm.io/gorm"

	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/repository"
	"aboutwebsite-backend/pkg/logger"
)

var ErrUserNotFound = errors.New("user not found")

// AdminService backs the support surface. Payments live outside this system,
// so the subscription flag is flipped here after a support or billing event.
type AdminService struct {
	userRepo    repository.UserRepository
	websiteRepo repository.WebsiteRepository
}

func NewAdminService(userRepo repository.UserRepository, websiteRepo repository.WebsiteRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		websiteRepo: websiteRepo,
	}
}

func (s *AdminService) ListUsers() ([]models.User, error) {
	return s.userRepo.List()
}

func (s *AdminService) ListWebsites() ([]models.Website, error) {
	return s.websiteRepo.List()
}

// SetSubscription flips a user's subscription flag.
func (s *AdminService) SetSubscription(userID uint, subscribed bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Subscribed = subscribed
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Subscription updated", map[string]interface{}{
		"user_id":    user.ID,
		"subscribed": subscribed,
	})
	return user, nil
}
