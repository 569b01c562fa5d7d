package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"aboutwebsite-backend/internal/config"
	"aboutwebsite-backend/internal/document"
	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/repository"
	"aboutwebsite-backend/pkg/cache"
	"aboutwebsite-backend/pkg/logger"
	"aboutwebsite-backend/pkg/validator"
)

var (
	ErrWebsiteNotFound = errors.New("website not found")
	ErrNotOwner        = errors.New("website does not belong to this user")
	ErrSubdomainTaken  = errors.New("subdomain is already taken")
	ErrBadSubdomain    = errors.New("invalid subdomain")

	// ErrSubscribeRequired is surfaced verbatim so the editor can route the
	// user to the pricing page.
	ErrSubscribeRequired = errors.New("subscribe")
)

type WebsiteService struct {
	websiteRepo repository.WebsiteRepository
	userRepo    repository.UserRepository
	cache       *cache.Cache
	cfg         *config.Config

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewWebsiteService(
	websiteRepo repository.WebsiteRepository,
	userRepo repository.UserRepository,
	cache *cache.Cache,
	cfg *config.Config,
) *WebsiteService {
	return &WebsiteService{
		websiteRepo: websiteRepo,
		userRepo:    userRepo,
		cache:       cache,
		cfg:         cfg,
		locks:       make(map[uint]*sync.Mutex),
	}
}

// lockFor serializes mutations per website. Operations on different websites
// never block each other.
func (s *WebsiteService) lockFor(websiteID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[websiteID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[websiteID] = l
	}
	return l
}

func (s *WebsiteService) Create(userID uint, req models.CreateWebsiteRequest) (*models.Website, error) {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if !validator.ValidateSubdomain(subdomain) {
		return nil, ErrBadSubdomain
	}

	taken, err := s.websiteRepo.ExistsBySubdomain(subdomain)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSubdomainTaken
	}

	doc := document.DefaultDocument(req.Name, req.Tagline)

	website := &models.Website{
		UserID:    userID,
		Name:      req.Name,
		Subdomain: subdomain,
		SSLStatus: models.SSLStatusNone,
		Data:      models.WebsiteData(*doc),
	}

	if err := s.websiteRepo.Create(website); err != nil {
		return nil, err
	}

	_ = s.cache.InvalidateUserWebsites(userID)

	logger.Info("Website created", map[string]interface{}{
		"website_id": website.ID,
		"user_id":    userID,
		"subdomain":  subdomain,
	})

	return website, nil
}

func (s *WebsiteService) GetAll(userID uint) ([]models.Website, error) {
	var cached []models.Website
	if err := s.cache.GetCachedUserWebsites(userID, &cached); err == nil {
		return cached, nil
	}

	websites, err := s.websiteRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	_ = s.cache.CacheUserWebsites(userID, websites)
	return websites, nil
}

// GetOwned loads a website and checks ownership in one place; every mutating
// path goes through it.
func (s *WebsiteService) GetOwned(websiteID, userID uint) (*models.Website, error) {
	website, err := s.websiteRepo.GetByID(websiteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWebsiteNotFound
		}
		return nil, err
	}
	if website.UserID != userID {
		return nil, ErrNotOwner
	}
	return website, nil
}

func (s *WebsiteService) Update(websiteID, userID uint, req models.UpdateWebsiteRequest) (*models.Website, error) {
	lock := s.lockFor(websiteID)
	lock.Lock()
	defer lock.Unlock()

	website, err := s.GetOwned(websiteID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		website.Name = strings.TrimSpace(*req.Name)
	}
	if req.Data != nil {
		doc := req.Data.Document()
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		website.Data = *req.Data
	}

	if err := s.websiteRepo.Update(website); err != nil {
		return nil, err
	}

	s.invalidate(website)
	return website, nil
}

func (s *WebsiteService) Delete(websiteID, userID uint) error {
	lock := s.lockFor(websiteID)
	lock.Lock()
	defer lock.Unlock()

	website, err := s.GetOwned(websiteID, userID)
	if err != nil {
		return err
	}

	if err := s.websiteRepo.Delete(website.ID); err != nil {
		return err
	}

	s.invalidate(website)

	s.mu.Lock()
	delete(s.locks, websiteID)
	s.mu.Unlock()

	logger.Info("Website deleted", map[string]interface{}{
		"website_id": websiteID,
		"user_id":    userID,
	})
	return nil
}

// Publish flips the website live. The first subdomain site publishes for
// free; custom domains and any site beyond the first published one require a
// subscription. A gated publish returns ErrSubscribeRequired and changes no
// state.
func (s *WebsiteService) Publish(websiteID, userID uint) (*models.Website, error) {
	lock := s.lockFor(websiteID)
	lock.Lock()
	defer lock.Unlock()

	website, err := s.GetOwned(websiteID, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.Subscribed {
		needed, err := s.publishNeedsSubscription(website)
		if err != nil {
			return nil, err
		}
		if needed {
			return nil, ErrSubscribeRequired
		}
	}

	now := time.Now().UTC()
	website.IsPublished = true
	website.PublishedAt = &now
	website.PublishedURL = s.publishedURL(website)

	if err := s.websiteRepo.Update(website); err != nil {
		return nil, err
	}

	s.invalidate(website)

	logger.Info("Website published", map[string]interface{}{
		"website_id": website.ID,
		"url":        website.PublishedURL,
	})
	return website, nil
}

// publishNeedsSubscription reports whether publishing this website is a paid
// action. Republishing an already-published site does not count against the
// free slot it occupies.
func (s *WebsiteService) publishNeedsSubscription(website *models.Website) (bool, error) {
	if website.CustomDomain != "" {
		return true, nil
	}

	published, err := s.websiteRepo.CountPublishedByUser(website.UserID)
	if err != nil {
		return false, err
	}
	if website.IsPublished && published > 0 {
		published--
	}
	return published >= 1, nil
}

func (s *WebsiteService) Unpublish(websiteID, userID uint) (*models.Website, error) {
	lock := s.lockFor(websiteID)
	lock.Lock()
	defer lock.Unlock()

	website, err := s.GetOwned(websiteID, userID)
	if err != nil {
		return nil, err
	}

	website.IsPublished = false
	website.PublishedURL = ""
	website.PublishedAt = nil

	if err := s.websiteRepo.Update(website); err != nil {
		return nil, err
	}

	s.invalidate(website)
	return website, nil
}

// GetPublishedByHost serves the public render path: a custom domain arrives
// as-is, a subdomain arrives as "<label>.<base domain>".
func (s *WebsiteService) GetPublishedByHost(host string) (*models.Website, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}

	var cached models.Website
	if err := s.cache.GetCachedPublishedSite(host, &cached); err == nil {
		return &cached, nil
	}

	lookup := host
	if suffix := "." + s.cfg.BaseDomain; strings.HasSuffix(host, suffix) {
		lookup = strings.TrimSuffix(host, suffix)
	}

	website, err := s.websiteRepo.GetPublishedByHost(lookup)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWebsiteNotFound
		}
		return nil, err
	}

	_ = s.cache.CachePublishedSite(host, website)
	return website, nil
}

func (s *WebsiteService) publishedURL(website *models.Website) string {
	if website.CustomDomain != "" && website.DNSConfigured {
		return fmt.Sprintf("https://%s", website.CustomDomain)
	}
	return fmt.Sprintf("https://%s.%s", website.Subdomain, s.cfg.BaseDomain)
}

func (s *WebsiteService) invalidate(website *models.Website) {
	_ = s.cache.InvalidateWebsite(website.ID)
	_ = s.cache.InvalidateUserWebsites(website.UserID)
}
