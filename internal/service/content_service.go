package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"aboutwebsite-backend/internal/document"
	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/repository"
	"aboutwebsite-backend/pkg/logger"
	"aboutwebsite-backend/pkg/validator"
)

var ErrGenerationUnavailable = errors.New("content generation is not configured")

type GeneratedWebsite struct {
	BusinessName string                            `json:"businessName"`
	Tagline      string                            `json:"tagline"`
	Sections     map[string]map[string]interface{} `json:"sections"`
}

type GeneratedSection struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// ContentGenerator produces website copy from a free-form business
// description.
type ContentGenerator interface {
	GenerateWebsite(ctx context.Context, description string) (*GeneratedWebsite, error)
	GenerateSection(ctx context.Context, description, title string) (*GeneratedSection, error)
}

type ContentService struct {
	websites    *WebsiteService
	websiteRepo repository.WebsiteRepository
	generator   ContentGenerator
}

func NewContentService(websites *WebsiteService, websiteRepo repository.WebsiteRepository, generator ContentGenerator) *ContentService {
	return &ContentService{
		websites:    websites,
		websiteRepo: websiteRepo,
		generator:   generator,
	}
}

// GenerateWebsite replaces the website's document with a freshly generated
// one. The previous document is gone afterwards, so the editor asks for
// confirmation before calling this.
func (s *ContentService) GenerateWebsite(ctx context.Context, websiteID, userID uint, description string) (*models.Website, error) {
	if s.generator == nil {
		return nil, ErrGenerationUnavailable
	}

	generated, err := s.generator.GenerateWebsite(ctx, description)
	if err != nil {
		return nil, err
	}

	lock := s.websites.lockFor(websiteID)
	lock.Lock()
	defer lock.Unlock()

	website, err := s.websites.GetOwned(websiteID, userID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(generated.BusinessName)
	if name == "" {
		name = website.Name
	}

	doc := document.DefaultDocument(name, validator.SanitizeString(generated.Tagline))

	for sectionType, fields := range generated.Sections {
		if !document.IsCanonicalType(sectionType) {
			continue
		}

		key := sectionType
		if _, ok := doc.Section(key); !ok {
			key = doc.NextKey(sectionType)
			if err := doc.AddSection(key, document.DefaultsFor(sectionType)); err != nil {
				continue
			}
		}

		for field, value := range fields {
			if text, ok := value.(string); ok {
				value = validator.SanitizeString(text)
			}
			if err := doc.Set(key, field, value); err != nil {
				logger.Warn("Skipping generated field", map[string]interface{}{
					"section": key,
					"field":   field,
				})
			}
		}
	}

	website.Data = models.WebsiteData(*doc)
	if err := s.websiteRepo.Update(website); err != nil {
		return nil, err
	}

	s.websites.invalidate(website)

	logger.Info("Website content generated", map[string]interface{}{
		"website_id": website.ID,
		"sections":   len(generated.Sections),
	})
	return website, nil
}

// GenerateSection adds a new AI section with generated, sanitized markup.
func (s *ContentService) GenerateSection(ctx context.Context, websiteID, userID uint, req models.GenerateSectionRequest) (*models.Website, string, error) {
	if s.generator == nil {
		return nil, "", ErrGenerationUnavailable
	}

	generated, err := s.generator.GenerateSection(ctx, req.Description, req.SectionTitle)
	if err != nil {
		return nil, "", err
	}

	lock := s.websites.lockFor(websiteID)
	lock.Lock()
	defer lock.Unlock()

	website, err := s.websites.GetOwned(websiteID, userID)
	if err != nil {
		return nil, "", err
	}

	doc := website.Data.Document()

	key := document.NewAIKey(time.Now())
	data := document.AISectionDefaults()
	data["title"] = validator.SanitizeString(generated.Title)
	data["description"] = req.Description
	data["code"] = validator.SanitizeHTML(generated.HTML)

	if err := doc.AddSection(key, data); err != nil {
		return nil, "", err
	}

	website.Data = models.WebsiteData(*doc)
	if err := s.websiteRepo.Update(website); err != nil {
		return nil, "", err
	}

	s.websites.invalidate(website)
	return website, key, nil
}
