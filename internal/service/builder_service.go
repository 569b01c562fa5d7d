package service

import (
	"errors"
	"time"

	"aboutwebsite-backend/internal/document"
	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/repository"
	"aboutwebsite-backend/pkg/logger"
)

var ErrUnknownSectionType = errors.New("unknown section type")

// BuilderService applies editor operations to a website's section document.
// Every mutation runs under the website's lock, against a fresh load, and is
// persisted atomically, so concurrent editor tabs cannot interleave partial
// states.
type BuilderService struct {
	websites    *WebsiteService
	websiteRepo repository.WebsiteRepository
}

func NewBuilderService(websites *WebsiteService, websiteRepo repository.WebsiteRepository) *BuilderService {
	return &BuilderService{
		websites:    websites,
		websiteRepo: websiteRepo,
	}
}

func (s *BuilderService) withDocument(websiteID, userID uint, fn func(doc *document.Document) error) (*models.Website, error) {
	lock := s.websites.lockFor(websiteID)
	lock.Lock()
	defer lock.Unlock()

	website, err := s.websites.GetOwned(websiteID, userID)
	if err != nil {
		return nil, err
	}

	doc := website.Data.Document()
	if err := fn(doc); err != nil {
		return nil, err
	}

	website.Data = models.WebsiteData(*doc)
	if err := s.websiteRepo.Update(website); err != nil {
		return nil, err
	}

	s.websites.invalidate(website)
	return website, nil
}

// UpdateField is the universal update path: an empty field replaces the whole
// entry at the section key, a non-empty field merges one value into it.
func (s *BuilderService) UpdateField(websiteID, userID uint, req models.FieldUpdateRequest) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.Set(req.SectionKey, req.Field, req.Value)
	})
}

// AddSection appends a new section. Canonical type names get their next free
// key and default content; "custom", "code" and "ai" get timestamped keys.
func (s *BuilderService) AddSection(websiteID, userID uint, sectionType string) (*models.Website, string, error) {
	var key string
	website, err := s.withDocument(websiteID, userID, func(doc *document.Document) error {
		var data document.SectionData

		switch sectionType {
		case "custom":
			key = document.NewCustomKey(time.Now())
			data = document.CustomSectionDefaults()
		case "code":
			key = document.NewCodeKey(time.Now())
			data = document.CodeSectionDefaults()
		case "ai":
			key = document.NewAIKey(time.Now())
			data = document.AISectionDefaults()
		default:
			if !document.IsCanonicalType(sectionType) {
				return ErrUnknownSectionType
			}
			key = doc.NextKey(sectionType)
			data = document.DefaultsFor(sectionType)
		}

		return doc.AddSection(key, data)
	})
	if err != nil {
		return nil, "", err
	}

	logger.Info("Section added", map[string]interface{}{
		"website_id": websiteID,
		"key":        key,
		"type":       sectionType,
	})
	return website, key, nil
}

func (s *BuilderService) RemoveSection(websiteID, userID uint, key string, confirmed bool) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.RemoveSection(key, confirmed)
	})
}

func (s *BuilderService) MoveSection(websiteID, userID uint, key, direction string) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		if direction == "up" {
			doc.MoveUp(key)
		} else {
			doc.MoveDown(key)
		}
		return nil
	})
}

func (s *BuilderService) ReorderSections(websiteID, userID uint, draggedKey, targetKey string) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		doc.Reorder(draggedKey, targetKey)
		return nil
	})
}

// DuplicateSection copies a section under the next free key of its base name
// and appends it to the order.
func (s *BuilderService) DuplicateSection(websiteID, userID uint, key string) (*models.Website, string, error) {
	var newKey string
	website, err := s.withDocument(websiteID, userID, func(doc *document.Document) error {
		var err error
		newKey, err = doc.Duplicate(key)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return website, newKey, nil
}

func (s *BuilderService) SetCustomTemplate(websiteID, userID uint, key string, template int) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.SetCustomTemplate(key, template)
	})
}

func (s *BuilderService) SelectImage(websiteID, userID uint, req models.SelectImageRequest) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.SelectImage(req.SectionKey, req.Field, req.Image)
	})
}

func (s *BuilderService) RemoveImage(websiteID, userID uint, sectionKey, field string) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.RemoveImage(sectionKey, field)
	})
}

// BeginImageUpload marks a field as loading before the file hits storage.
// While the marker is set a second upload to the same field is rejected.
func (s *BuilderService) BeginImageUpload(websiteID, userID uint, sectionKey, field string, meta document.FileMeta) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.StartImageUpload(sectionKey, field, meta)
	})
}

func (s *BuilderService) CompleteImageUpload(websiteID, userID uint, sectionKey, field string, image map[string]interface{}) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.ResolveImageUpload(sectionKey, field, image)
	})
}

func (s *BuilderService) AbortImageUpload(websiteID, userID uint, sectionKey, field string) (*models.Website, error) {
	return s.withDocument(websiteID, userID, func(doc *document.Document) error {
		return doc.FailImageUpload(sectionKey, field)
	})
}

// ExpireStaleUploads clears loading markers older than maxAge across all
// websites. Run periodically so an editor that crashed mid-upload does not
// leave its image fields stuck. Returns the number of fields cleared.
func (s *BuilderService) ExpireStaleUploads(maxAge time.Duration) (int, error) {
	websites, err := s.websiteRepo.GetWithLoadingImages()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	total := 0
	for i := range websites {
		website := &websites[i]

		lock := s.websites.lockFor(website.ID)
		lock.Lock()

		fresh, err := s.websiteRepo.GetByID(website.ID)
		if err != nil {
			lock.Unlock()
			continue
		}

		doc := fresh.Data.Document()
		expired := doc.ExpireImageUploads(cutoff)
		if expired == 0 {
			lock.Unlock()
			continue
		}

		fresh.Data = models.WebsiteData(*doc)
		if err := s.websiteRepo.Update(fresh); err != nil {
			lock.Unlock()
			return total, err
		}
		s.websites.invalidate(fresh)
		lock.Unlock()

		total += expired
	}

	if total > 0 {
		logger.Info("Expired stale image uploads", map[string]interface{}{
			"fields": total,
		})
	}
	return total, nil
}
