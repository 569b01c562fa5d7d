package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/repository"
	"aboutwebsite-backend/pkg/logger"
	"aboutwebsite-backend/pkg/utils"
	"aboutwebsite-backend/pkg/validator"
)

var (
	ErrFileTooLarge     = errors.New("file size exceeds maximum allowed size")
	ErrFileTypeNotAllow = errors.New("file type not allowed")
	ErrImageLimit       = errors.New("image limit reached")
	ErrImageNotFound    = errors.New("image not found")
)

type UploadService struct {
	imageRepo    repository.UserImageRepository
	userRepo     repository.UserRepository
	uploadDir    string
	maxSize      int64
	defaultLimit int
	allowedTypes []string
}

func NewUploadService(
	imageRepo repository.UserImageRepository,
	userRepo repository.UserRepository,
	uploadDir string,
	maxSize int64,
	defaultLimit int,
) *UploadService {
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		os.MkdirAll(uploadDir, 0755)
	}

	return &UploadService{
		imageRepo:    imageRepo,
		userRepo:     userRepo,
		uploadDir:    uploadDir,
		maxSize:      maxSize,
		defaultLimit: defaultLimit,
		allowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico"},
	}
}

// UploadImage saves the file under a slugged, collision-free name and records
// it against the user's gallery. The returned record carries the url and file
// metadata the editor stores in image fields.
func (s *UploadService) UploadImage(userID uint, file *multipart.FileHeader) (*models.UserImage, error) {
	if file.Size <= 0 || file.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !s.isAllowedType(ext) {
		return nil, ErrFileTypeNotAllow
	}

	limit := s.EffectiveLimit(userID)

	count, err := s.imageRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	if count >= int64(limit) {
		return nil, ErrImageLimit
	}

	filename := s.generateFilename(file.Filename, ext)
	filePath := filepath.Join(s.uploadDir, filename)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(filePath)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	image := &models.UserImage{
		UserID:        userID,
		URL:           "/uploads/" + filename,
		IsServerImage: true,
		FileName:      validator.SanitizeFilename(file.Filename),
		FileSize:      file.Size,
		FileType:      file.Header.Get("Content-Type"),
	}

	if err := s.imageRepo.Create(image); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	logger.Info("Image uploaded", map[string]interface{}{
		"user_id": userID,
		"url":     image.URL,
		"size":    image.FileSize,
	})
	return image, nil
}

func (s *UploadService) GetUserImages(userID uint) ([]models.UserImage, error) {
	return s.imageRepo.GetByUser(userID)
}

// EffectiveLimit is the image quota that applies to the user: a per-user
// override when one is set, the plan default otherwise. The editor renders
// quota state from this number.
func (s *UploadService) EffectiveLimit(userID uint) int {
	if user, err := s.userRepo.GetByID(userID); err == nil && user.ImageLimit > 0 {
		return user.ImageLimit
	}
	return s.defaultLimit
}

// DeleteImage removes the record and, for server-hosted files, the file on
// disk. Only the owner can delete an image.
func (s *UploadService) DeleteImage(userID, imageID uint) error {
	image, err := s.imageRepo.GetByID(imageID)
	if err != nil {
		return ErrImageNotFound
	}
	if image.UserID != userID {
		return ErrImageNotFound
	}

	if err := s.imageRepo.Delete(image.ID); err != nil {
		return err
	}

	if image.IsServerImage && strings.HasPrefix(image.URL, "/uploads/") {
		filePath := filepath.Join(s.uploadDir, strings.TrimPrefix(image.URL, "/uploads/"))
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			logger.Error(err, "Failed to remove image file", map[string]interface{}{
				"path": filePath,
			})
		}
	}
	return nil
}

func (s *UploadService) isAllowedType(ext string) bool {
	for _, allowed := range s.allowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s *UploadService) generateFilename(original, ext string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	slug := utils.GenerateSlug(base)
	if slug == "" {
		slug = "image"
	}

	filename := slug + ext
	for i := 2; s.fileExists(filename); i++ {
		filename = fmt.Sprintf("%s-%d%s", slug, i, ext)
		if i > 100 {
			filename = uuid.New().String() + ext
			break
		}
	}
	return filename
}

func (s *UploadService) fileExists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.uploadDir, filename))
	return err == nil
}
