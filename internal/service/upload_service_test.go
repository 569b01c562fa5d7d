package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/gorm"

	"aboutwebsite-backend/internal/models"
)

type fakeImageRepo struct {
	mu     sync.Mutex
	nextID uint
	images map[uint]*models.UserImage
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[uint]*models.UserImage)}
}

func (r *fakeImageRepo) Create(image *models.UserImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	image.ID = r.nextID
	copied := *image
	r.images[image.ID] = &copied
	return nil
}

func (r *fakeImageRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, id)
	return nil
}

func (r *fakeImageRepo) GetByID(id uint) (*models.UserImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	image, ok := r.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *image
	return &copied, nil
}

func (r *fakeImageRepo) GetByUser(userID uint) ([]models.UserImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.UserImage
	for _, image := range r.images {
		if image.UserID == userID {
			out = append(out, *image)
		}
	}
	return out, nil
}

func (r *fakeImageRepo) CountByUser(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, image := range r.images {
		if image.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeImageRepo) GetByURL(userID uint, url string) (*models.UserImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, image := range r.images {
		if image.UserID == userID && image.URL == url {
			copied := *image
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestUploadService(t *testing.T) (*UploadService, *fakeImageRepo, *fakeUserRepo, string) {
	t.Helper()
	uploadDir := t.TempDir()
	imageRepo := newFakeImageRepo()
	userRepo := newFakeUserRepo()
	svc := NewUploadService(imageRepo, userRepo, uploadDir, 1<<20, 3)
	return svc, imageRepo, userRepo, uploadDir
}

func createImageFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write file content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(int64(body.Len())); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}

	files := req.MultipartForm.File["image"]
	if len(files) == 0 {
		t.Fatalf("expected multipart file to be available")
	}
	return files[0]
}

func TestUploadImageSuccess(t *testing.T) {
	svc, _, userRepo, uploadDir := newTestUploadService(t)
	user := seedUser(t, userRepo, false)

	file := createImageFile(t, "My Photo.PNG", []byte("png-bytes"))

	image, err := svc.UploadImage(user.ID, file)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if image.URL != "/uploads/my-photo.png" {
		t.Fatalf("unexpected url: %s", image.URL)
	}
	if !image.IsServerImage {
		t.Fatalf("expected server image flag")
	}
	if _, err := os.Stat(filepath.Join(uploadDir, "my-photo.png")); err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
}

func TestUploadImageCollisionGetsSuffix(t *testing.T) {
	svc, _, userRepo, _ := newTestUploadService(t)
	user := seedUser(t, userRepo, false)

	first, err := svc.UploadImage(user.ID, createImageFile(t, "logo.png", []byte("a")))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := svc.UploadImage(user.ID, createImageFile(t, "logo.png", []byte("b")))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if first.URL != "/uploads/logo.png" {
		t.Fatalf("unexpected first url: %s", first.URL)
	}
	if second.URL != "/uploads/logo-2.png" {
		t.Fatalf("unexpected second url: %s", second.URL)
	}
}

func TestUploadImageRejectsDisallowedType(t *testing.T) {
	svc, _, userRepo, _ := newTestUploadService(t)
	user := seedUser(t, userRepo, false)

	if _, err := svc.UploadImage(user.ID, createImageFile(t, "notes.txt", []byte("text"))); !errors.Is(err, ErrFileTypeNotAllow) {
		t.Fatalf("expected ErrFileTypeNotAllow, got %v", err)
	}
}

func TestUploadImageEnforcesLimit(t *testing.T) {
	svc, _, userRepo, _ := newTestUploadService(t)
	user := seedUser(t, userRepo, false)

	for i := 0; i < 3; i++ {
		name := string(rune('a'+i)) + ".png"
		if _, err := svc.UploadImage(user.ID, createImageFile(t, name, []byte("x"))); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}

	if _, err := svc.UploadImage(user.ID, createImageFile(t, "d.png", []byte("x"))); !errors.Is(err, ErrImageLimit) {
		t.Fatalf("expected ErrImageLimit, got %v", err)
	}
}

func TestUploadImageUsesUserLimitOverride(t *testing.T) {
	svc, _, userRepo, _ := newTestUploadService(t)
	user := seedUser(t, userRepo, false)
	user.ImageLimit = 1
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("update user: %v", err)
	}

	if _, err := svc.UploadImage(user.ID, createImageFile(t, "one.png", []byte("x"))); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if _, err := svc.UploadImage(user.ID, createImageFile(t, "two.png", []byte("x"))); !errors.Is(err, ErrImageLimit) {
		t.Fatalf("expected ErrImageLimit, got %v", err)
	}
}

func TestDeleteImageRemovesFile(t *testing.T) {
	svc, _, userRepo, uploadDir := newTestUploadService(t)
	user := seedUser(t, userRepo, false)

	image, err := svc.UploadImage(user.ID, createImageFile(t, "gone.png", []byte("x")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.DeleteImage(user.ID, image.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(uploadDir, "gone.png")); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, got %v", err)
	}
}

func TestDeleteImageRefusesOtherOwner(t *testing.T) {
	svc, _, userRepo, _ := newTestUploadService(t)
	owner := seedUser(t, userRepo, false)

	image, err := svc.UploadImage(owner.ID, createImageFile(t, "mine.png", []byte("x")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.DeleteImage(owner.ID+1, image.ID); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}
