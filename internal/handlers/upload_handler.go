package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aboutwebsite-backend/internal/document"
	"aboutwebsite-backend/internal/service"
)

type UploadHandler struct {
	uploadService  *service.UploadService
	builderService *service.BuilderService
}

func NewUploadHandler(uploadService *service.UploadService, builderService *service.BuilderService) *UploadHandler {
	return &UploadHandler{
		uploadService:  uploadService,
		builderService: builderService,
	}
}

// UploadImage stores an image in the user's gallery. When website_id,
// section_key and field accompany the file, the image is also written into
// that field: loading marker first, then the resolved value, reverting on
// failure.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	websiteID64, _ := strconv.ParseUint(c.PostForm("website_id"), 10, 32)
	sectionKey := c.PostForm("section_key")
	field := c.PostForm("field")
	targeted := websiteID64 > 0 && sectionKey != "" && field != ""
	websiteID := uint(websiteID64)

	if targeted {
		meta := document.FileMeta{
			FileName: file.Filename,
			FileSize: file.Size,
			FileType: file.Header.Get("Content-Type"),
		}
		if _, err := h.builderService.BeginImageUpload(websiteID, userID, sectionKey, field, meta); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	image, err := h.uploadService.UploadImage(userID, file)
	if err != nil {
		if targeted {
			_, _ = h.builderService.AbortImageUpload(websiteID, userID, sectionKey, field)
		}
		respondServiceError(c, err)
		return
	}

	if targeted {
		resolved := map[string]interface{}{
			"url":           image.URL,
			"isServerImage": image.IsServerImage,
			"fileName":      image.FileName,
			"fileSize":      image.FileSize,
			"fileType":      image.FileType,
		}
		if _, err := h.builderService.CompleteImageUpload(websiteID, userID, sectionKey, field, resolved); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, image)
}

func (h *UploadHandler) GetUserImages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	images, err := h.uploadService.GetUserImages(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"limit":  h.uploadService.EffectiveLimit(userID),
	})
}

func (h *UploadHandler) DeleteImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uploadService.DeleteImage(userID, imageID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
