package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/service"
)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// GenerateWebsite rebuilds the whole document from a business description.
// Destructive: the editor confirms with the user before calling it.
func (h *ContentHandler) GenerateWebsite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.GenerateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.contentService.GenerateWebsite(c.Request.Context(), websiteID, userID, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *ContentHandler) GenerateSection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.GenerateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, key, err := h.contentService.GenerateSection(c.Request.Context(), websiteID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "website": website})
}
