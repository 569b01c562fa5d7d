package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/service"
)

type WebsiteHandler struct {
	websiteService *service.WebsiteService
}

func NewWebsiteHandler(websiteService *service.WebsiteService) *WebsiteHandler {
	return &WebsiteHandler{websiteService: websiteService}
}

func (h *WebsiteHandler) GetWebsites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	websites, err := h.websiteService.GetAll(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"websites": websites})
}

func (h *WebsiteHandler) GetWebsite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	website, err := h.websiteService.GetOwned(websiteID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *WebsiteHandler) CreateWebsite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.websiteService.Create(userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, website)
}

func (h *WebsiteHandler) UpdateWebsite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.websiteService.Update(websiteID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *WebsiteHandler) DeleteWebsite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.websiteService.Delete(websiteID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "website deleted"})
}

func (h *WebsiteHandler) PublishWebsite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	website, err := h.websiteService.Publish(websiteID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *WebsiteHandler) UnpublishWebsite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	website, err := h.websiteService.Unpublish(websiteID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

// GetPublishedSite is the public render endpoint: it resolves the request's
// Host header to a published website and returns its document.
func (h *WebsiteHandler) GetPublishedSite(c *gin.Context) {
	host := c.Query("host")
	if host == "" {
		host = c.Request.Host
	}

	website, err := h.websiteService.GetPublishedByHost(host)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name": website.Name,
		"data": website.Data,
	})
}
