package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/service"
)

type BuilderHandler struct {
	builderService *service.BuilderService
}

func NewBuilderHandler(builderService *service.BuilderService) *BuilderHandler {
	return &BuilderHandler{builderService: builderService}
}

func (h *BuilderHandler) scope(c *gin.Context) (websiteID, userID uint, ok bool) {
	userID, ok = currentUserID(c)
	if !ok {
		return 0, 0, false
	}
	websiteID, ok = parseIDParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	return websiteID, userID, true
}

func (h *BuilderHandler) UpdateField(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req models.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.builderService.UpdateField(websiteID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *BuilderHandler) AddSection(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req models.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, key, err := h.builderService.AddSection(websiteID, userID, req.Type)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "website": website})
}

func (h *BuilderHandler) RemoveSection(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	key := c.Param("key")

	// The confirmation body is optional; an empty body means unconfirmed.
	var req models.RemoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.builderService.RemoveSection(websiteID, userID, key, req.Confirmed)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *BuilderHandler) MoveSection(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	key := c.Param("key")

	var req models.MoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.builderService.MoveSection(websiteID, userID, key, req.Direction)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *BuilderHandler) ReorderSections(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req models.ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.builderService.ReorderSections(websiteID, userID, req.DraggedKey, req.TargetKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *BuilderHandler) DuplicateSection(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	key := c.Param("key")

	website, newKey, err := h.builderService.DuplicateSection(websiteID, userID, key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": newKey, "website": website})
}

func (h *BuilderHandler) SetCustomTemplate(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	key := c.Param("key")

	var req models.CustomTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.builderService.SetCustomTemplate(websiteID, userID, key, req.Template)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *BuilderHandler) SelectImage(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req models.SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	website, err := h.builderService.SelectImage(websiteID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *BuilderHandler) RemoveImage(c *gin.Context) {
	websiteID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	sectionKey := c.Query("section_key")
	field := c.Query("field")
	if sectionKey == "" || field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "section_key and field are required"})
		return
	}

	website, err := h.builderService.RemoveImage(websiteID, userID, sectionKey, field)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}
