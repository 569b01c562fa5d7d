package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aboutwebsite-backend/internal/document"
	"aboutwebsite-backend/internal/service"
	"aboutwebsite-backend/pkg/logger"
)

func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service errors onto HTTP statuses with the flat
// {"error": ...} envelope every endpoint uses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWebsiteNotFound),
		errors.Is(err, service.ErrImageNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, document.ErrSectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrSubscribeRequired):
		// The editor matches on the literal "subscribe" string.
		c.JSON(http.StatusForbidden, gin.H{"error": "subscribe"})

	case errors.Is(err, document.ErrConfirmRequired),
		errors.Is(err, document.ErrUploadInFlight),
		errors.Is(err, service.ErrSubdomainTaken),
		errors.Is(err, service.ErrDomainTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrBadSubdomain),
		errors.Is(err, service.ErrBadDomain),
		errors.Is(err, service.ErrNoCustomDomain),
		errors.Is(err, service.ErrDNSNotReady),
		errors.Is(err, service.ErrUnknownSectionType),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrFileTypeNotAllow),
		errors.Is(err, service.ErrImageLimit),
		errors.Is(err, document.ErrSectionExists),
		errors.Is(err, document.ErrUnknownTopLevelField),
		errors.Is(err, document.ErrInvalidSectionValue),
		errors.Is(err, document.ErrInvalidOrderValue),
		errors.Is(err, document.ErrNoUploadPending),
		errors.Is(err, document.ErrMissingImageURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrGenerationUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		logger.Error(err, "Unhandled service error", map[string]interface{}{
			"path": c.FullPath(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
