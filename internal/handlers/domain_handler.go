package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/service"
)

type DomainHandler struct {
	domainService  *service.DomainService
	websiteService *service.WebsiteService
}

func NewDomainHandler(domainService *service.DomainService, websiteService *service.WebsiteService) *DomainHandler {
	return &DomainHandler{
		domainService:  domainService,
		websiteService: websiteService,
	}
}

func (h *DomainHandler) ownedWebsite(c *gin.Context) (*models.Website, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	websiteID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	website, err := h.websiteService.GetOwned(websiteID, userID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return website, true
}

// CheckSubdomain answers availability for a candidate subdomain. The scope
// keys the sequence counter so rapid retypes on the same form cannot race.
func (h *DomainHandler) CheckSubdomain(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	subdomain := c.Query("subdomain")
	if subdomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subdomain is required"})
		return
	}

	result, err := h.domainService.CheckSubdomain(scopeFor(c, userID), subdomain)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DomainHandler) CheckCustomDomain(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	domain := c.Query("domain")
	if domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domain is required"})
		return
	}

	result, err := h.domainService.CheckCustomDomain(scopeFor(c, userID), domain)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DomainHandler) SetCustomDomain(c *gin.Context) {
	website, ok := h.ownedWebsite(c)
	if !ok {
		return
	}

	var req models.SetCustomDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.domainService.SetCustomDomain(website, req.Domain); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *DomainHandler) RemoveCustomDomain(c *gin.Context) {
	website, ok := h.ownedWebsite(c)
	if !ok {
		return
	}

	if err := h.domainService.RemoveCustomDomain(website); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *DomainHandler) CheckDNS(c *gin.Context) {
	website, ok := h.ownedWebsite(c)
	if !ok {
		return
	}

	result, err := h.domainService.CheckDNS(c.Request.Context(), website)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DomainHandler) RequestSSL(c *gin.Context) {
	website, ok := h.ownedWebsite(c)
	if !ok {
		return
	}

	if err := h.domainService.RequestSSL(website); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ssl_status": website.SSLStatus})
}

func (h *DomainHandler) GetSSLStatus(c *gin.Context) {
	website, ok := h.ownedWebsite(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ssl_status": h.domainService.SSLStatus(website)})
}

// scopeFor keys availability sequences per user and form so checks from
// different browser tabs stay independent.
func scopeFor(c *gin.Context, userID uint) string {
	scope := c.Query("scope")
	if scope == "" {
		scope = c.FullPath()
	}
	return scope + ":" + strconv.FormatUint(uint64(userID), 10)
}
