package models

import (
	"time"

	"gorm.io/gorm"

	"aboutwebsite-backend/internal/authorization"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string                 `gorm:"not null" json:"name"`
	Email    string                 `gorm:"uniqueIndex;not null" json:"email"`
	Password string                 `gorm:"not null" json:"-"`
	Role     authorization.UserRole `gorm:"type:varchar(32);default:'user'" json:"role"`

	Subscribed bool `gorm:"default:false" json:"subscribed"`
	ImageLimit int  `gorm:"default:50" json:"image_limit"`

	Websites []Website   `gorm:"foreignKey:UserID" json:"websites,omitempty"`
	Images   []UserImage `gorm:"foreignKey:UserID" json:"images,omitempty"`
}

// SSL request lifecycle for a custom domain.
const (
	SSLStatusNone    = "none"
	SSLStatusPending = "pending"
	SSLStatusApplied = "applied"
)

type Website struct {
	ID        uint           `gorm:"primarykey" json:"_id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Name      string `gorm:"not null" json:"name"`
	Subdomain string `gorm:"uniqueIndex;not null" json:"subdomain"`

	CustomDomain   string     `gorm:"index" json:"custom_domain,omitempty"`
	DNSConfigured  bool       `gorm:"default:false" json:"dns_configured"`
	DNSCheckedAt   *time.Time `json:"dns_checked_at,omitempty"`
	SSLStatus      string     `gorm:"default:'none'" json:"ssl_status"`
	SSLRequestedAt *time.Time `json:"ssl_requested_at,omitempty"`

	Data WebsiteData `gorm:"type:jsonb" json:"data"`

	IsPublished  bool       `gorm:"default:false" json:"isPublished"`
	PublishedURL string     `json:"publishedUrl,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

type UserImage struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"not null;index" json:"user_id"`

	URL           string `gorm:"not null" json:"url"`
	IsServerImage bool   `gorm:"default:true" json:"isServerImage"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	FileType      string `json:"fileType"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateWebsiteRequest struct {
	Name      string `json:"name" binding:"required"`
	Subdomain string `json:"subdomain" binding:"required"`
	Tagline   string `json:"tagline"`
}

type UpdateWebsiteRequest struct {
	Name *string      `json:"name"`
	Data *WebsiteData `json:"data"`
}

// FieldUpdateRequest mirrors the editor's universal update contract: an empty
// field replaces the whole entry at section_key, a non-empty field merges a
// single value into it.
type FieldUpdateRequest struct {
	SectionKey string      `json:"section_key" binding:"required"`
	Field      string      `json:"field"`
	Value      interface{} `json:"value"`
}

type AddSectionRequest struct {
	Type string `json:"type" binding:"required"`
}

type RemoveSectionRequest struct {
	Confirmed bool `json:"confirmed"`
}

type MoveSectionRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type ReorderSectionsRequest struct {
	DraggedKey string `json:"dragged_key" binding:"required"`
	TargetKey  string `json:"target_key" binding:"required"`
}

type CustomTemplateRequest struct {
	Template int `json:"template" binding:"required,min=1,max=4"`
}

type SubscriptionUpdateRequest struct {
	Subscribed *bool `json:"subscribed" binding:"required"`
}

type SelectImageRequest struct {
	SectionKey string                 `json:"section_key" binding:"required"`
	Field      string                 `json:"field" binding:"required"`
	Image      map[string]interface{} `json:"image" binding:"required"`
}

type SetCustomDomainRequest struct {
	Domain string `json:"domain" binding:"required"`
}

type GenerateWebsiteRequest struct {
	Description string `json:"description" binding:"required,min=20"`
}

type GenerateSectionRequest struct {
	Description  string `json:"description" binding:"required"`
	SectionTitle string `json:"sectionTitle"`
}
