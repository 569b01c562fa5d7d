package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy

	domainRegex    = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,61}[a-zA-Z0-9]?\.[a-zA-Z]{2,}$`)
	subdomainRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// MinSubdomainLength matches the editor-side guard: shorter candidates never
// reach an availability check.
const MinSubdomainLength = 3

func Init() {
	validate = validator.New()

	sanitizer = bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class", "id", "style").Globally()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("subdomain", validateSubdomainField)
	v.RegisterValidation("domain", validateDomainField)
}

func Validate(s interface{}) error {
	return validate.Struct(s)
}

// SanitizeHTML cleans user-authored markup (code/AI sections) before it is
// echoed back in preview payloads.
func SanitizeHTML(html string) string {
	return sanitizer.Sanitize(html)
}

func SanitizeString(s string) string {
	return bluemonday.StrictPolicy().Sanitize(s)
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePassword(password string) (bool, string) {
	if len(password) < 6 {
		return false, "password must be at least 6 characters long"
	}
	return true, ""
}

// ValidateDomain checks a custom domain candidate against the same pattern
// the editor applies before any network call.
func ValidateDomain(domain string) bool {
	return domainRegex.MatchString(strings.TrimSpace(domain))
}

// ValidateSubdomain checks a subdomain label: lowercase alphanumerics and
// dashes, no leading or trailing dash, at least MinSubdomainLength runes.
func ValidateSubdomain(subdomain string) bool {
	subdomain = strings.TrimSpace(subdomain)
	if len(subdomain) < MinSubdomainLength || len(subdomain) > 63 {
		return false
	}
	return subdomainRegex.MatchString(subdomain)
}

func validateSubdomainField(fl validator.FieldLevel) bool {
	return ValidateSubdomain(fl.Field().String())
}

func validateDomainField(fl validator.FieldLevel) bool {
	return ValidateDomain(fl.Field().String())
}

func TrimSpaces(s string) string {
	return strings.TrimSpace(s)
}

func SanitizeFilename(filename string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	return reg.ReplaceAllString(filename, "_")
}

func ValidateImageExtension(filename string) bool {
	allowedExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico"}
	filename = strings.ToLower(filename)

	for _, ext := range allowedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}
