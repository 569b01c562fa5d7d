package service

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"aboutwebsite-backend/internal/config"
	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/repository"
	"aboutwebsite-backend/pkg/logger"
	"aboutwebsite-backend/pkg/validator"
)

var (
	ErrBadDomain      = errors.New("invalid domain")
	ErrDomainTaken    = errors.New("domain is already taken")
	ErrNoCustomDomain = errors.New("website has no custom domain")
	ErrDNSNotReady    = errors.New("dns is not pointing at the server yet")
)

// Subdomain labels that would collide with platform infrastructure.
var reservedSubdomains = map[string]bool{
	"www":   true,
	"api":   true,
	"app":   true,
	"admin": true,
	"mail":  true,
	"smtp":  true,
	"ns1":   true,
	"ns2":   true,
}

type hostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Sequencer hands out per-scope sequence numbers for availability checks.
// Accept reports whether a result is still the latest for its scope; stale
// results from slow checks are dropped instead of overwriting fresh ones.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

func (s *Sequencer) Next(scope string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[scope]++
	return s.latest[scope]
}

func (s *Sequencer) Accept(scope string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.latest[scope]
}

type AvailabilityResult struct {
	Seq       uint64 `json:"seq"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Stale     bool   `json:"stale,omitempty"`
}

type DNSResult struct {
	Configured bool     `json:"configured"`
	Expected   string   `json:"expected"`
	Resolved   []string `json:"resolved"`
	CheckedAt  string   `json:"checkedAt"`
}

type DomainService struct {
	websiteRepo repository.WebsiteRepository
	cfg         *config.Config
	resolver    hostResolver
	seq         *Sequencer
}

func NewDomainService(websiteRepo repository.WebsiteRepository, cfg *config.Config) *DomainService {
	return &DomainService{
		websiteRepo: websiteRepo,
		cfg:         cfg,
		resolver:    net.DefaultResolver,
		seq:         NewSequencer(),
	}
}

// CheckSubdomain validates a candidate and looks up whether it is taken.
// Each call gets a sequence number for its scope; if a newer check started
// while this one ran, the result comes back marked stale.
func (s *DomainService) CheckSubdomain(scope, subdomain string) (*AvailabilityResult, error) {
	seq := s.seq.Next("subdomain:" + scope)
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))

	result := &AvailabilityResult{Seq: seq}

	switch {
	case len(subdomain) < validator.MinSubdomainLength:
		result.Reason = "too short"
	case !validator.ValidateSubdomain(subdomain):
		result.Reason = "invalid characters"
	case reservedSubdomains[subdomain]:
		result.Reason = "reserved"
	default:
		taken, err := s.websiteRepo.ExistsBySubdomain(subdomain)
		if err != nil {
			return nil, err
		}
		if taken {
			result.Reason = "taken"
		} else {
			result.Available = true
		}
	}

	if !s.seq.Accept("subdomain:"+scope, seq) {
		result.Stale = true
	}
	return result, nil
}

func (s *DomainService) CheckCustomDomain(scope, domain string) (*AvailabilityResult, error) {
	seq := s.seq.Next("domain:" + scope)
	domain = strings.ToLower(strings.TrimSpace(domain))

	result := &AvailabilityResult{Seq: seq}

	if !validator.ValidateDomain(domain) {
		result.Reason = "invalid domain"
	} else {
		taken, err := s.websiteRepo.ExistsByCustomDomain(domain)
		if err != nil {
			return nil, err
		}
		if taken {
			result.Reason = "taken"
		} else {
			result.Available = true
		}
	}

	if !s.seq.Accept("domain:"+scope, seq) {
		result.Stale = true
	}
	return result, nil
}

// SetCustomDomain attaches a domain to the website and resets the DNS and SSL
// state, since the new domain has to be verified from scratch.
func (s *DomainService) SetCustomDomain(website *models.Website, domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !validator.ValidateDomain(domain) {
		return ErrBadDomain
	}

	existing, err := s.websiteRepo.GetByCustomDomain(domain)
	if err == nil && existing != nil && existing.ID != website.ID {
		return ErrDomainTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	website.CustomDomain = domain
	website.DNSConfigured = false
	website.DNSCheckedAt = nil
	website.SSLStatus = models.SSLStatusNone
	website.SSLRequestedAt = nil

	return s.websiteRepo.Update(website)
}

func (s *DomainService) RemoveCustomDomain(website *models.Website) error {
	website.CustomDomain = ""
	website.DNSConfigured = false
	website.DNSCheckedAt = nil
	website.SSLStatus = models.SSLStatusNone
	website.SSLRequestedAt = nil

	return s.websiteRepo.Update(website)
}

// CheckDNS resolves the custom domain and marks it configured when an A
// record points at the apex IP.
func (s *DomainService) CheckDNS(ctx context.Context, website *models.Website) (*DNSResult, error) {
	if website.CustomDomain == "" {
		return nil, ErrNoCustomDomain
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	addrs, err := s.resolver.LookupHost(lookupCtx, website.CustomDomain)
	if err != nil {
		var dnsErr *net.DNSError
		if !errors.As(err, &dnsErr) {
			return nil, err
		}
		addrs = nil
	}

	configured := false
	for _, addr := range addrs {
		if addr == s.cfg.ApexIP {
			configured = true
			break
		}
	}

	now := time.Now().UTC()
	website.DNSConfigured = configured
	website.DNSCheckedAt = &now
	if err := s.websiteRepo.Update(website); err != nil {
		return nil, err
	}

	logger.Info("DNS checked", map[string]interface{}{
		"website_id": website.ID,
		"domain":     website.CustomDomain,
		"configured": configured,
	})

	return &DNSResult{
		Configured: configured,
		Expected:   s.cfg.ApexIP,
		Resolved:   addrs,
		CheckedAt:  now.Format(time.RFC3339),
	}, nil
}

// RequestSSL queues certificate provisioning for a domain whose DNS has been
// verified. The background scheduler moves pending requests to applied.
func (s *DomainService) RequestSSL(website *models.Website) error {
	if website.CustomDomain == "" {
		return ErrNoCustomDomain
	}
	if !website.DNSConfigured {
		return ErrDNSNotReady
	}
	if website.SSLStatus == models.SSLStatusApplied {
		return nil
	}

	now := time.Now().UTC()
	website.SSLStatus = models.SSLStatusPending
	website.SSLRequestedAt = &now

	if err := s.websiteRepo.Update(website); err != nil {
		return err
	}

	logger.Info("SSL requested", map[string]interface{}{
		"website_id": website.ID,
		"domain":     website.CustomDomain,
	})
	return nil
}

func (s *DomainService) SSLStatus(website *models.Website) string {
	return website.SSLStatus
}

// ProcessPendingSSL promotes pending certificate requests once provisioning
// has had time to complete. Runs from the background scheduler.
func (s *DomainService) ProcessPendingSSL(ctx context.Context) error {
	websites, err := s.websiteRepo.GetPendingSSL()
	if err != nil {
		return err
	}

	gracePeriod := time.Duration(s.cfg.SSLPollIntervalSeconds) * time.Second

	for i := range websites {
		if err := ctx.Err(); err != nil {
			return err
		}

		website := &websites[i]
		if website.SSLRequestedAt == nil || time.Since(*website.SSLRequestedAt) < gracePeriod {
			continue
		}

		website.SSLStatus = models.SSLStatusApplied
		if err := s.websiteRepo.Update(website); err != nil {
			logger.Error(err, "Failed to apply SSL status", map[string]interface{}{
				"website_id": website.ID,
			})
			continue
		}

		logger.Info("SSL applied", map[string]interface{}{
			"website_id": website.ID,
			"domain":     website.CustomDomain,
		})
	}
	return nil
}
