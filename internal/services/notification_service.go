package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	neturl "net/url"
	"regexp"
	"strings"
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/foyerhq/foyer/backend/internal/logger"
	"github.com/foyerhq/foyer/backend/internal/metrics"
	"github.com/foyerhq/foyer/backend/internal/models"
)

// Visitor notification event types.
const (
	EventSignIn  = "visitor_sign_in"
	EventSignOut = "visitor_sign_out"
)

// NotificationService fans visitor events out to configured external
// channels (shoutrrr services and plain webhooks). Delivery is best effort:
// failures are logged and counted, never propagated.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// normalizeURL rewrites raw webhook URLs of known services into shoutrrr form.
func normalizeURL(serviceType, rawURL string) string {
	if serviceType == "discord" {
		matches := discordWebhookRegex.FindStringSubmatch(rawURL)
		if len(matches) == 3 {
			return fmt.Sprintf("discord://%s@%s", matches[2], matches[1])
		}
	}
	return rawURL
}

// SendVisitorEvent notifies every enabled provider subscribed to the event.
// Each provider is contacted on its own goroutine; the caller never blocks on
// delivery.
func (s *NotificationService) SendVisitorEvent(event, title, message string) {
	if s.DB == nil {
		return
	}

	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("fetch notification providers")
		return
	}

	for _, provider := range providers {
		switch event {
		case EventSignIn:
			if !provider.NotifySignIns {
				continue
			}
		case EventSignOut:
			if !provider.NotifySignOuts {
				continue
			}
		}

		go func(p models.NotificationProvider) {
			var err error
			if p.Type == "webhook" {
				err = sendWebhook(p.URL, event, title, message)
			} else {
				err = shoutrrr.Send(normalizeURL(p.Type, p.URL), fmt.Sprintf("%s\n\n%s", title, message))
			}
			if err != nil {
				metrics.IncNotificationFailed()
				logger.WithFields(map[string]interface{}{"provider": p.Name}).WithError(err).Error("notification delivery failed")
				return
			}
			metrics.IncNotificationSent()
		}(provider)
	}
}

// TestProvider sends a test message through the provider's channel.
func (s *NotificationService) TestProvider(provider models.NotificationProvider) error {
	if provider.Type == "webhook" {
		return sendWebhook(provider.URL, "test", "Test Notification", "This is a test notification from Foyer")
	}
	return shoutrrr.Send(normalizeURL(provider.Type, provider.URL), "Test notification from Foyer")
}

// sendWebhook POSTs a small JSON payload to a validated destination.
func sendWebhook(rawURL, event, title, message string) error {
	u, err := validateWebhookURL(rawURL)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"event":   event,
		"title":   title,
		"message": message,
		"time":    time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Post(u.String(), "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status: %d", resp.StatusCode)
	}
	return nil
}

// validateWebhookURL enforces http(s) and rejects destinations resolving to
// private or link-local addresses, except explicit localhost for tests.
func validateWebhookURL(raw string) (*neturl.URL, error) {
	u, err := neturl.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("missing host")
	}
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return u, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, fmt.Errorf("dns lookup failed: %w", err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return nil, fmt.Errorf("disallowed host IP: %s", ip.String())
		}
	}
	return u, nil
}

// isPrivateIP returns true for RFC1918, loopback and link-local addresses.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		switch {
		case ip4[0] == 10:
			return true
		case ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31:
			return true
		case ip4[0] == 192 && ip4[1] == 168:
			return true
		}
	}

	// IPv6 unique local addresses fc00::/7
	if ip.To16() != nil && strings.HasPrefix(ip.String(), "fc") {
		return true
	}

	return false
}

// Provider management

func (s *NotificationService) ListProviders() ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	result := s.DB.Find(&providers)
	return providers, result.Error
}

func (s *NotificationService) CreateProvider(provider *models.NotificationProvider) error {
	return s.DB.Create(provider).Error
}

func (s *NotificationService) UpdateProvider(provider *models.NotificationProvider) error {
	return s.DB.Save(provider).Error
}

func (s *NotificationService) DeleteProvider(id string) error {
	return s.DB.Delete(&models.NotificationProvider{}, "id = ?", id).Error
}
