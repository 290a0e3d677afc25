package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foyerhq/foyer/backend/internal/models"
)

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.NotificationProvider{}))
	return db
}

func TestNormalizeURL_Discord(t *testing.T) {
	raw := "https://discord.com/api/webhooks/12345/abc_DEF-123"
	assert.Equal(t, "discord://abc_DEF-123@12345", normalizeURL("discord", raw))

	// non-discord types pass through untouched
	assert.Equal(t, raw, normalizeURL("webhook", raw))
}

func TestValidateWebhookURL(t *testing.T) {
	_, err := validateWebhookURL("ftp://example.com/hook")
	assert.Error(t, err)

	_, err = validateWebhookURL("http://")
	assert.Error(t, err)

	u, err := validateWebhookURL("http://localhost:9000/hook")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
}

func TestNotificationService_TestProvider_Webhook(t *testing.T) {
	received := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewNotificationService(setupNotificationTestDB(t))
	provider := models.NotificationProvider{Type: "webhook", URL: srv.URL, Name: "Front Desk Hook"}
	require.NoError(t, svc.TestProvider(provider))

	payload := <-received
	assert.Equal(t, "test", payload["event"])
	assert.Equal(t, "Test Notification", payload["title"])
}

func TestNotificationService_SendVisitorEvent_FiltersByPreference(t *testing.T) {
	hits := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		hits <- payload["event"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	db := setupNotificationTestDB(t)
	require.NoError(t, db.Create(&models.NotificationProvider{
		Name: "signins-only", Type: "webhook", URL: srv.URL,
		Enabled: true, NotifySignIns: true, NotifySignOuts: false,
	}).Error)
	require.NoError(t, db.Create(&models.NotificationProvider{
		Name: "disabled", Type: "webhook", URL: srv.URL,
		Enabled: false, NotifySignIns: true, NotifySignOuts: true,
	}).Error)

	svc := NewNotificationService(db)

	svc.SendVisitorEvent(EventSignIn, "Visitor Arrival: John Smith", "John Smith is here")
	select {
	case event := <-hits:
		assert.Equal(t, EventSignIn, event)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the sign-in webhook to fire")
	}

	// sign-out is filtered out for this provider
	svc.SendVisitorEvent(EventSignOut, "Visitor Departed", "John Smith left")
	select {
	case event := <-hits:
		t.Fatalf("unexpected webhook for event %q", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNotificationService_ProviderCRUD(t *testing.T) {
	svc := NewNotificationService(setupNotificationTestDB(t))

	p := &models.NotificationProvider{Name: "Slack", Type: "slack", URL: "slack://token@channel", Enabled: true}
	require.NoError(t, svc.CreateProvider(p))
	require.NotEmpty(t, p.ID)

	list, err := svc.ListProviders()
	require.NoError(t, err)
	require.Len(t, list, 1)

	p.Enabled = false
	require.NoError(t, svc.UpdateProvider(p))

	require.NoError(t, svc.DeleteProvider(p.ID))
	list, err = svc.ListProviders()
	require.NoError(t, err)
	assert.Empty(t, list)
}
