package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foyerhq/foyer/backend/internal/models"
)

// Memory is the in-process Store used by the kiosk's default deployment
// profile and by tests. Records are copied on the way in and out so callers
// can never mutate stored state behind the lock.
type Memory struct {
	mu       sync.RWMutex
	visitors map[string]models.Visitor
	admins   map[string]models.AdminUser
	audit    []models.AuditLog

	// visitorOrder preserves insertion order for listings.
	visitorOrder []string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		visitors: make(map[string]models.Visitor),
		admins:   make(map[string]models.AdminUser),
	}
}

func (m *Memory) CreateVisitor(v *models.Visitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	m.visitors[v.ID] = *v
	m.visitorOrder = append(m.visitorOrder, v.ID)
	return nil
}

func (m *Memory) GetVisitor(id string) (*models.Visitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.visitors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *Memory) FindActiveVisitorByName(name string) (*models.Visitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var match *models.Visitor
	lower := strings.ToLower(name)
	for _, id := range m.visitorOrder {
		v := m.visitors[id]
		if v.IsSignedOut || strings.ToLower(v.Name) != lower {
			continue
		}
		if match == nil || earlier(v, *match) {
			c := v
			match = &c
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}
	return match, nil
}

// earlier orders visitors by sign-in time, then id.
func earlier(a, b models.Visitor) bool {
	if a.SignInTime.Equal(b.SignInTime) {
		return a.ID < b.ID
	}
	return a.SignInTime.Before(b.SignInTime)
}

func (m *Memory) SaveVisitor(v *models.Visitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.visitors[v.ID]; !ok {
		return ErrNotFound
	}
	m.visitors[v.ID] = *v
	return nil
}

func (m *Memory) ListCurrentVisitors() ([]models.Visitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Visitor, 0)
	for _, id := range m.visitorOrder {
		if v := m.visitors[id]; !v.IsSignedOut {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *Memory) ListVisitors() ([]models.Visitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Visitor, 0, len(m.visitorOrder))
	for _, id := range m.visitorOrder {
		out = append(out, m.visitors[id])
	}
	return out, nil
}

func (m *Memory) CreateAdmin(u *models.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.admins {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.admins[u.ID] = *u
	return nil
}

func (m *Memory) GetAdmin(id string) (*models.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetAdminByUsername(username string) (*models.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.admins {
		if u.Username == username {
			c := u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CountAdmins() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.admins)), nil
}

func (m *Memory) AppendAudit(entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	m.audit = append(m.audit, *entry)
	return nil
}

func (m *Memory) ListAudit() ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Reverse insertion order, then stable sort by timestamp so entries with
	// identical timestamps still come back newest-appended first.
	out := make([]models.AuditLog, 0, len(m.audit))
	for i := len(m.audit) - 1; i >= 0; i-- {
		out = append(out, m.audit[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}
