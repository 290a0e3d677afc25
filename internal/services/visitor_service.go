package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/foyerhq/foyer/backend/internal/logger"
	"github.com/foyerhq/foyer/backend/internal/metrics"
	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/store"
)

// VisitorService owns the visitor lifecycle: sign-in, patching, sign-out and
// the dashboard statistics scan. Every mutation appends an audit entry; the
// audit trail is never read back by this service.
type VisitorService struct {
	store store.Store
	now   func() time.Time
}

func NewVisitorService(st store.Store) *VisitorService {
	return &VisitorService{store: st, now: time.Now}
}

// SignInRequest carries the validated kiosk form fields.
type SignInRequest struct {
	Name        string
	Company     *string
	HostName    string
	VisitReason string
	PhotoData   *string
}

// VisitorUpdate is a partial patch. Nil fields are left untouched; id and
// signInTime cannot be changed through it.
type VisitorUpdate struct {
	Name        *string
	Company     *string
	HostName    *string
	VisitReason *string
	PhotoData   *string
	EmailSent   *bool
}

// Stats are the point-in-time dashboard aggregates.
type Stats struct {
	CurrentVisitors int    `json:"currentVisitors"`
	TodaySignins    int    `json:"todaySignins"`
	AvgDuration     string `json:"avgDuration"`
}

// SignIn creates the visitor record and appends the sign-in audit entry.
func (s *VisitorService) SignIn(req SignInRequest) (*models.Visitor, error) {
	v := &models.Visitor{
		Name:        req.Name,
		Company:     req.Company,
		HostName:    req.HostName,
		VisitReason: req.VisitReason,
		PhotoData:   req.PhotoData,
		SignInTime:  s.now(),
	}
	if err := s.store.CreateVisitor(v); err != nil {
		return nil, fmt.Errorf("create visitor: %w", err)
	}

	if err := s.audit(models.ActionVisitorSignIn, v.ID, map[string]interface{}{
		"name":     v.Name,
		"company":  v.Company,
		"hostName": v.HostName,
	}); err != nil {
		return nil, err
	}

	metrics.IncSignIn()
	return v, nil
}

// Get returns the full record including photo data.
func (s *VisitorService) Get(id string) (*models.Visitor, error) {
	return s.store.GetVisitor(id)
}

// Update merges the patch into the record and audits the applied fields.
func (s *VisitorService) Update(id string, patch VisitorUpdate) (*models.Visitor, error) {
	v, err := s.store.GetVisitor(id)
	if err != nil {
		return nil, err
	}

	applied := map[string]interface{}{}
	if patch.Name != nil {
		v.Name = *patch.Name
		applied["name"] = *patch.Name
	}
	if patch.Company != nil {
		v.Company = patch.Company
		applied["company"] = *patch.Company
	}
	if patch.HostName != nil {
		v.HostName = *patch.HostName
		applied["hostName"] = *patch.HostName
	}
	if patch.VisitReason != nil {
		v.VisitReason = *patch.VisitReason
		applied["visitReason"] = *patch.VisitReason
	}
	if patch.PhotoData != nil {
		v.PhotoData = patch.PhotoData
		applied["photoData"] = "updated"
	}
	if patch.EmailSent != nil {
		v.EmailSent = *patch.EmailSent
		applied["emailSent"] = *patch.EmailSent
	}

	if err := s.store.SaveVisitor(v); err != nil {
		return nil, err
	}
	if err := s.audit(models.ActionVisitorUpdated, v.ID, applied); err != nil {
		return nil, err
	}
	return v, nil
}

// MarkEmailSent flags a successful host notification on the record.
func (s *VisitorService) MarkEmailSent(id string) error {
	sent := true
	_, err := s.Update(id, VisitorUpdate{EmailSent: &sent})
	return err
}

// SignOut transitions the visitor to signed-out. An already signed-out
// visitor is overwritten with the new time rather than rejected.
func (s *VisitorService) SignOut(id string, signOutTime time.Time) (*models.Visitor, error) {
	return s.signOut(id, signOutTime, nil)
}

func (s *VisitorService) signOut(id string, signOutTime time.Time, extraDetails map[string]interface{}) (*models.Visitor, error) {
	v, err := s.store.GetVisitor(id)
	if err != nil {
		return nil, err
	}

	v.SignOutTime = &signOutTime
	v.IsSignedOut = true
	if err := s.store.SaveVisitor(v); err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"name":        v.Name,
		"signOutTime": signOutTime,
	}
	for k, val := range extraDetails {
		details[k] = val
	}
	if err := s.audit(models.ActionVisitorSignOut, v.ID, details); err != nil {
		return nil, err
	}

	metrics.IncSignOut()
	return v, nil
}

// SignOutByName resolves the earliest-signed-in active visitor with the given
// name (case-insensitive) and signs them out. store.ErrNotFound when no
// active visitor matches.
func (s *VisitorService) SignOutByName(name string, signOutTime time.Time) (*models.Visitor, error) {
	v, err := s.store.FindActiveVisitorByName(name)
	if err != nil {
		return nil, err
	}
	return s.SignOut(v.ID, signOutTime)
}

// CloseOutActive signs out every visitor still on site, marking the audit
// entries as a scheduled close-out. Returns the number signed out.
func (s *VisitorService) CloseOutActive(at time.Time) (int, error) {
	current, err := s.store.ListCurrentVisitors()
	if err != nil {
		return 0, err
	}
	for _, v := range current {
		if _, err := s.signOut(v.ID, at, map[string]interface{}{"closeout": true}); err != nil {
			return 0, fmt.Errorf("close out visitor %s: %w", v.ID, err)
		}
	}
	return len(current), nil
}

// Current lists visitors still on site, oldest sign-in first.
func (s *VisitorService) Current() ([]models.Visitor, error) {
	return s.store.ListCurrentVisitors()
}

// All lists every visitor including photo data.
func (s *VisitorService) All() ([]models.Visitor, error) {
	return s.store.ListVisitors()
}

// AllRedacted lists every visitor with photo data removed.
func (s *VisitorService) AllRedacted() ([]models.Visitor, error) {
	visitors, err := s.store.ListVisitors()
	if err != nil {
		return nil, err
	}
	out := make([]models.Visitor, len(visitors))
	for i, v := range visitors {
		out[i] = v.Redacted()
	}
	return out, nil
}

// AuditTrail returns the full audit log, newest first.
func (s *VisitorService) AuditTrail() ([]models.AuditLog, error) {
	return s.store.ListAudit()
}

// TodayStats scans the store once and computes the dashboard aggregates.
// todaySignins counts sign-ins since local midnight of now; avgDuration
// averages all-time completed visits, formatted as hours with one decimal.
func (s *VisitorService) TodayStats(now time.Time) (Stats, error) {
	visitors, err := s.store.ListVisitors()
	if err != nil {
		return Stats{}, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := Stats{}
	var completed int
	var totalDuration time.Duration
	for _, v := range visitors {
		if !v.IsSignedOut {
			stats.CurrentVisitors++
		}
		if !v.SignInTime.Before(startOfDay) {
			stats.TodaySignins++
		}
		if v.IsSignedOut && v.SignOutTime != nil {
			completed++
			totalDuration += v.SignOutTime.Sub(v.SignInTime)
		}
	}

	avgHours := 0.0
	if completed > 0 {
		avgHours = totalDuration.Hours() / float64(completed)
	}
	stats.AvgDuration = fmt.Sprintf("%.1fh", avgHours)

	return stats, nil
}

func (s *VisitorService) audit(action, entityID string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	entry := &models.AuditLog{
		Action:     action,
		EntityType: models.EntityTypeVisitor,
		EntityID:   entityID,
		Details:    payload,
		Timestamp:  s.now(),
	}
	if err := s.store.AppendAudit(entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	logger.WithFields(map[string]interface{}{"action": action, "entity_id": entityID}).Debug("audit entry appended")
	return nil
}
