package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/foyerhq/foyer/backend/internal/logger"
)

// CloseoutService runs a scheduled end-of-day sweep that signs out visitors
// still marked on site, so the dashboard does not accumulate stale entries
// when people leave without signing out.
type CloseoutService struct {
	visitors *VisitorService
	spec     string
	cron     *cron.Cron
}

func NewCloseoutService(visitors *VisitorService, spec string) *CloseoutService {
	return &CloseoutService{visitors: visitors, spec: spec}
}

// Start schedules the sweep. A no-op when no cron spec is configured.
func (s *CloseoutService) Start() error {
	if s.spec == "" {
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.Run); err != nil {
		return fmt.Errorf("schedule closeout job %q: %w", s.spec, err)
	}
	s.cron.Start()
	logger.WithFields(map[string]interface{}{"spec": s.spec}).Info("end-of-day closeout scheduled")
	return nil
}

// Run performs one sweep immediately.
func (s *CloseoutService) Run() {
	n, err := s.visitors.CloseOutActive(time.Now())
	if err != nil {
		logger.Log().WithError(err).Error("closeout sweep failed")
		return
	}
	if n > 0 {
		logger.WithFields(map[string]interface{}{"signed_out": n}).Info("closeout sweep signed out lingering visitors")
	}
}

// Stop halts the scheduler.
func (s *CloseoutService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
