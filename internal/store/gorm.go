package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/foyerhq/foyer/backend/internal/models"
)

// Gorm is the SQLite-backed Store. Satisfies the same contract as Memory so
// deployments that need data to survive restarts can opt in via config.
type Gorm struct {
	db *gorm.DB
}

// NewGorm migrates the store-owned tables and returns the store.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&models.Visitor{}, &models.AdminUser{}, &models.AuditLog{}); err != nil {
		return nil, fmt.Errorf("auto migrate store tables: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (s *Gorm) CreateVisitor(v *models.Visitor) error {
	return s.db.Create(v).Error
}

func (s *Gorm) GetVisitor(id string) (*models.Visitor, error) {
	var v models.Visitor
	if err := s.db.First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *Gorm) FindActiveVisitorByName(name string) (*models.Visitor, error) {
	var v models.Visitor
	err := s.db.
		Where("LOWER(name) = ? AND is_signed_out = ?", strings.ToLower(name), false).
		Order("sign_in_time asc, id asc").
		First(&v).Error
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *Gorm) SaveVisitor(v *models.Visitor) error {
	var count int64
	if err := s.db.Model(&models.Visitor{}).Where("id = ?", v.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	// Save writes zero-valued fields too, which the permissive re-sign-out
	// overwrite relies on.
	return s.db.Save(v).Error
}

func (s *Gorm) ListCurrentVisitors() ([]models.Visitor, error) {
	var visitors []models.Visitor
	err := s.db.Where("is_signed_out = ?", false).Order("sign_in_time asc, id asc").Find(&visitors).Error
	return visitors, err
}

func (s *Gorm) ListVisitors() ([]models.Visitor, error) {
	var visitors []models.Visitor
	err := s.db.Order("sign_in_time asc, id asc").Find(&visitors).Error
	return visitors, err
}

func (s *Gorm) CreateAdmin(u *models.AdminUser) error {
	var count int64
	if err := s.db.Model(&models.AdminUser{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return s.db.Create(u).Error
}

func (s *Gorm) GetAdmin(id string) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Gorm) GetAdminByUsername(username string) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := s.db.First(&u, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Gorm) CountAdmins() (int64, error) {
	var count int64
	err := s.db.Model(&models.AdminUser{}).Count(&count).Error
	return count, err
}

func (s *Gorm) AppendAudit(entry *models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.db.Create(entry).Error
}

func (s *Gorm) ListAudit() ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.db.Order("timestamp desc").Find(&entries).Error
	return entries, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
