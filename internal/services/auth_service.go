package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/foyerhq/foyer/backend/internal/config"
	"github.com/foyerhq/foyer/backend/internal/logger"
	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/store"
)

// ErrInvalidCredentials is returned for unknown usernames and wrong passwords
// alike, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService manages admin credentials and session tokens.
type AuthService struct {
	store store.Store
	cfg   config.Config
}

func NewAuthService(st store.Store, cfg config.Config) *AuthService {
	return &AuthService{store: st, cfg: cfg}
}

// Claims is the session token payload.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Register creates an admin with a bcrypt-hashed password.
// store.ErrUsernameTaken on duplicate usernames.
func (s *AuthService) Register(username, password string) (*models.AdminUser, error) {
	u := &models.AdminUser{Username: username}
	if err := u.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.CreateAdmin(u); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]string{"username": username})
	if err := s.store.AppendAudit(&models.AuditLog{
		Action:     models.ActionAdminCreated,
		EntityType: models.EntityTypeAdmin,
		EntityID:   u.ID,
		Details:    details,
		Timestamp:  time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}

	return u, nil
}

// Verify looks up the username and compares the password hash. Returns nil
// for unknown users and wrong passwords without distinguishing the two.
func (s *AuthService) Verify(username, password string) *models.AdminUser {
	u, err := s.store.GetAdminByUsername(username)
	if err != nil {
		return nil
	}
	if !u.CheckPassword(password) {
		return nil
	}
	return u
}

// Login verifies credentials and issues a signed session token.
func (s *AuthService) Login(username, password string) (string, *models.AdminUser, error) {
	u := s.Verify(username, password)
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, u, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GetAdmin resolves a token's subject to the stored admin.
func (s *AuthService) GetAdmin(id string) (*models.AdminUser, error) {
	return s.store.GetAdmin(id)
}

// SeedDefaultAdmin creates the bootstrap admin when the store holds none.
func (s *AuthService) SeedDefaultAdmin() error {
	count, err := s.store.CountAdmins()
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.Register(s.cfg.AdminUsername, s.cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}
	logger.WithFields(map[string]interface{}{"username": s.cfg.AdminUsername}).Info("seeded default admin user")
	return nil
}
