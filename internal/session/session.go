package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Maksimell/shop_backend/internal/models"
)

// CookieName is the cookie that carries the signed session token.
const CookieName = "session"

const defaultTTL = 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session")

// Service issues and validates session tokens. Every login creates a Session
// row; logout revokes it, so a stolen token dies with the session.
type Service struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
}

func (s *Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return defaultTTL
	}
	return s.TTL
}

func (s *Service) Issue(userID uint) (string, time.Time, error) {
	exp := time.Now().Add(s.ttl())
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"typ": "session",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := t.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("cannot sign session token: %w", err)
	}

	record := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: exp.Unix(),
		Revoked:   false,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return "", time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return token, exp, nil
}

// Validate checks the token signature and the backing Session row and returns
// the authenticated user id.
func (s *Service) Validate(raw string) (uint, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return 0, ErrInvalidSession
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidSession
	}
	if typ, ok := claims["typ"]; !ok || typ != "session" {
		return 0, ErrInvalidSession
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, ErrInvalidSession
	}

	var stored models.Session
	if err := s.DB.Where("token = ?", raw).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidSession
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return 0, ErrInvalidSession
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return 0, ErrInvalidSession
	}

	return uint(sub), nil
}

// Revoke invalidates the session unconditionally. Revoking an unknown token
// is not an error.
func (s *Service) Revoke(raw string) error {
	result := s.DB.Model(&models.Session{}).
		Where("token = ?", raw).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("db error: %w", result.Error)
	}
	return nil
}
