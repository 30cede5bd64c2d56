package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried by an access token.
type Claims struct {
	UserID string
	Role   string
	Email  string
}

// Manager signs and verifies access and refresh tokens. The two token kinds
// use separate secrets, so a refresh token never passes access verification.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) IssueAccess(userID, role, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"role":  role,
		"email": email,
		"exp":   now.Add(m.accessTTL).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
}

func (m *Manager) IssueRefresh(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(m.refreshTTL).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
}

// VerifyAccess validates signature and expiry and extracts the identity.
// Older tokens carried the subject in a "userId" claim instead of "sub";
// both are accepted.
func (m *Manager) VerifyAccess(tokenStr string) (Claims, error) {
	mc, err := m.verify(tokenStr, m.accessSecret)
	if err != nil {
		return Claims{}, err
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		sub, _ = mc["userId"].(string)
	}
	if sub == "" {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	email, _ := mc["email"].(string)
	return Claims{UserID: sub, Role: role, Email: email}, nil
}

// VerifyRefresh validates a refresh token and returns its subject id.
func (m *Manager) VerifyRefresh(tokenStr string) (string, error) {
	mc, err := m.verify(tokenStr, m.refreshSecret)
	if err != nil {
		return "", err
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func (m *Manager) verify(tokenStr string, secret []byte) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
