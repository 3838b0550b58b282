package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service handles admin authentication. Credentials and the signing secret
// are injected from the environment; there are no built-in defaults.
type Service struct {
	jwtSecret     []byte
	adminUsername string
	adminPassword string // plain comparison, only when no hash is configured
	adminHash     string // bcrypt hash, takes precedence
	tokenExpiry   time.Duration
}

// NewService creates a new authentication service
func NewService(jwtSecret []byte, adminUsername, adminPassword, adminHash string, tokenExpiry time.Duration) *Service {
	if tokenExpiry <= 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &Service{
		jwtSecret:     jwtSecret,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		adminHash:     adminHash,
		tokenExpiry:   tokenExpiry,
	}
}

// AdminClaims is what a validated admin token carries.
type AdminClaims struct {
	Username string
	Role     string
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks the supplied credentials and issues a signed bearer token.
func (s *Service) Login(username, password string) (*LoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) != 1 {
		return nil, ErrInvalidCredentials
	}

	if s.adminHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenExpiry)
	claims := jwt.MapClaims{
		"username": username,
		"role":     "admin",
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResponse{
		Token:     tokenString,
		Username:  username,
		Role:      "admin",
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" || role != "admin" {
		return nil, ErrInvalidToken
	}

	return &AdminClaims{Username: username, Role: role}, nil
}
