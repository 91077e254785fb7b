package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardputer_radio/internal/models"
	"cardputer_radio/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = time.Hour
	maxUsernameLen  = 64
)

var (
	ErrInvalidUsername = errors.New("invalid username: must be 1-64 bytes without spaces")
	ErrInvalidPassword = errors.New("invalid password")
	ErrOperatorUnknown = errors.New("operator not found")
	ErrInvalidToken    = errors.New("invalid token")
	// ErrSignUpClosed is returned when operators exist, open sign-up is off
	// and the caller is not an authenticated operator.
	ErrSignUpClosed = errors.New("sign-up requires an authenticated operator")
	errNoSigningKey = errors.New("auth signing key is not configured")
)

// AuthService manages the operators allowed to drive the radio.
type AuthService struct {
	operators  repository.Operators
	signingKey []byte
	tokenTTL   time.Duration
	openSignUp bool
}

func NewAuthService(repo repository.Operators, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		operators:  repo,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
		openSignUp: cfg.OpenSignUp,
	}
}

// SignUp registers an operator. The first operator may always register;
// after that an existing operator (carried in ctx) must do it unless open
// sign-up is configured.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	username, err := validateUsername(username)
	if err != nil {
		return 0, err
	}
	if err := s.checkSignUpAllowed(ctx); err != nil {
		return 0, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}
	return s.operators.Create(ctx, username, hash)
}

func (s *AuthService) checkSignUpAllowed(ctx context.Context) error {
	if s.openSignUp || !ActorFrom(ctx).IsZero() {
		return nil
	}
	n, err := s.operators.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSignUpClosed
	}
	return nil
}

// Claims carries the operator identity stamped onto radio events.
type Claims struct {
	jwt.RegisteredClaims
	OperatorID int    `json:"operator_id"`
	Username   string `json:"username"`
}

// GenerateToken checks credentials and returns a signed bearer token.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	op, err := s.operators.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if op == nil {
		return "", ErrOperatorUnknown
	}
	if err := verifyPassword(op.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}
	return s.issueToken(op.Actor())
}

// ParseToken validates a bearer token and returns the operator it names.
func (s *AuthService) ParseToken(accessToken string) (models.Actor, error) {
	if len(s.signingKey) == 0 {
		return models.Actor{}, errNoSigningKey
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OperatorID == 0 {
		return models.Actor{}, ErrInvalidToken
	}
	return models.Actor{ID: claims.OperatorID, Username: claims.Username}, nil
}

func (s *AuthService) issueToken(a models.Actor) (string, error) {
	if len(s.signingKey) == 0 {
		return "", errNoSigningKey
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OperatorID: a.ID,
		Username:   a.Username,
	})
	return token.SignedString(s.signingKey)
}

func validateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLen || strings.ContainsAny(username, " \t\r\n") {
		return "", ErrInvalidUsername
	}
	return username, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
