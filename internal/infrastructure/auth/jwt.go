package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/config"
)

// TokenType distinguishes access from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
)

// Claims are the StudyReuse token claims. Refresh tokens omit the email.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string      `json:"user_id"`
	Email        string      `json:"email,omitempty"`
	Role         shared.Role `json:"role"`
	TokenType    TokenType   `json:"token_type"`
	RefreshCount int         `json:"refresh_count,omitempty"`
}

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// tokenKind bundles what differs between access and refresh tokens
type tokenKind struct {
	typ    TokenType
	secret []byte
	ttl    time.Duration
}

// JWTService signs and verifies HS256 tokens
type JWTService struct {
	access          tokenKind
	refresh         tokenKind
	issuer          string
	maxRefreshCount int
	parser          *jwt.Parser
}

// NewJWTService builds the service. The refresh secret falls back to the
// access secret when unset.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer), jwt.WithAudience(cfg.Issuer))
	}

	return &JWTService{
		access:          tokenKind{typ: TokenTypeAccess, secret: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
		refresh:         tokenKind{typ: TokenTypeRefresh, secret: []byte(refreshSecret), ttl: cfg.RefreshTokenExpiration},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
		parser:          jwt.NewParser(opts...),
	}
}

// GenerateTokenInput identifies the user a pair is issued for
type GenerateTokenInput struct {
	UserID uuid.UUID
	Email  string
	Role   shared.Role
}

// GenerateTokenPair issues a fresh access/refresh pair
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	return s.issue(input, 0)
}

func (s *JWTService) issue(input GenerateTokenInput, refreshCount int) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := s.sign(s.access, now, Claims{
		UserID: input.UserID.String(),
		Email:  input.Email,
		Role:   input.Role,
	}, input.UserID)
	if err != nil {
		return nil, err
	}

	// the role is reloaded from the user record on refresh
	refreshToken, err := s.sign(s.refresh, now, Claims{
		UserID:       input.UserID.String(),
		Role:         input.Role,
		RefreshCount: refreshCount,
	}, input.UserID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.access.ttl),
		RefreshTokenExpiresAt: now.Add(s.refresh.ttl),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(kind tokenKind, now time.Time, claims Claims, subject uuid.UUID) (string, error) {
	claims.TokenType = kind.typ
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(kind.ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	if s.issuer != "" {
		claims.Audience = jwt.ClaimStrings{s.issuer}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(kind.secret)
}

// ValidateAccessToken verifies an access token
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.verify(token, s.access)
}

// ValidateRefreshToken verifies a refresh token
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.verify(token, s.refresh)
}

func (s *JWTService) verify(raw string, kind tokenKind) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return kind.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.TokenType != kind.typ {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" || !claims.Role.IsValid() {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// RefreshTokenPair rotates a refresh token. The caller passes the user's
// current email and role so a demotion applies to the new pair.
func (s *JWTService) RefreshTokenPair(refreshToken, email string, role shared.Role) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrMaxRefreshExceeded
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrInvalidClaims
	}
	return s.issue(GenerateTokenInput{UserID: userID, Email: email, Role: role}, claims.RefreshCount+1)
}

// RefreshTTL is how long a refresh token stays valid, which bounds how long
// a user-wide revocation must be remembered
func (s *JWTService) RefreshTTL() time.Duration {
	return s.refresh.ttl
}

func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// Actor builds the acting identity carried by the token
func (c *Claims) Actor() (shared.Actor, error) {
	id, err := c.UserUUID()
	if err != nil {
		return shared.Actor{}, ErrInvalidClaims
	}
	return shared.NewActor(id, c.Role), nil
}

func (c *Claims) IsAdmin() bool {
	return c.Role == shared.RoleAdmin
}

// IssuedAtTime is the zero time when the claim is absent
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// RemainingTTL is never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
