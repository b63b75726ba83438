package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/pkg/apperror"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

const (
	issuer   = "clinic-api"
	audience = "clinic-web"

	AccessTokenTTL        = 5 * time.Minute
	RefreshTokenTTL       = 24 * time.Hour
	RememberMeRefreshTTL  = 15 * 24 * time.Hour
	VerificationCookieTTL = 10 * time.Minute
)

// Profile is the identity snapshot embedded in every token
type Profile struct {
	ID          uuid.UUID `json:"id"`
	RoleID      uuid.UUID `json:"role_id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
}

// Claims is the full, typed claim set. Claims are a struct rather than a
// generic map so callers never type-assert claim values.
type Claims struct {
	jwt.RegisteredClaims
	Roles   []model.Role `json:"roles"`
	Profile Profile      `json:"profile"`
	Type    TokenType    `json:"type"`
}

type claimsKey struct{}

// WithClaims attaches verified access-token claims to the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	return claims
}

// JWTService signs and verifies tokens
type JWTService interface {
	GenerateTokenPair(user *model.User, rememberMe bool) (*model.TokenPair, string, error)
	GenerateAccessToken(claims *Claims) (string, error)
	ParseToken(token string, want TokenType) (*Claims, error)
}

type jwtService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func NewJWTService(privateKey *rsa.PrivateKey) JWTService {
	return &jwtService{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
	}
}

// GenerateTokenPair issues an access and a refresh token for the user and
// returns the refresh token's jti, which the caller persists to keep a
// single refresh session active.
func (s *jwtService) GenerateTokenPair(user *model.User, rememberMe bool) (*model.TokenPair, string, error) {
	now := time.Now()

	profile := Profile{
		ID:          user.ID,
		RoleID:      user.RoleID,
		Name:        user.Name,
		DateOfBirth: user.DateOfBirth,
	}

	access, err := s.sign(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
		Roles:   user.Roles,
		Profile: profile,
		Type:    TokenTypeAccess,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshTTL := RefreshTokenTTL
	if rememberMe {
		refreshTTL = RememberMeRefreshTTL
	}

	jti := uuid.New().String()
	refresh, err := s.sign(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTTL)),
			ID:        jti,
		},
		Roles:   user.Roles,
		Profile: profile,
		Type:    TokenTypeRefresh,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, jti, nil
}

// GenerateAccessToken issues a fresh access token from existing refresh
// claims; the refresh token itself is never rotated here.
func (s *jwtService) GenerateAccessToken(claims *Claims) (string, error) {
	now := time.Now()
	return s.sign(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
		Roles:   claims.Roles,
		Profile: claims.Profile,
		Type:    TokenTypeAccess,
	})
}

// ParseToken verifies signature, expiry, issuer, audience and token type
func (s *jwtService) ParseToken(token string, want TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.publicKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperror.Unauthorized("invalid token", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperror.Unauthorized("invalid token claims", nil)
	}

	if claims.Type != want {
		return nil, apperror.Unauthorized("wrong token type", nil)
	}

	return claims, nil
}

func (s *jwtService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
}
