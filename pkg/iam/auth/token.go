package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talentgrid/ctms/pkg/iam/user"
	"github.com/talentgrid/ctms/pkg/kernel"
)

const tokenTTL = 24 * time.Hour

// RevocationStore remembers token IDs that were logged out before expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthContext is the identity the middleware resolves from a valid token.
type AuthContext struct {
	UserID  kernel.UserID
	Role    user.Role
	TokenID string
	Expires time.Time
}

func (a *AuthContext) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

type TokenService struct {
	secret      []byte
	revocations RevocationStore
}

func NewTokenService(secret string, revocations RevocationStore) *TokenService {
	return &TokenService{secret: []byte(secret), revocations: revocations}
}

// GenerateToken signs a 24h HS256 token carrying the user's id and role.
func (s *TokenService) GenerateToken(u *user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID.String(),
		Role:   u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token and checks it against the
// revocation store.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*AuthContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken()
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken()
	}

	role := user.Role(claims.Role)
	if !role.IsValid() {
		return nil, ErrInvalidToken()
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked()
		}
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	return &AuthContext{
		UserID:  kernel.NewUserID(claims.UserID),
		Role:    role,
		TokenID: claims.ID,
		Expires: expires,
	}, nil
}

// RevokeToken blacklists the token until its natural expiry.
func (s *TokenService) RevokeToken(ctx context.Context, authCtx *AuthContext) error {
	if s.revocations == nil || authCtx.TokenID == "" {
		return nil
	}
	ttl := time.Until(authCtx.Expires)
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, authCtx.TokenID, ttl)
}
