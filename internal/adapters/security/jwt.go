package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
	"github.com/bizdesk/auth-service/internal/ports"
)

// JWTSigner implements HS256 token signing and parsing.
// The secret is held at adapter level so the application layer stays
// crypto-library agnostic.
type JWTSigner struct {
	secret []byte
}

// NewJWTSigner builds a signer from the configured shared secret.
func NewJWTSigner(secret string) (*JWTSigner, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTSigner{secret: []byte(secret)}, nil
}

// NewEphemeralJWTSigner generates a random in-memory secret for local/dev
// use. Tokens become worthless on restart, which is acceptable outside
// production and gets a loud warning at startup.
func NewEphemeralJWTSigner() *JWTSigner {
	raw := make([]byte, 32)
	_, _ = rand.Read(raw)
	slog.Default().Warn("using ephemeral jwt secret, tokens will not survive a restart",
		"module", "security",
		"layer", "adapter",
		"operation", "new_jwt_signer",
		"outcome", "warning",
	)
	return &JWTSigner{secret: []byte(hex.EncodeToString(raw))}
}

type authJWTClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) Sign(claims ports.AuthClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authJWTClaims{
		UserID:   claims.UserID.String(),
		Username: claims.Username,
		Role:     claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	return token.SignedString(s.secret)
}

// ParseAndValidate maps verification failures onto the two domain sentinels
// the guard distinguishes: expired versus everything else.
func (s *JWTSigner) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &authJWTClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.AuthClaims{}, domain.ErrTokenExpired
		}
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*authJWTClaims)
	if !ok || !parsed.Valid {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}

	out := ports.AuthClaims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
