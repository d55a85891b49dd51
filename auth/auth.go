package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var ErrInvalidToken = errors.New("invalid or expired session token")

// Identity is the resolved output of the session collaborator. The rest
// of the system trusts these fields and never touches cookies, passwords
// or session stores.
type Identity struct {
	UserID      int
	Role        string
	DisplayName string
}

// Resolver turns an opaque session token into an Identity.
type Resolver interface {
	Resolve(token string) (*Identity, error)
}

type sessionClaims struct {
	UserID      int    `json:"uid"`
	Role        string `json:"role"`
	DisplayName string `json:"name"`
	jwt.StandardClaims
}

// JWTResolver resolves HMAC-signed session tokens issued by IssueToken.
type JWTResolver struct {
	Secret []byte
}

func (r *JWTResolver) Resolve(token string) (*Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleStudent && claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:      claims.UserID,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
	}, nil
}

// IssueToken signs a session token for the given identity. The login
// flow that verifies credentials lives outside this service; it only
// needs the same secret to mint compatible tokens.
func IssueToken(secret []byte, identity *Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		UserID:      identity.UserID,
		Role:        identity.Role,
		DisplayName: identity.DisplayName,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
