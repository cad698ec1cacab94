package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Identity is who a token was issued to.
type Identity struct {
	UserID    string
	Superuser bool
}

// GenerateToken signs an HS256 token for userID valid for ttl.
func GenerateToken(secret, userID string, ttl time.Duration) (string, error) {
	return GenerateIdentityToken(secret, Identity{UserID: userID}, ttl)
}

// GenerateIdentityToken signs an HS256 token carrying the full identity.
func GenerateIdentityToken(secret string, id Identity, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id.UserID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if id.Superuser {
		claims["is_superuser"] = true
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns its user id. Numeric ids, as
// issued by the task API, are returned in decimal form.
func ParseToken(secret, tokenStr string) (string, error) {
	id, err := ParseIdentity(secret, tokenStr)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}

// ParseIdentity validates the token and returns the user id and the
// is_superuser flag.
func ParseIdentity(secret, tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidClaims
	}

	superuser, _ := claims["is_superuser"].(bool)
	switch id := claims["user_id"].(type) {
	case string:
		if id != "" {
			return Identity{UserID: id, Superuser: superuser}, nil
		}
	case float64:
		return Identity{UserID: strconv.FormatFloat(id, 'f', -1, 64), Superuser: superuser}, nil
	}
	return Identity{}, ErrInvalidClaims
}
