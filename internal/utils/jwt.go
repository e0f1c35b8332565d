package utils // package utils provides helpers for token creation and hashing

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every local verification failure: malformed input,
// wrong signature, unexpected algorithm, expired token, bad claims. Callers
// deliberately cannot distinguish these cases.
var ErrTokenInvalid = errors.New("invalid or expired token")

// AccessToken is a signed JWT plus its expiry, returned to clients on
// signup, login and password reset.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenClaims is the identity snapshot embedded in an access token. The
// role is frozen at issuance; a server-side role change does not reach
// outstanding tokens until they expire.
type TokenClaims struct {
	UserID uint64
	Role   string
}

// NewAccessToken signs an HS256 JWT carrying the user id (sub), role, expiry
// and issued-at. ttlMin controls the lifetime in minutes.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, errors.New("jwt secret is not configured")
	}
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken performs the local half of credential verification:
// signature, algorithm and expiry checks with no I/O. The caller is expected
// to follow up with a live user-existence check.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrTokenInvalid
	}
	sub, ok := claims["sub"].(float64) // numeric claims decode as float64
	if !ok || sub <= 0 {
		return TokenClaims{}, ErrTokenInvalid
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return TokenClaims{}, ErrTokenInvalid
	}
	return TokenClaims{UserID: uint64(sub), Role: role}, nil
}

// RandomHex returns a hex string built from n bytes of cryptographically
// secure random data. Used for password-reset tokens.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
