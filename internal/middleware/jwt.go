package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer identifies this service in the "iss" claim.
const TokenIssuer = "Rentopedia"

// IssueToken signs an HS256 session token carrying the user id as the
// subject plus the username claim the domain logic keys on.
func IssueToken(secret []byte, userID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iss":      TokenIssuer,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken checks signature, expiry and issuer, and returns the
// (userID, username) pair the token was issued for.
func ValidateToken(tokenString string, secret []byte) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", "", errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return "", "", jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok || iss != TokenIssuer {
		return "", "", errors.New("invalid token issuer")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("missing subject claim")
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", "", errors.New("missing username claim")
	}
	return sub, username, nil
}
