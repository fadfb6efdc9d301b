package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var JWTSecret []byte

// SetJWTSecret must be called at startup before any token is issued or parsed.
func SetJWTSecret(secret string) {
	JWTSecret = []byte(secret)
}

// Staff roles carried in kitchen and billing tokens.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleChef  = "chef"
)

// Keys under which the auth middlewares store token claims on the gin context.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxBranchID = "branch_id"
)

type CustomClaims struct {
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	BranchID uint   `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(userID uint, role string, branchID uint, ttl time.Duration) (string, error) {
	if len(JWTSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := time.Now()
	claims := &CustomClaims{
		UserID:   userID,
		Role:     role,
		BranchID: branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "HelloDine",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	if len(JWTSecret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return JWTSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
