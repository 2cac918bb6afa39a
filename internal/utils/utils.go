package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/roamly/roamly-backend/internal/config"
)

// GenerateJWT generates a signed bearer token for a user
func GenerateJWT(userID string, email string, isAdmin bool, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"email":   email,
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT validates a bearer token and returns its claims
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
