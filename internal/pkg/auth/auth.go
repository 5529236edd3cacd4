package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrEmptyKey = errors.New("signing key is empty")

// Auth signs and verifies the session token carried in the cookie.
type Auth struct {
	Key    []byte
	Method jwt.SigningMethod
}

type User struct {
	ID   string
	Name string
}

type Claims struct {
	jwt.StandardClaims
	User User
}

func NewAuth(key []byte) (Auth, error) {
	if len(key) == 0 {
		return Auth{}, ErrEmptyKey
	}
	return Auth{
		Key:    key,
		Method: jwt.SigningMethodHS256,
	}, nil
}

// GetSignedToken returns the signed token and its unique id (jti).
func (a Auth) GetSignedToken(user User, issuedAt time.Time, ttl time.Duration) (string, string, error) {
	claims := Claims{
		User: user,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(a.Method, claims)

	str, err := token.SignedString(a.Key)
	if err != nil {
		return "", "", fmt.Errorf("could not sign token: %w", err)
	}
	return str, claims.StandardClaims.Id, nil
}

func (a Auth) ExtractClaims(tokenStr string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unsupported signing method %v", token.Header["alg"])
		}
		return a.Key, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("could not parse token: %w", err)
	}
	if !token.Valid {
		return Claims{}, errors.New("token is not valid")
	}
	if claims.User.ID == "" || claims.Id == "" {
		return Claims{}, errors.New("token has no subject")
	}
	return claims, nil
}
