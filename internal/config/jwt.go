package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GameClaims authorize moves in one game session.
type GameClaims struct {
	GameSessionId int64 `json:"game_session_id"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

type jwtEnv struct {
	Secret        string        `env:"JWT_SECRET"`
	SecretFile    string        `env:"JWT_SECRET_FILE"`
	TokenLifetime time.Duration `env:"JWT_TOKEN_LIFETIME" envDefault:"24h"`
}

func NewJWT() (*JWT, error) {
	var e jwtEnv
	if err := ParseEnv(&e); err != nil {
		return nil, err
	}
	secret := []byte(e.Secret)
	if len(secret) == 0 {
		if e.SecretFile == "" {
			return nil, fmt.Errorf("no JWT_SECRET or JWT_SECRET_FILE env variable set")
		}
		b, err := os.ReadFile(e.SecretFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read JWT secret: %w", err)
		}
		secret = b
	}
	return NewJWTWithSecret(secret, e.TokenLifetime), nil
}

func NewJWTWithSecret(secret []byte, lifetime time.Duration) *JWT {
	return &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
	}
}

func (j *JWT) Sign(gameSessionId int64) (string, error) {
	now := time.Now()
	claims := GameClaims{
		GameSessionId: gameSessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(gameSessionId, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) Parse(tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&GameClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*GameClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
