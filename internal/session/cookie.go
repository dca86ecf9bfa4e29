package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// CookieName é o nome do cookie que carrega a sessão
const CookieName = "painel_sessao"

const keyInfo = "painel-operadoras/session-cookie"

var ErrInvalidCookie = errors.New("cookie de sessão inválido")

// Codec assina e valida o identificador de sessão guardado no cookie.
// A chave de assinatura é derivada de SECRET_KEY.
type Codec struct {
	key []byte
	ttl time.Duration
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("erro ao derivar chave da sessão: %w", err)
	}

	return &Codec{key: key, ttl: ttl}, nil
}

// Encode gera o token assinado para a sessão
func (c *Codec) Encode(id string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Decode valida o token e devolve o identificador da sessão
func (c *Codec) Decode(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidCookie
	}

	return claims.Subject, nil
}
