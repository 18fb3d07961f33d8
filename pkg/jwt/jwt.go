package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims 身份声明，sub为外部认证方的用户标识
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Manager JWT管理器，负责身份令牌的签发与校验
type Manager struct {
	secretKey     string
	tokenDuration time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secretKey string, tokenDuration time.Duration) *Manager {
	return &Manager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
	}
}

// GenerateToken 签发身份令牌（供开发与测试环境使用）
func (m *Manager) GenerateToken(sub, email, name string) (string, error) {
	claims := IdentityClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "kusystem",
			Subject:   sub,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// VerifyToken 校验身份令牌
func (m *Manager) VerifyToken(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&IdentityClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected token signing method")
			}
			return []byte(m.secretKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}

	return claims, nil
}
