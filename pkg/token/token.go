package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"userhub/config"
)

const (
	// TokenTTL Token有效期（1小时）
	TokenTTL = time.Hour
)

// ErrEmptySecret 签名密钥缺失
//
// 属于启动时配置错误，不是请求级可恢复错误。
var ErrEmptySecret = errors.New("token签名密钥缺失")

// Claims Token载荷
//
// 只编码 id 和 username 两个业务字段，外加标准的签发/过期时间。
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer Token签发器
type Issuer struct {
	secret []byte
}

// NewIssuer 创建Token签发器
//
// 密钥来自配置（环境变量 SECRET_KEY），缺失时返回 ErrEmptySecret。
func NewIssuer(cfg *config.Config) (*Issuer, error) {
	if cfg.Auth.Secret == "" {
		return nil, ErrEmptySecret
	}
	return &Issuer{secret: []byte(cfg.Auth.Secret)}, nil
}

// Issue 为用户签发Token
func (i *Issuer) Issue(id, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:       id,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("签发Token失败: %w", err)
	}
	return signed, nil
}
