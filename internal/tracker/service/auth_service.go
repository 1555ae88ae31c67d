package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/javaconnection/furnitrack/internal/config"
	"github.com/javaconnection/furnitrack/internal/middleware"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService 认证服务。单管理员账号，密码以bcrypt哈希保存在配置中。
type AuthService struct {
	cfg *config.Config
	now func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg, now: time.Now}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      string    `json:"user"`
}

// Login 校验凭证并签发访问令牌
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	if req.Username != s.cfg.Auth.AdminUser {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expire := s.cfg.JWT.AccessTokenExpire
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	expiresAt := s.now().Add(expire)

	claims := middleware.JWTClaims{
		User: req.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      req.Username,
	}, nil
}
