package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenExpireHours = 24

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService 校验（以及开发环境签发）Bearer Token
type TokenService struct {
	cfg   config.JWTConfig
	store *repository.Store
}

// NewTokenService 创建 Token 服务
func NewTokenService(cfg config.JWTConfig, store *repository.Store) *TokenService {
	return &TokenService{cfg: cfg, store: store}
}

// Issue 为用户签发 Token（供 seed 工具生成开发 Token）
func (s *TokenService) Issue(user *models.User) (string, time.Time, error) {
	if strings.TrimSpace(s.cfg.SecretKey) == "" {
		return "", time.Time{}, ErrTokenInvalid
	}
	hours := s.cfg.ExpireHours
	if hours <= 0 {
		hours = defaultTokenExpireHours
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse 解析并校验 Token 签名与有效期
func (s *TokenService) Parse(tokenString string) (*UserJWTClaims, error) {
	if strings.TrimSpace(s.cfg.SecretKey) == "" {
		return nil, ErrTokenInvalid
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	if !token.Valid || strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate 解析 Token 并确认用户仍存在且启用，角色以用户表为准
func (s *TokenService) Authenticate(ctx context.Context, tokenString string) (Identity, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return Identity{}, err
	}
	state, err := s.loadAuthState(ctx, claims.UserID)
	if err != nil {
		return Identity{}, err
	}
	if !state.IsActive {
		return Identity{}, ErrUserDisabled
	}
	return Identity{UserID: state.UserID, Role: state.Role}, nil
}

func (s *TokenService) loadAuthState(ctx context.Context, userID string) (*cache.UserAuthState, error) {
	state, hit, err := cache.GetUserAuthState(ctx, userID)
	if err != nil {
		logger.Warnw("auth_state_cache_get_failed", "user_id", userID, "error", err)
	}
	if hit && state != nil {
		return state, nil
	}
	user, err := s.store.WithContext(ctx).Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	state = cache.BuildUserAuthState(user)
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.Warnw("auth_state_cache_set_failed", "user_id", userID, "error", err)
	}
	return state, nil
}
