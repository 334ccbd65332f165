// Package auth はユーザー認証（ログイン・トークン検証）と
// 変更操作の認可判定を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/devfromfinland/backend-blog/internal/model"
	"github.com/devfromfinland/backend-blog/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	TokenSecret string        // トークン署名用シークレット
	TokenMaxAge time.Duration // トークン有効期間。0の場合は無期限
}

// Service は認証に関するビジネスロジックを提供する。
// トークンは永続化せず、署名シークレットからリクエストごとに検証する。
type Service struct {
	userRepo repository.UserRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		config:   config,
	}
}

// LoginResult はログイン成功時のレスポンス内容を表す。
type LoginResult struct {
	Token    string
	Username string
	Name     string
}

// tokenClaims は署名トークンに埋め込むクレーム。
// 認証済みユーザーのIDと表示用usernameのみを持つ。
type tokenClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login はusername/passwordを検証し、署名トークンを発行する。
// ユーザーが存在しない場合もパスワードが一致しない場合も、
// レスポンスの形を変えず同一のUnauthorizedを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for login: %w", err)
	}

	if user == nil {
		return nil, model.NewUnauthorizedError("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewUnauthorizedError("invalid username or password")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return &LoginResult{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// Verify はトークン文字列を検証し、認証済みユーザーIDを返す。
// トークンが空・不正・署名不一致・期限切れのいずれでも
// Unauthorized以外のエラーは返さない。
func (s *Service) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", model.NewUnauthorizedError("token missing or invalid")
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return "", model.NewUnauthorizedError("token missing or invalid")
	}

	return claims.ID, nil
}

// signToken はユーザーIDとusernameを埋め込んだHMAC署名トークンを生成する。
func (s *Service) signToken(user *model.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		ID:       user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.config.TokenMaxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.config.TokenMaxAge))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}
