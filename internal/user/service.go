// Package user はユーザー登録・参照のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devfromfinland/backend-blog/internal/model"
	"github.com/devfromfinland/backend-blog/internal/repository"
)

// usernameとpasswordの最小文字数。
const (
	minUsernameLen = 3
	minPasswordLen = 3
)

// bcryptCost はパスワードハッシュの計算コスト。
const bcryptCost = 10

// BlogIDLister は所有ブログID一覧の取得インターフェース。
// repository.BlogRepositoryの部分集合として定義する。
type BlogIDLister interface {
	ListIDsByUserID(ctx context.Context, userID string) ([]string, error)
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo   repository.UserRepository
	blogLister BlogIDLister
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, blogLister BlogIDLister) *Service {
	return &Service{
		userRepo:   userRepo,
		blogLister: blogLister,
	}
}

// RegisterInput はユーザー登録のリクエスト内容を表す。
type RegisterInput struct {
	Username string
	Name     string
	Password string
}

// Register はユーザーを登録する。
// 検証順序: 必須チェック → パスワード長 → username長 → username一意性。
// 一意性はストア層のユニークインデックスで保証され、競合時も
// ValidationErrorに変換される。パスワードはbcryptでハッシュ化して保存し、
// ハッシュはレスポンスに含めない。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, model.NewValidationError("content missing")
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLen {
		return nil, model.NewValidationError("password is shorter than the minimum allowed length")
	}
	if utf8.RuneCountInString(input.Username) < minUsernameLen {
		return nil, model.NewFieldValidationError("username", "shorter than the minimum allowed length")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// nameが省略された場合はusernameを表示名にする
	name := input.Name
	if name == "" {
		name = input.Username
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, model.NewFieldValidationError("username", "must be unique")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// List は全ユーザーを所有ブログのプロジェクション付きで返す。
func (s *Service) List(ctx context.Context) ([]model.UserWithBlogs, error) {
	users, err := s.userRepo.ListWithBlogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UserWithBlogIDs はusername検索結果のプロジェクション。
// ブログは展開せずID参照のまま返す。
type UserWithBlogIDs struct {
	User    model.User
	BlogIDs []string
}

// FindByUsername は指定usernameのユーザーを所有ブログID一覧付きで返す。
// 見つからない場合はnilを返す（エラーにしない）。
func (s *Service) FindByUsername(ctx context.Context, username string) (*UserWithBlogIDs, error) {
	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	if u == nil {
		return nil, nil
	}

	ids, err := s.blogLister.ListIDsByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog IDs for user: %w", err)
	}

	return &UserWithBlogIDs{User: *u, BlogIDs: ids}, nil
}
