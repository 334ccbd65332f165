// Package blog はブログ記事の作成・参照・更新・削除のドメインロジックを提供する。
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/devfromfinland/backend-blog/internal/model"
	"github.com/devfromfinland/backend-blog/internal/repository"
)

// titleとurlの最小文字数。
const (
	minTitleLen = 2
	minURLLen   = 8
)

// MutationGate は変更操作の認可判定インターフェース。
type MutationGate interface {
	// AuthorizeMutation は認証済みユーザーが対象リソースを変更できるか判定する。
	AuthorizeMutation(userID, resourceOwnerID string) error
}

// Service はブログ管理のサービス層。
// フィールド検証と所有権チェックを行い、永続化はリポジトリに委譲する。
type Service struct {
	blogRepo repository.BlogRepository
	gate     MutationGate
}

// NewService はServiceを生成する。
func NewService(blogRepo repository.BlogRepository, gate MutationGate) *Service {
	return &Service{
		blogRepo: blogRepo,
		gate:     gate,
	}
}

// Input はブログ作成・更新のリクエスト内容を表す。
// ゼロ値のフィールドは「未指定」として扱う（likes: 0 と likes未指定は
// 区別されない。この方針は意図的に維持している — 更新でlikesを0に
// 戻すことはできない）。
type Input struct {
	Title  string
	Author string
	URL    string
	Likes  int
}

// List は全ブログを所有者のプロジェクション付きで返す。認可不要。
func (s *Service) List(ctx context.Context) ([]model.BlogWithOwner, error) {
	blogs, err := s.blogRepo.ListWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, nil
}

// GetByID は指定IDのブログを所有者のプロジェクション付きで返す。認可不要。
// idの構文が不正な場合はInvalidId、正しい形式でレコードが無い場合はNotFoundを返す。
func (s *Service) GetByID(ctx context.Context, id string) (*model.BlogWithOwner, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewInvalidIDError()
	}

	b, err := s.blogRepo.FindByIDWithOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	if b == nil {
		return nil, model.NewBlogNotFoundError()
	}

	return b, nil
}

// Create はブログを作成する。所有者は認証済みユーザーに設定される
// （所有権は作成行為で確立されるため、既存リソースとの照合は行わない）。
// likesが未指定の場合は0になる。
func (s *Service) Create(ctx context.Context, userID string, input Input) (*model.Blog, error) {
	if err := validate(input.Title, input.URL); err != nil {
		return nil, err
	}

	now := time.Now()
	b := &model.Blog{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Author:    input.Author,
		URL:       input.URL,
		Likes:     input.Likes,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.blogRepo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateURL) {
			return nil, model.NewFieldValidationError("url", "must be unique")
		}
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	slog.Info("blog created",
		slog.String("blog_id", b.ID),
		slog.String("user_id", userID),
	)

	return b, nil
}

// Update は指定IDのブログを部分更新する。
// 所有者のみが更新でき、所有者不一致はトークン不正と同じUnauthorizedになる。
// ゼロ値でないフィールドのみ上書きし、マージ結果を作成時と同じルールで再検証する。
func (s *Service) Update(ctx context.Context, userID, id string, input Input) (*model.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewInvalidIDError()
	}

	b, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find blog for update: %w", err)
	}
	if b == nil {
		return nil, model.NewBlogNotFoundError()
	}

	if err := s.gate.AuthorizeMutation(userID, b.UserID); err != nil {
		return nil, err
	}

	// ゼロ値のフィールドは変更しない
	if input.Title != "" {
		b.Title = input.Title
	}
	if input.Author != "" {
		b.Author = input.Author
	}
	if input.URL != "" {
		b.URL = input.URL
	}
	if input.Likes != 0 {
		b.Likes = input.Likes
	}

	if err := validate(b.Title, b.URL); err != nil {
		return nil, err
	}

	b.UpdatedAt = time.Now()

	if err := s.blogRepo.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateURL) {
			return nil, model.NewFieldValidationError("url", "must be unique")
		}
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}

	return b, nil
}

// Delete は指定IDのブログを削除する。所有者のみが削除できる。
// 正しい形式のidでレコードが存在しない場合は成功（no-op）として扱う。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewInvalidIDError()
	}

	b, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find blog for delete: %w", err)
	}
	if b == nil {
		// 存在しないレコードの削除は冪等に成功扱い
		return nil
	}

	if err := s.gate.AuthorizeMutation(userID, b.UserID); err != nil {
		return err
	}

	if err := s.blogRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	slog.Info("blog deleted",
		slog.String("blog_id", id),
		slog.String("user_id", userID),
	)

	return nil
}

// validate は作成時・更新後マージ結果の共通フィールド検証。
func validate(title, url string) error {
	if title == "" {
		return model.NewFieldValidationError("title", "required")
	}
	if utf8.RuneCountInString(title) < minTitleLen {
		return model.NewFieldValidationError("title", "shorter than the minimum allowed length")
	}
	if url == "" {
		return model.NewFieldValidationError("url", "required")
	}
	if utf8.RuneCountInString(url) < minURLLen {
		return model.NewFieldValidationError("url", "shorter than the minimum allowed length")
	}
	return nil
}
