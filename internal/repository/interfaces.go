// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/devfromfinland/backend-blog/internal/model"
)

// 一意性制約違反を表すセンチネルエラー。
// 制約はストア層のユニークインデックスで保証し、チェック後書き込みの
// 競合でも必ずこのエラーに変換される。
var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateURL      = errors.New("duplicate url")
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// usernameが既存の場合はErrDuplicateUsernameを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername は指定usernameのユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// ListWithBlogs は全ユーザーを所有ブログのプロジェクション付きで返す。
	// ブログは作成順に並ぶ。
	ListWithBlogs(ctx context.Context) ([]model.UserWithBlogs, error)
}

// BlogRepository はブログデータの永続化インターフェース。
type BlogRepository interface {
	// Create はブログを作成する。
	// urlが既存の場合はErrDuplicateURLを返す。
	Create(ctx context.Context, blog *model.Blog) error

	// FindByID は指定IDのブログを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Blog, error)

	// FindByIDWithOwner は指定IDのブログを所有者情報付きで取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithOwner(ctx context.Context, id string) (*model.BlogWithOwner, error)

	// ListWithOwner は全ブログを所有者情報付きで作成順に返す。
	ListWithOwner(ctx context.Context) ([]model.BlogWithOwner, error)

	// Update はブログの可変フィールド（title, author, url, likes）を上書き更新する。
	// urlが他レコードと衝突する場合はErrDuplicateURLを返す。
	Update(ctx context.Context, blog *model.Blog) error

	// Delete は指定IDのブログを削除する。レコードが存在しない場合もエラーにしない。
	Delete(ctx context.Context, id string) error

	// ListIDsByUserID は指定ユーザーが所有するブログのIDを作成順に返す。
	ListIDsByUserID(ctx context.Context, userID string) ([]string, error)
}
