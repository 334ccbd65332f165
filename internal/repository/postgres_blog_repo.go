package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/devfromfinland/backend-blog/internal/model"
)

// PostgresBlogRepo はPostgreSQLを使用したブログリポジトリ。
type PostgresBlogRepo struct {
	db *sql.DB
}

// NewPostgresBlogRepo はPostgresBlogRepoを生成する。
func NewPostgresBlogRepo(db *sql.DB) *PostgresBlogRepo {
	return &PostgresBlogRepo{db: db}
}

// Create はブログを作成する。
// user_idの外部キーにより、ブログの挿入と所有者への逆参照の追加は
// 単一の原子的な書き込みになる（二段階書き込みの不整合ウィンドウは存在しない）。
// urlのユニークインデックスに違反した場合はErrDuplicateURLを返す。
func (r *PostgresBlogRepo) Create(ctx context.Context, blog *model.Blog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blogs (id, title, author, url, likes, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		blog.ID, blog.Title, blog.Author, blog.URL, blog.Likes, blog.UserID, blog.CreatedAt, blog.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateURL
	}
	if err != nil {
		return fmt.Errorf("failed to insert blog: %w", err)
	}
	return nil
}

// FindByID は指定IDのブログを取得する。見つからない場合はnilを返す。
func (r *PostgresBlogRepo) FindByID(ctx context.Context, id string) (*model.Blog, error) {
	blog := &model.Blog{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, author, url, likes, user_id, created_at, updated_at
		 FROM blogs WHERE id = $1`,
		id,
	).Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find blog by ID: %w", err)
	}

	return blog, nil
}

// FindByIDWithOwner は指定IDのブログを所有者情報付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresBlogRepo) FindByIDWithOwner(ctx context.Context, id string) (*model.BlogWithOwner, error) {
	b := &model.BlogWithOwner{}
	err := r.db.QueryRowContext(ctx,
		`SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at, b.updated_at,
		        u.id, u.username, u.name
		 FROM blogs b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.id = $1`,
		id,
	).Scan(
		&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
		&b.Owner.ID, &b.Owner.Username, &b.Owner.Name,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find blog with owner: %w", err)
	}

	return b, nil
}

// ListWithOwner は全ブログを所有者情報付きで作成順に返す。
func (r *PostgresBlogRepo) ListWithOwner(ctx context.Context) ([]model.BlogWithOwner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at, b.updated_at,
		        u.id, u.username, u.name
		 FROM blogs b
		 JOIN users u ON u.id = b.user_id
		 ORDER BY b.created_at, b.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	var result []model.BlogWithOwner
	for rows.Next() {
		var b model.BlogWithOwner
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
			&b.Owner.ID, &b.Owner.Username, &b.Owner.Name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan blog row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog rows: %w", err)
	}

	return result, nil
}

// Update はブログの可変フィールドを上書き更新する。
// urlのユニークインデックスに違反した場合はErrDuplicateURLを返す。
func (r *PostgresBlogRepo) Update(ctx context.Context, blog *model.Blog) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE blogs
		 SET title = $2, author = $3, url = $4, likes = $5, updated_at = $6
		 WHERE id = $1`,
		blog.ID, blog.Title, blog.Author, blog.URL, blog.Likes, blog.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateURL
	}
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return nil
}

// Delete は指定IDのブログを削除する。
// レコードが存在しない場合もエラーにしない（削除は冪等）。
// user_idの逆参照は行ごと消えるため、所有者のブログ一覧からも同時に外れる。
func (r *PostgresBlogRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM blogs WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return nil
}

// ListIDsByUserID は指定ユーザーが所有するブログのIDを作成順に返す。
func (r *PostgresBlogRepo) ListIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM blogs WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog IDs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan blog ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog ID rows: %w", err)
	}

	return ids, nil
}

// compile-time interface check
var _ BlogRepository = (*PostgresBlogRepo)(nil)
