package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/devfromfinland/backend-blog/internal/model"
)

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = "23505"

// isUniqueViolation は一意性制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Create はユーザーを作成する。
// usernameのユニークインデックスに違反した場合はErrDuplicateUsernameを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, name, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByUsername は指定usernameのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, name, password_hash, created_at, updated_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return user, nil
}

// ListWithBlogs は全ユーザーを所有ブログのプロジェクション付きで返す。
// LEFT JOINでブログを持たないユーザーも含める。ブログは作成順に並ぶ。
func (r *PostgresUserRepo) ListWithBlogs(ctx context.Context) ([]model.UserWithBlogs, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.username, u.name, u.password_hash, u.created_at, u.updated_at,
		        b.id, b.title, b.author, b.url
		 FROM users u
		 LEFT JOIN blogs b ON b.user_id = u.id
		 ORDER BY u.created_at, u.id, b.created_at, b.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var result []model.UserWithBlogs
	index := make(map[string]int)

	for rows.Next() {
		var u model.User
		var blogID, blogTitle, blogAuthor, blogURL sql.NullString
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
			&blogID, &blogTitle, &blogAuthor, &blogURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}

		i, ok := index[u.ID]
		if !ok {
			result = append(result, model.UserWithBlogs{User: u, Blogs: []model.BlogRef{}})
			i = len(result) - 1
			index[u.ID] = i
		}

		if blogID.Valid {
			result[i].Blogs = append(result[i].Blogs, model.BlogRef{
				ID:     blogID.String,
				Title:  blogTitle.String,
				Author: blogAuthor.String,
				URL:    blogURL.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return result, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
