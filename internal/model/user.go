// Package model はドメインモデルを定義する。
package model

import "time"

// User はブログの所有者となる登録ユーザーを表す。
// PasswordHashは外部に一切シリアライズしない（プロジェクション側で除外する）。
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef はブログ側から見た所有者の読み取り専用プロジェクション。
// パスワードハッシュと所有ブログリストを含まない。
type UserRef struct {
	ID       string
	Username string
	Name     string
}

// Ref はUserから所有者プロジェクションを生成する。
func (u *User) Ref() UserRef {
	return UserRef{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}
