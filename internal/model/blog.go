package model

import "time"

// Blog はブログ記事レコードを表す。
// URLは全レコードで一意。UserIDは所有者への参照で、一度設定されたら
// その所有者のみが更新・削除できる。
type Blog struct {
	ID        string
	Title     string
	Author    string
	URL       string
	Likes     int
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlogWithOwner はブログと所有者情報を結合した読み取り用プロジェクション。
// 一覧・詳細取得のレスポンスで使用する。
type BlogWithOwner struct {
	Blog
	Owner UserRef
}

// BlogRef はユーザー側から見た所有ブログの読み取り専用プロジェクション。
type BlogRef struct {
	ID     string
	Title  string
	Author string
	URL    string
}

// UserWithBlogs はユーザーと所有ブログ一覧を結合した読み取り用プロジェクション。
// ブログは作成順に並ぶ。
type UserWithBlogs struct {
	User
	Blogs []BlogRef
}
