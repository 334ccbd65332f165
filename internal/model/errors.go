// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// ハンドラー層でHTTPステータスコードにマッピングされる。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアントに返すエラーメッセージ
	Category string // カテゴリ: auth, validation, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidID    = "INVALID_ID"
	ErrCodeBlogNotFound = "BLOG_NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// NewValidationError はフィールド検証エラーを生成する。
// messageはそのままレスポンスボディに載るため、違反したフィールドと
// ルールを特定できる形式（例: "url: must be unique"）にする。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewFieldValidationError は "<field>: <rule>" 形式の検証エラーを生成する。
func NewFieldValidationError(field, rule string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("%s: %s", field, rule),
		Category: "validation",
	}
}

// NewInvalidIDError は識別子の構文が不正な場合のエラーを生成する。
// 「正しい形式だがレコードが存在しない」(NotFound)とは区別する。
func NewInvalidIDError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  "malformed id",
		Category: "validation",
	}
}

// NewBlogNotFoundError はブログが見つからない場合のエラーを生成する。
func NewBlogNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeBlogNotFound,
		Message:  "blog not found",
		Category: "validation",
	}
}

// NewUnauthorizedError は認証・認可エラーを生成する。
// トークン不正と所有者不一致を区別しない（情報漏洩を防ぐため、
// どちらも同一のkindで401にマッピングされる）。
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  message,
		Category: "auth",
	}
}
