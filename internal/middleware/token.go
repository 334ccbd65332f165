// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// bearerPrefix はAuthorizationヘッダーのスキーム。大文字小文字は区別しない。
const bearerPrefix = "bearer "

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// NewTokenMiddleware はAuthorizationヘッダーのbearerトークンを検証し、
// 認証済みユーザーIDをリクエストコンテキストに注入するミドルウェアを返す。
// トークンが欠落・不正・署名不一致のいずれでも同じ401を返す。
func NewTokenMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := verifier.Verify(BearerToken(r))
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "token missing or invalid")
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken はAuthorizationヘッダーからbearerトークンを取り出す。
// ヘッダーが無い、またはスキームがbearerでない場合は空文字を返す。
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if len(authz) > len(bearerPrefix) && strings.EqualFold(authz[:len(bearerPrefix)], bearerPrefix) {
		return authz[len(bearerPrefix):]
	}
	return ""
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// トークンミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
