package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/devfromfinland/backend-blog/internal/auth"
	"github.com/devfromfinland/backend-blog/internal/middleware"
)

// AuthServiceInterface はログインハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login はusername/passwordを検証し、署名トークンを発行する。
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
}

// LoginHandler はログインのHTTPハンドラー。
type LoginHandler struct {
	service AuthServiceInterface
}

// NewLoginHandler はLoginHandlerを生成する。
func NewLoginHandler(service AuthServiceInterface) *LoginHandler {
	return &LoginHandler{
		service: service,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のAPIレスポンス。
type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Login はログインを処理する。
// 認証失敗の理由（ユーザー不在かパスワード不一致か）は区別せず401を返す。
// POST /api/login
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		Username: result.Username,
		Name:     result.Name,
	})
}
