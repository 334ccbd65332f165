package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devfromfinland/backend-blog/internal/middleware"
	"github.com/devfromfinland/backend-blog/internal/model"
	"github.com/devfromfinland/backend-blog/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register はユーザーを登録する。パスワードはハッシュ化して保存される。
	Register(ctx context.Context, input user.RegisterInput) (*model.User, error)
	// List は全ユーザーを所有ブログのプロジェクション付きで返す。
	List(ctx context.Context) ([]model.UserWithBlogs, error)
	// FindByUsername は指定usernameのユーザーを所有ブログID一覧付きで返す。
	// 見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*user.UserWithBlogIDs, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// blogRefResponse はユーザー側から見た所有ブログのAPIレスポンス。
type blogRefResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// userResponse はユーザー一覧・登録のAPIレスポンス。
// パスワードハッシュは決して含めない。
type userResponse struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Name     string            `json:"name"`
	Blogs    []blogRefResponse `json:"blogs"`
}

// userWithBlogIDsResponse はusername検索のAPIレスポンス。
// ブログは展開せずID参照のまま返す。
type userWithBlogIDsResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Blogs    []string `json:"blogs"`
}

// Register はユーザー登録を処理する。認可不要。
// POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "content missing")
		return
	}

	u, err := h.service.Register(r.Context(), user.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Blogs:    []blogRefResponse{},
	})
}

// List はユーザー一覧を取得する。認可不要。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result := make([]userResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByUsername はusernameでユーザーを検索する。認可不要。
// 一致したユーザー（0件または1件）の配列を返す。
// GET /api/users/:username
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	u, err := h.service.FindByUsername(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result := []userWithBlogIDsResponse{}
	if u != nil {
		result = append(result, userWithBlogIDsResponse{
			ID:       u.User.ID,
			Username: u.User.Username,
			Name:     u.User.Name,
			Blogs:    u.BlogIDs,
		})
	}

	writeJSON(w, http.StatusOK, result)
}

// toUserResponse はmodel.UserWithBlogsからAPIレスポンスに変換する。
func toUserResponse(u *model.UserWithBlogs) userResponse {
	blogs := make([]blogRefResponse, 0, len(u.Blogs))
	for _, b := range u.Blogs {
		blogs = append(blogs, blogRefResponse{
			ID:     b.ID,
			Title:  b.Title,
			Author: b.Author,
			URL:    b.URL,
		})
	}
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Blogs:    blogs,
	}
}
