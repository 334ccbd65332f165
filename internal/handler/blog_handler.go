package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devfromfinland/backend-blog/internal/blog"
	"github.com/devfromfinland/backend-blog/internal/middleware"
	"github.com/devfromfinland/backend-blog/internal/model"
)

// BlogServiceInterface はブログハンドラーが必要とするサービスインターフェース。
type BlogServiceInterface interface {
	// List は全ブログを所有者のプロジェクション付きで返す。
	List(ctx context.Context) ([]model.BlogWithOwner, error)
	// GetByID は指定IDのブログを所有者のプロジェクション付きで返す。
	GetByID(ctx context.Context, id string) (*model.BlogWithOwner, error)
	// Create はブログを作成し、所有者を認証済みユーザーに設定する。
	Create(ctx context.Context, userID string, input blog.Input) (*model.Blog, error)
	// Update は指定IDのブログを部分更新する。所有者のみ実行できる。
	Update(ctx context.Context, userID, id string, input blog.Input) (*model.Blog, error)
	// Delete は指定IDのブログを削除する。所有者のみ実行できる。
	Delete(ctx context.Context, userID, id string) error
	// Stats は全ブログの集計統計を返す。
	Stats(ctx context.Context) (*blog.Stats, error)
}

// BlogHandler はブログ管理のHTTPハンドラー。
type BlogHandler struct {
	service BlogServiceInterface
}

// NewBlogHandler はBlogHandlerを生成する。
func NewBlogHandler(service BlogServiceInterface) *BlogHandler {
	return &BlogHandler{
		service: service,
	}
}

// blogRequest はブログ作成・更新リクエストのボディ。
// 省略されたフィールドはGoのゼロ値になり、サービス層で「未指定」として扱われる。
type blogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

// ownerResponse は所有者プロジェクションのAPIレスポンス。
// パスワードハッシュは含まない。
type ownerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// blogResponse はブログ一覧・詳細のAPIレスポンス。所有者を展開する。
type blogResponse struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Author string        `json:"author"`
	URL    string        `json:"url"`
	Likes  int           `json:"likes"`
	User   ownerResponse `json:"user"`
}

// mutatedBlogResponse は作成・更新のAPIレスポンス。
// 所有者は展開せずID参照のまま返す。
type mutatedBlogResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	User   string `json:"user"`
}

// List はブログ一覧を取得する。認可不要。
// GET /api/blogs
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result := make([]blogResponse, 0, len(blogs))
	for i := range blogs {
		result = append(result, toBlogResponse(&blogs[i]))
	}

	writeJSON(w, http.StatusOK, result)
}

// Get はブログ詳細を取得する。認可不要。
// GET /api/blogs/:id
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBlogResponse(b))
}

// Create はブログを作成する。有効なトークンが必要。
// POST /api/blogs
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "token missing or invalid")
		return
	}

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.service.Create(r.Context(), userID, blog.Input{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMutatedBlogResponse(b))
}

// Update はブログを部分更新する。所有者のトークンが必要。
// PUT /api/blogs/:id
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "token missing or invalid")
		return
	}

	id := chi.URLParam(r, "id")

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.service.Update(r.Context(), userID, id, blog.Input{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMutatedBlogResponse(b))
}

// Delete はブログを削除する。所有者のトークンが必要。
// 存在しないレコードの削除は成功として204を返す。
// DELETE /api/blogs/:id
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "token missing or invalid")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// statsResponse はブログ集計統計のAPIレスポンス。
type statsResponse struct {
	Count      int             `json:"count"`
	TotalLikes int             `json:"totalLikes"`
	Favorite   *favoriteEntry  `json:"favorite"`
	MostBlogs  *mostBlogsEntry `json:"mostBlogs"`
	MostLikes  *mostLikesEntry `json:"mostLikes"`
}

type favoriteEntry struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type mostBlogsEntry struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type mostLikesEntry struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// Stats はブログ全体の集計統計を取得する。認可不要。
// GET /api/blogs/stats
func (h *BlogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := statsResponse{
		Count:      stats.Count,
		TotalLikes: stats.TotalLikes,
	}
	if stats.Favorite != nil {
		resp.Favorite = &favoriteEntry{
			Title:  stats.Favorite.Title,
			Author: stats.Favorite.Author,
			Likes:  stats.Favorite.Likes,
		}
	}
	if stats.MostBlogs != nil {
		resp.MostBlogs = &mostBlogsEntry{
			Author: stats.MostBlogs.Author,
			Blogs:  stats.MostBlogs.Blogs,
		}
	}
	if stats.MostLikes != nil {
		resp.MostLikes = &mostLikesEntry{
			Author: stats.MostLikes.Author,
			Likes:  stats.MostLikes.Likes,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- ヘルパー関数 ---

// toBlogResponse はmodel.BlogWithOwnerからAPIレスポンスに変換する。
func toBlogResponse(b *model.BlogWithOwner) blogResponse {
	return blogResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
		User: ownerResponse{
			ID:       b.Owner.ID,
			Username: b.Owner.Username,
			Name:     b.Owner.Name,
		},
	}
}

// toMutatedBlogResponse はmodel.Blogから作成・更新レスポンスに変換する。
func toMutatedBlogResponse(b *model.Blog) mutatedBlogResponse {
	return mutatedBlogResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
		User:   b.UserID,
	}
}
