package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/devfromfinland/backend-blog/internal/blog"
	"github.com/devfromfinland/backend-blog/internal/middleware"
	"github.com/devfromfinland/backend-blog/internal/model"
)

// --- テストヘルパー ---

// withUserID はリクエストコンテキストに認証済みユーザーIDを注入する。
func withUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

// withURLParam はchiのルートパラメータをリクエストに注入する。
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("body is not JSON: %v\nraw: %s", err, w.Body.String())
	}
}

// --- モック定義 ---

// mockBlogService はBlogServiceInterfaceのモック実装。
type mockBlogService struct {
	listFn    func(ctx context.Context) ([]model.BlogWithOwner, error)
	getByIDFn func(ctx context.Context, id string) (*model.BlogWithOwner, error)
	createFn  func(ctx context.Context, userID string, input blog.Input) (*model.Blog, error)
	updateFn  func(ctx context.Context, userID, id string, input blog.Input) (*model.Blog, error)
	deleteFn  func(ctx context.Context, userID, id string) error
	statsFn   func(ctx context.Context) (*blog.Stats, error)
}

func (m *mockBlogService) List(ctx context.Context) ([]model.BlogWithOwner, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockBlogService) GetByID(ctx context.Context, id string) (*model.BlogWithOwner, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.NewBlogNotFoundError()
}
func (m *mockBlogService) Create(ctx context.Context, userID string, input blog.Input) (*model.Blog, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, input)
	}
	return nil, nil
}
func (m *mockBlogService) Update(ctx context.Context, userID, id string, input blog.Input) (*model.Blog, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, input)
	}
	return nil, nil
}
func (m *mockBlogService) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}
func (m *mockBlogService) Stats(ctx context.Context) (*blog.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &blog.Stats{}, nil
}

// --- GET /api/blogs テスト ---

func TestBlogHandler_List_ExpandsOwner(t *testing.T) {
	svc := &mockBlogService{
		listFn: func(ctx context.Context) ([]model.BlogWithOwner, error) {
			return []model.BlogWithOwner{
				{
					Blog: model.Blog{ID: "b1", Title: "first", Author: "Rob", URL: "https://example.com/1", Likes: 7, UserID: "u1"},
					Owner: model.UserRef{
						ID: "u1", Username: "rob", Name: "Rob Pike",
					},
				},
			}, nil
		},
	}
	h := NewBlogHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body []map[string]any
	decodeBody(t, w, &body)
	if len(body) != 1 {
		t.Fatalf("len(body) = %d, want 1", len(body))
	}

	user, ok := body[0]["user"].(map[string]any)
	if !ok {
		t.Fatalf("user field = %v, want expanded object", body[0]["user"])
	}
	if user["username"] != "rob" {
		t.Errorf("user.username = %v, want rob", user["username"])
	}
	if _, exists := user["passwordHash"]; exists {
		t.Error("response must not expose password hash")
	}
}

func TestBlogHandler_List_EmptyStoreReturnsEmptyArray(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

// --- GET /api/blogs/:id テスト ---

func TestBlogHandler_Get_MalformedID_Returns400(t *testing.T) {
	svc := &mockBlogService{
		getByIDFn: func(ctx context.Context, id string) (*model.BlogWithOwner, error) {
			return nil, model.NewInvalidIDError()
		},
	}
	h := NewBlogHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/xyz", nil), "id", "xyz")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] != "malformed id" {
		t.Errorf("error = %q, want %q", body["error"], "malformed id")
	}
}

func TestBlogHandler_Get_NotFound_Returns404(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/b1", nil), "id", "b1")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- POST /api/blogs テスト ---

func TestBlogHandler_Create_Success(t *testing.T) {
	svc := &mockBlogService{
		createFn: func(ctx context.Context, userID string, input blog.Input) (*model.Blog, error) {
			if userID != "u1" {
				t.Errorf("userID = %q, want u1", userID)
			}
			return &model.Blog{
				ID: "b1", Title: input.Title, Author: input.Author,
				URL: input.URL, Likes: input.Likes, UserID: userID,
			}, nil
		},
	}
	h := NewBlogHandler(svc)

	payload := `{"title":"Go blog","author":"Rob","url":"https://example.com/go","likes":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(payload))
	req = withUserID(req, "u1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	// 作成レスポンスではuserはID参照のまま返す
	var body map[string]any
	decodeBody(t, w, &body)
	if body["user"] != "u1" {
		t.Errorf("user = %v, want raw id string u1", body["user"])
	}
	if body["title"] != "Go blog" {
		t.Errorf("title = %v, want Go blog", body["title"])
	}
}

func TestBlogHandler_Create_NoUserID_Returns401(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestBlogHandler_Create_InvalidJSON_Returns400(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader("not json"))
	req = withUserID(req, "u1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestBlogHandler_Create_ValidationError_Returns400(t *testing.T) {
	svc := &mockBlogService{
		createFn: func(ctx context.Context, userID string, input blog.Input) (*model.Blog, error) {
			return nil, model.NewFieldValidationError("title", "required")
		},
	}
	h := NewBlogHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(`{"url":"https://example.com/x"}`))
	req = withUserID(req, "u1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] != "title: required" {
		t.Errorf("error = %q, want %q", body["error"], "title: required")
	}
}

// --- PUT /api/blogs/:id テスト ---

func TestBlogHandler_Update_Success(t *testing.T) {
	svc := &mockBlogService{
		updateFn: func(ctx context.Context, userID, id string, input blog.Input) (*model.Blog, error) {
			if id != "b1" {
				t.Errorf("id = %q, want b1", id)
			}
			return &model.Blog{ID: id, Title: "updated", URL: "https://example.com/1", Likes: input.Likes, UserID: userID}, nil
		},
	}
	h := NewBlogHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/blogs/b1", strings.NewReader(`{"likes":42}`))
	req = withUserID(withURLParam(req, "id", "b1"), "u1")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	decodeBody(t, w, &body)
	if body["likes"] != float64(42) {
		t.Errorf("likes = %v, want 42", body["likes"])
	}
	if body["user"] != "u1" {
		t.Errorf("user = %v, want raw id string u1", body["user"])
	}
}

func TestBlogHandler_Update_NonOwner_Returns401(t *testing.T) {
	svc := &mockBlogService{
		updateFn: func(ctx context.Context, userID, id string, input blog.Input) (*model.Blog, error) {
			return nil, model.NewUnauthorizedError("unauthorized")
		},
	}
	h := NewBlogHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/blogs/b1", strings.NewReader(`{"likes":1}`))
	req = withUserID(withURLParam(req, "id", "b1"), "u2")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- DELETE /api/blogs/:id テスト ---

func TestBlogHandler_Delete_Returns204(t *testing.T) {
	deleteCalled := false
	svc := &mockBlogService{
		deleteFn: func(ctx context.Context, userID, id string) error {
			deleteCalled = true
			return nil
		},
	}
	h := NewBlogHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/b1", nil)
	req = withUserID(withURLParam(req, "id", "b1"), "u1")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if !deleteCalled {
		t.Error("expected service Delete to be called")
	}
}

func TestBlogHandler_Delete_MalformedID_Returns400(t *testing.T) {
	svc := &mockBlogService{
		deleteFn: func(ctx context.Context, userID, id string) error {
			return model.NewInvalidIDError()
		},
	}
	h := NewBlogHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/xyz", nil)
	req = withUserID(withURLParam(req, "id", "xyz"), "u1")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// --- GET /api/blogs/stats テスト ---

func TestBlogHandler_Stats(t *testing.T) {
	svc := &mockBlogService{
		statsFn: func(ctx context.Context) (*blog.Stats, error) {
			return &blog.Stats{
				Count:      2,
				TotalLikes: 12,
				Favorite:   &blog.FavoriteEntry{Title: "top", Author: "Rob", Likes: 10},
				MostBlogs:  &blog.AuthorBlogCount{Author: "Rob", Blogs: 2},
				MostLikes:  &blog.AuthorLikes{Author: "Rob", Likes: 10},
			}, nil
		},
	}
	h := NewBlogHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs/stats", nil)
	w := httptest.NewRecorder()

	h.Stats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	decodeBody(t, w, &body)
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}
	if body["totalLikes"] != float64(12) {
		t.Errorf("totalLikes = %v, want 12", body["totalLikes"])
	}
	fav, ok := body["favorite"].(map[string]any)
	if !ok || fav["title"] != "top" {
		t.Errorf("favorite = %v, want object with title top", body["favorite"])
	}
}

func TestBlogHandler_Stats_EmptyStore_NullEntries(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodGet, "/api/blogs/stats", nil)
	w := httptest.NewRecorder()

	h.Stats(w, req)

	var body map[string]any
	decodeBody(t, w, &body)
	if body["favorite"] != nil {
		t.Errorf("favorite = %v, want null", body["favorite"])
	}
}
