package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/campman/internal/middleware"
	"github.com/hitoshi/campman/internal/model"
)

// --- モック ---

type mockCamperService struct {
	listFn   func(ctx context.Context) ([]*model.Camper, error)
	getFn    func(ctx context.Context, id int64) (*model.Camper, error)
	createFn func(ctx context.Context, fields model.CamperFields) (*model.Camper, error)
	updateFn func(ctx context.Context, id int64, fields model.CamperFields) (*model.Camper, error)
}

func (m *mockCamperService) List(ctx context.Context) ([]*model.Camper, error) {
	return m.listFn(ctx)
}
func (m *mockCamperService) Get(ctx context.Context, id int64) (*model.Camper, error) {
	return m.getFn(ctx, id)
}
func (m *mockCamperService) Create(ctx context.Context, fields model.CamperFields) (*model.Camper, error) {
	return m.createFn(ctx, fields)
}
func (m *mockCamperService) Update(ctx context.Context, id int64, fields model.CamperFields) (*model.Camper, error) {
	return m.updateFn(ctx, id, fields)
}

type mockActivityService struct {
	listFn   func(ctx context.Context) ([]*model.Activity, error)
	getFn    func(ctx context.Context, id int64) (*model.Activity, error)
	createFn func(ctx context.Context, fields model.ActivityFields) (*model.Activity, error)
	updateFn func(ctx context.Context, id int64, fields model.ActivityFields) (*model.Activity, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockActivityService) List(ctx context.Context) ([]*model.Activity, error) {
	return m.listFn(ctx)
}
func (m *mockActivityService) Get(ctx context.Context, id int64) (*model.Activity, error) {
	return m.getFn(ctx, id)
}
func (m *mockActivityService) Create(ctx context.Context, fields model.ActivityFields) (*model.Activity, error) {
	return m.createFn(ctx, fields)
}
func (m *mockActivityService) Update(ctx context.Context, id int64, fields model.ActivityFields) (*model.Activity, error) {
	return m.updateFn(ctx, id, fields)
}
func (m *mockActivityService) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type mockSignupService struct {
	listFn   func(ctx context.Context) ([]*model.Signup, error)
	getFn    func(ctx context.Context, id int64) (*model.Signup, error)
	createFn func(ctx context.Context, fields model.SignupFields) (*model.Signup, error)
	updateFn func(ctx context.Context, id int64, fields model.SignupFields) (*model.Signup, error)
}

func (m *mockSignupService) List(ctx context.Context) ([]*model.Signup, error) {
	return m.listFn(ctx)
}
func (m *mockSignupService) Get(ctx context.Context, id int64) (*model.Signup, error) {
	return m.getFn(ctx, id)
}
func (m *mockSignupService) Create(ctx context.Context, fields model.SignupFields) (*model.Signup, error) {
	return m.createFn(ctx, fields)
}
func (m *mockSignupService) Update(ctx context.Context, id int64, fields model.SignupFields) (*model.Signup, error) {
	return m.updateFn(ctx, id, fields)
}

// --- ヘルパー ---

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// jsonRequest はJSONボディ付きのリクエストを生成する。
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var result middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// parseObject はレスポンスボディをJSONオブジェクトとしてパースするヘルパー。
func parseObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

func mustCamper(t *testing.T, id int64, name string, age int) *model.Camper {
	t.Helper()
	c, err := model.LoadCamper(id, name, age)
	if err != nil {
		t.Fatalf("LoadCamper() error = %v", err)
	}
	return c
}

func mustSignup(t *testing.T, id, camperID, activityID int64, hour int) *model.Signup {
	t.Helper()
	s, err := model.LoadSignup(id, camperID, activityID, hour)
	if err != nil {
		t.Fatalf("LoadSignup() error = %v", err)
	}
	return s
}
