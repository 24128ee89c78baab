package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/campman/internal/model"
)

// SignupServiceInterface は申込ハンドラーが必要とするサービスインターフェース。
type SignupServiceInterface interface {
	// List は全申込をアクティビティと参加者付きで返す。
	List(ctx context.Context) ([]*model.Signup, error)
	// Get は申込をアクティビティと参加者付きで返す。
	Get(ctx context.Context, id int64) (*model.Signup, error)
	// Create は申込を作成し、アクティビティと参加者付きで返す。
	Create(ctx context.Context, fields model.SignupFields) (*model.Signup, error)
	// Update は指定されたフィールドだけを申込に反映する。
	Update(ctx context.Context, id int64, fields model.SignupFields) (*model.Signup, error)
}

// SignupHandler は申込管理のHTTPハンドラー。
// レスポンスには常にアクティビティと参加者を含め、それぞれの申込一覧は除外する。
type SignupHandler struct {
	service SignupServiceInterface
}

// NewSignupHandler はSignupHandlerを生成する。
func NewSignupHandler(service SignupServiceInterface) *SignupHandler {
	return &SignupHandler{service: service}
}

// ListSignups は申込一覧を返す。
// GET /signups
func (h *SignupHandler) ListSignups(w http.ResponseWriter, r *http.Request) {
	signups, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SerializeAll(signups))
}

// CreateSignup は申込を作成する。
// POST /signups
func (h *SignupHandler) CreateSignup(w http.ResponseWriter, r *http.Request) {
	var fields model.SignupFields
	if err := decodeFields(w, r, &fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	signup, err := h.service.Create(r.Context(), fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.Serialize(signup))
}

// GetSignup は申込を返す。
// GET /signups/{id}
func (h *SignupHandler) GetSignup(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "Signup")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	signup, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Serialize(signup))
}

// UpdateSignup は指定されたフィールドだけを更新する。
// PATCH /signups/{id}
func (h *SignupHandler) UpdateSignup(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "Signup")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var fields model.SignupFields
	if err := decodeFields(w, r, &fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	signup, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, model.Serialize(signup))
}
