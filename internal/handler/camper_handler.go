package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/campman/internal/model"
)

// CamperServiceInterface は参加者ハンドラーが必要とするサービスインターフェース。
type CamperServiceInterface interface {
	// List は全参加者を返す。
	List(ctx context.Context) ([]*model.Camper, error)
	// Get は参加者を申込一覧とともに返す。
	Get(ctx context.Context, id int64) (*model.Camper, error)
	// Create は参加者を作成する。
	Create(ctx context.Context, fields model.CamperFields) (*model.Camper, error)
	// Update は指定されたフィールドだけを参加者に反映する。
	Update(ctx context.Context, id int64, fields model.CamperFields) (*model.Camper, error)
}

// CamperHandler は参加者管理のHTTPハンドラー。
type CamperHandler struct {
	service CamperServiceInterface
}

// NewCamperHandler はCamperHandlerを生成する。
func NewCamperHandler(service CamperServiceInterface) *CamperHandler {
	return &CamperHandler{service: service}
}

// ListCampers は参加者一覧を返す。申込は含めない。
// GET /campers
func (h *CamperHandler) ListCampers(w http.ResponseWriter, r *http.Request) {
	campers, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SerializeAll(campers, "-signups"))
}

// CreateCamper は参加者を作成する。
// POST /campers
func (h *CamperHandler) CreateCamper(w http.ResponseWriter, r *http.Request) {
	var fields model.CamperFields
	if err := decodeFields(w, r, &fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	camper, err := h.service.Create(r.Context(), fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.Serialize(camper, "-signups"))
}

// GetCamper は参加者を申込（各申込のアクティビティ付き）とともに返す。
// GET /campers/{id}
func (h *CamperHandler) GetCamper(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "Camper")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	camper, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Serialize(camper))
}

// UpdateCamper は指定されたフィールドだけを更新する。
// PATCH /campers/{id}
func (h *CamperHandler) UpdateCamper(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "Camper")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var fields model.CamperFields
	if err := decodeFields(w, r, &fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	camper, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, model.Serialize(camper, "-signups"))
}
