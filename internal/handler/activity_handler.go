package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/campman/internal/model"
)

// ActivityServiceInterface はアクティビティハンドラーが必要とするサービスインターフェース。
type ActivityServiceInterface interface {
	// List は全アクティビティを返す。
	List(ctx context.Context) ([]*model.Activity, error)
	// Get はアクティビティを返す。
	Get(ctx context.Context, id int64) (*model.Activity, error)
	// Create はアクティビティを作成する。
	Create(ctx context.Context, fields model.ActivityFields) (*model.Activity, error)
	// Update は指定されたフィールドだけをアクティビティに反映する。
	Update(ctx context.Context, id int64, fields model.ActivityFields) (*model.Activity, error)
	// Delete はアクティビティと、それを参照する申込を削除する。
	Delete(ctx context.Context, id int64) error
}

// ActivityHandler はアクティビティ管理のHTTPハンドラー。
type ActivityHandler struct {
	service ActivityServiceInterface
}

// NewActivityHandler はActivityHandlerを生成する。
func NewActivityHandler(service ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// ListActivities はアクティビティ一覧を返す。申込は含めない。
// GET /activities
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SerializeAll(activities, "-signups"))
}

// CreateActivity はアクティビティを作成する。
// POST /activities
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var fields model.ActivityFields
	if err := decodeFields(w, r, &fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	activity, err := h.service.Create(r.Context(), fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.Serialize(activity, "-signups"))
}

// GetActivity はアクティビティを申込（各申込の参加者付き）とともに返す。
// GET /activities/{id}
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "Activity")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	activity, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Serialize(activity))
}

// UpdateActivity は指定されたフィールドだけを更新する。
// PATCH /activities/{id}
func (h *ActivityHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "Activity")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var fields model.ActivityFields
	if err := decodeFields(w, r, &fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	activity, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, model.Serialize(activity, "-signups"))
}

// DeleteActivity はアクティビティとその申込を削除する。
// DELETE /activities/{id}
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "Activity")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
