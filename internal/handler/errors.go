package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/campman/internal/middleware"
	"github.com/hitoshi/campman/internal/model"
)

// maxBodyBytes はリクエストボディの上限サイズ。
const maxBodyBytes = 1 << 20

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode >= http.StatusInternalServerError {
			logInternalError(r, err)
		}
		middleware.WriteErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	logInternalError(r, err)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorの種別からHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindValidation, model.KindMalformedRequest, model.KindPersistence:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func logInternalError(r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)
}

// decodeFields はリクエストボディを許可リストの構造体にデコードする。
// 不正なJSON、オブジェクト以外の値(nullを含む)、型の不一致、許可リスト外のキーは
// MalformedRequestエラーになる。
func decodeFields(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return model.NewMalformedRequestError(decodeErrorReason(err), err)
	}
	if dec.More() {
		return model.NewMalformedRequestError("request body must contain a single JSON object", nil)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return model.NewMalformedRequestError("request body must be a JSON object", nil)
	}

	fields := json.NewDecoder(bytes.NewReader(raw))
	fields.DisallowUnknownFields()
	if err := fields.Decode(dst); err != nil {
		return model.NewMalformedRequestError(decodeErrorReason(err), err)
	}
	return nil
}

func decodeErrorReason(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "request body must be a JSON object"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)
		}
		return "request body must be a JSON object"
	case errors.As(err, &maxErr):
		return fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit)
	default:
		// DisallowUnknownFields のエラーは専用の型を持たない
		return err.Error()
	}
}

// parseID はURLパラメータ {id} を解釈する。ルートパターンで数字に制限しているため、
// 失敗するのは桁あふれの場合のみで、その場合は対象が存在しないものとして扱う。
func parseID(r *http.Request, resource string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.APIError{
			Kind:    model.KindNotFound,
			Code:    notFoundCode(resource),
			Message: resource + " not found",
			Errors:  []string{fmt.Sprintf("%s %s does not exist", resource, raw)},
		}
	}
	return id, nil
}

func notFoundCode(resource string) string {
	return model.NewNotFoundError(resource, 0).Code
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
