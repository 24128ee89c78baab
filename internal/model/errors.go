// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrorKind はAPIErrorの種別を表す。ハンドラーは種別からHTTPステータスを決定する。
type ErrorKind string

const (
	// KindNotFound は主キー検索で対象が見つからなかったことを示す。
	KindNotFound ErrorKind = "not_found"
	// KindValidation はフィールド制約違反を示す。
	KindValidation ErrorKind = "validation"
	// KindMalformedRequest は必須キーの欠落や型不一致など、リクエスト自体の不備を示す。
	KindMalformedRequest ErrorKind = "malformed_request"
	// KindPersistence はストア側で検出された制約違反を示す。
	KindPersistence ErrorKind = "persistence"
)

// 定義済みエラーコード
const (
	ErrCodeCamperNotFound      = "CAMPER_NOT_FOUND"
	ErrCodeActivityNotFound    = "ACTIVITY_NOT_FOUND"
	ErrCodeSignupNotFound      = "SIGNUP_NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeMalformedRequest    = "INVALID_REQUEST"
	ErrCodeInvalidReference    = "INVALID_REFERENCE"
	ErrCodeConstraintViolation = "CONSTRAINT_VIOLATION"
	ErrCodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeRouteNotFound       = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// APIError は統一エラーフォーマットを表す。
// Errorsにはクライアントが機械的に扱えるメッセージ一覧を格納する。
type APIError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Errors  []string
	Err     error
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は元のエラーを返す。
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError はリソース未検出エラーを生成する。
func NewNotFoundError(resource string, id int64) *APIError {
	code := ErrCodeCamperNotFound
	switch resource {
	case "Activity":
		code = ErrCodeActivityNotFound
	case "Signup":
		code = ErrCodeSignupNotFound
	}
	msg := fmt.Sprintf("%s not found", resource)
	return &APIError{
		Kind:    KindNotFound,
		Code:    code,
		Message: msg,
		Errors:  []string{fmt.Sprintf("%s %d does not exist", resource, id)},
	}
}

// NewValidationError はフィールド検証エラーからAPIErrorを生成する。
// errにはValidationErrorsまたは*FieldErrorを渡す。
func NewValidationError(err error) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Code:    ErrCodeValidation,
		Message: "validation errors",
		Errors:  validationMessages(err),
		Err:     err,
	}
}

// NewMalformedRequestError はリクエストボディの不備を表すエラーを生成する。
func NewMalformedRequestError(reason string, err error) *APIError {
	return &APIError{
		Kind:    KindMalformedRequest,
		Code:    ErrCodeMalformedRequest,
		Message: "malformed request",
		Errors:  []string{reason},
		Err:     err,
	}
}

// NewInvalidReferenceError は外部キー制約違反を表すエラーを生成する。
func NewInvalidReferenceError(detail string, err error) *APIError {
	return &APIError{
		Kind:    KindPersistence,
		Code:    ErrCodeInvalidReference,
		Message: "referenced record does not exist",
		Errors:  []string{detail},
		Err:     err,
	}
}

// NewConstraintViolationError はストア側のCHECK/NOT NULL制約違反を表すエラーを生成する。
func NewConstraintViolationError(detail string, err error) *APIError {
	return &APIError{
		Kind:    KindPersistence,
		Code:    ErrCodeConstraintViolation,
		Message: "constraint violation",
		Errors:  []string{detail},
		Err:     err,
	}
}

// IsKind はerrのチェーンに指定種別のAPIErrorが含まれるかを返す。
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

func validationMessages(err error) []string {
	var list ValidationErrors
	if errors.As(err, &list) {
		msgs := make([]string, len(list))
		for i, fe := range list {
			msgs[i] = fe.Message
		}
		return msgs
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return []string{fe.Message}
	}
	if err != nil {
		return []string{err.Error()}
	}
	return nil
}
