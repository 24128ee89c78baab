package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate はフィールド単位の検証に使用する共有バリデータ。スレッドセーフ。
var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldRule はフィールドに適用する検証タグとエラーメッセージの組。
type fieldRule struct {
	entity  string
	field   string
	tag     string
	message string
}

// 代入時に評価されるフィールド制約
var (
	ruleCamperName = fieldRule{
		entity:  "Camper",
		field:   "name",
		tag:     "required",
		message: "name must be present and non-empty",
	}
	ruleCamperAge = fieldRule{
		entity:  "Camper",
		field:   "age",
		tag:     "gte=8,lte=18",
		message: "age must be between 8 and 18",
	}
	ruleSignupTime = fieldRule{
		entity:  "Signup",
		field:   "time",
		tag:     "gte=0,lte=23",
		message: "time must be between 0 and 23",
	}
	ruleSignupActivityID = fieldRule{
		entity:  "Signup",
		field:   "activity_id",
		tag:     "gt=0",
		message: "activity_id must reference an activity",
	}
	ruleSignupCamperID = fieldRule{
		entity:  "Signup",
		field:   "camper_id",
		tag:     "gt=0",
		message: "camper_id must reference a camper",
	}
)

// check は値がルールを満たすか検証し、違反時は*FieldErrorを返す。
func (r fieldRule) check(value any) error {
	if err := validate.Var(value, r.tag); err != nil {
		return &FieldError{
			Entity:  r.entity,
			Field:   r.field,
			Value:   value,
			Rule:    r.tag,
			Message: r.message,
		}
	}
	return nil
}

// required はキー欠落またはnull指定時の*FieldErrorを返す。
func (r fieldRule) required() error {
	return &FieldError{
		Entity:  r.entity,
		Field:   r.field,
		Rule:    "required",
		Message: fmt.Sprintf("%s is required", r.field),
	}
}

// FieldError は1フィールドの制約違反を表す。
type FieldError struct {
	Entity  string
	Field   string
	Value   any
	Rule    string
	Message string
}

// Error はerrorインターフェースを実装する。
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Message)
}

// ValidationErrors は複数フィールドの制約違反をまとめたもの。
type ValidationErrors []*FieldError

// Error はerrorインターフェースを実装する。
func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// collect は非nilのエラーだけを集めて返す。違反がなければnilを返す。
func collect(errs ...error) error {
	var out ValidationErrors
	for _, err := range errs {
		if err == nil {
			continue
		}
		if fe, ok := err.(*FieldError); ok {
			out = append(out, fe)
			continue
		}
		if list, ok := err.(ValidationErrors); ok {
			out = append(out, list...)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
