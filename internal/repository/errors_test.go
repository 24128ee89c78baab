package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"

	"github.com/hitoshi/campman/internal/model"
)

func TestRepos_ImplementInterfaces(t *testing.T) {
	var _ CamperRepository = (*PostgresCamperRepo)(nil)
	var _ ActivityRepository = (*PostgresActivityRepo)(nil)
	var _ SignupRepository = (*PostgresSignupRepo)(nil)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantText string
	}{
		{
			name: "foreign key violation",
			err: &pq.Error{
				Code:       pqForeignKeyViolation,
				Table:      "signups",
				Constraint: "signups_activity_id_fkey",
			},
			wantCode: model.ErrCodeInvalidReference,
			wantText: "signups violates signups_activity_id_fkey",
		},
		{
			name: "check violation",
			err: &pq.Error{
				Code:       pqCheckViolation,
				Table:      "campers",
				Constraint: "campers_age_check",
			},
			wantCode: model.ErrCodeConstraintViolation,
			wantText: "campers violates campers_age_check",
		},
		{
			name: "not null violation without constraint name",
			err: &pq.Error{
				Code:    pqNotNullViolation,
				Message: `null value in column "name" violates not-null constraint`,
			},
			wantCode: model.ErrCodeConstraintViolation,
			wantText: `null value in column "name"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError("failed to insert", tt.err)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *model.APIError, got %T", err)
			}
			if apiErr.Kind != model.KindPersistence {
				t.Errorf("Kind = %q, want %q", apiErr.Kind, model.KindPersistence)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if len(apiErr.Errors) == 0 || !strings.Contains(apiErr.Errors[0], tt.wantText) {
				t.Errorf("Errors = %v, want to contain %q", apiErr.Errors, tt.wantText)
			}
			var pqErr *pq.Error
			if !errors.As(err, &pqErr) {
				t.Error("driver error should remain reachable through Unwrap")
			}
		})
	}
}

func TestTranslateError_OtherErrorsAreWrapped(t *testing.T) {
	base := errors.New("connection reset")
	err := translateError("failed to update camper", base)

	if !errors.Is(err, base) {
		t.Error("original error should be wrapped")
	}
	if model.IsKind(err, model.KindPersistence) {
		t.Error("non-constraint errors should not be persistence errors")
	}
	if !strings.HasPrefix(err.Error(), "failed to update camper: ") {
		t.Errorf("error = %q, want op prefix", err.Error())
	}
}

func TestTranslateError_UniqueViolationIsNotTranslated(t *testing.T) {
	err := translateError("failed to insert", &pq.Error{Code: "23505"})
	if model.IsKind(err, model.KindPersistence) {
		t.Error("unique violations have no mapping and should be wrapped as-is")
	}
}
