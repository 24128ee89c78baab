package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/campman/internal/model"
)

// PostgreSQLのSQLSTATEコード
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqNotNullViolation    = "23502"
)

// translateError はドライバのエラーをドメインのエラーに変換する。
// 制約違反はKindPersistenceのAPIError、それ以外はopを付けてラップする。
func translateError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return model.NewInvalidReferenceError(constraintDetail(pqErr), err)
		case pqCheckViolation, pqNotNullViolation:
			return model.NewConstraintViolationError(constraintDetail(pqErr), err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func constraintDetail(e *pq.Error) string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s violates %s", e.Table, e.Constraint)
	}
	return e.Message
}
