// Package signup は申込管理のドメインロジックを提供する。
package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/campman/internal/metrics"
	"github.com/hitoshi/campman/internal/model"
	"github.com/hitoshi/campman/internal/repository"
)

const entityName = "Signup"

// errReloadFailed は作成・更新直後の再取得で申込が見つからなかったことを示す。
var errReloadFailed = errors.New("signup disappeared after write")

// Service は申込管理のサービス層。
type Service struct {
	repo    repository.SignupRepository
	metrics metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.SignupRepository, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{repo: repo, metrics: collector}
}

// List は全申込を返す。ActivityとCamperを含む。
func (s *Service) List(ctx context.Context) ([]*model.Signup, error) {
	signups, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("申込一覧の取得に失敗しました: %w", err)
	}
	return signups, nil
}

// Get は申込をActivityとCamper付きで返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Signup, error) {
	signup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("申込の取得に失敗しました: %w", err)
	}
	if signup == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return signup, nil
}

// Create は申込を作成し、ActivityとCamper付きで返す。
// 必須キーが欠けている場合はMalformedRequest、値が範囲外の場合はValidation、
// 参照先が存在しない場合はPersistenceのエラーを返す。いずれの場合も行は作成されない。
// 作成後の再取得に失敗した場合はActivityとCamperを持たない作成済みの申込を返す。
func (s *Service) Create(ctx context.Context, fields model.SignupFields) (*model.Signup, error) {
	if missing := fields.Missing(); len(missing) > 0 {
		return nil, model.NewMalformedRequestError(
			fmt.Sprintf("missing required keys: %s", strings.Join(missing, ", ")), nil)
	}

	signup, err := model.NewSignupFromFields(fields)
	if err != nil {
		s.metrics.RecordValidationFailure(entityName)
		return nil, model.NewValidationError(err)
	}

	if err := s.repo.Create(ctx, signup); err != nil {
		return nil, fmt.Errorf("申込の作成に失敗しました: %w", err)
	}

	s.metrics.RecordEntityWrite(entityName, "create")
	slog.InfoContext(ctx, "申込を作成しました",
		"signupID", signup.ID(),
		"camperID", signup.CamperID(),
		"activityID", signup.ActivityID(),
	)

	loaded, err := s.reload(ctx, signup.ID())
	if err != nil {
		// 行はコミット済みのため、関連を持たない作成済みの申込を返す。
		slog.ErrorContext(ctx, "作成した申込の再取得に失敗しました",
			"signupID", signup.ID(),
			"error", err,
		)
		return signup, nil
	}
	return loaded, nil
}

// Update は指定されたフィールドだけを申込に反映し、ActivityとCamper付きで返す。
func (s *Service) Update(ctx context.Context, id int64, fields model.SignupFields) (*model.Signup, error) {
	signup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("申込の取得に失敗しました: %w", err)
	}
	if signup == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}

	if err := signup.Apply(fields); err != nil {
		s.metrics.RecordValidationFailure(entityName)
		return nil, model.NewValidationError(err)
	}

	if err := s.repo.Update(ctx, signup); err != nil {
		return nil, fmt.Errorf("申込の更新に失敗しました: %w", err)
	}

	s.metrics.RecordEntityWrite(entityName, "update")
	slog.InfoContext(ctx, "申込を更新しました", "signupID", id)
	return s.reload(ctx, id)
}

func (s *Service) reload(ctx context.Context, id int64) (*model.Signup, error) {
	signup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("申込の再取得に失敗しました: %w", err)
	}
	if signup == nil {
		return nil, fmt.Errorf("申込 %d: %w", id, errReloadFailed)
	}
	return signup, nil
}
