// Package camper は参加者管理のドメインロジックを提供する。
package camper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/campman/internal/metrics"
	"github.com/hitoshi/campman/internal/model"
	"github.com/hitoshi/campman/internal/repository"
)

// entityName はメトリクスとログで使うエンティティ名。
const entityName = "Camper"

// Service は参加者管理のサービス層。
// 作成・取得・一覧・部分更新のビジネスロジックを提供する。
type Service struct {
	repo    repository.CamperRepository
	metrics metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorがnilの場合はメトリクスを記録しない。
func NewService(repo repository.CamperRepository, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{repo: repo, metrics: collector}
}

// List は全参加者を返す。申込はロードしない。
func (s *Service) List(ctx context.Context) ([]*model.Camper, error) {
	campers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("参加者一覧の取得に失敗しました: %w", err)
	}
	return campers, nil
}

// Get は参加者を申込一覧とともに返す。存在しない場合はNotFoundエラーを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Camper, error) {
	camper, err := s.repo.FindByIDWithSignups(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("参加者の取得に失敗しました: %w", err)
	}
	if camper == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return camper, nil
}

// Create はリクエストのフィールドから参加者を作成する。
// 検証に失敗した場合は何も永続化せずにValidationエラーを返す。
func (s *Service) Create(ctx context.Context, fields model.CamperFields) (*model.Camper, error) {
	camper, err := model.NewCamperFromFields(fields)
	if err != nil {
		s.metrics.RecordValidationFailure(entityName)
		return nil, model.NewValidationError(err)
	}

	if err := s.repo.Create(ctx, camper); err != nil {
		return nil, fmt.Errorf("参加者の作成に失敗しました: %w", err)
	}

	s.metrics.RecordEntityWrite(entityName, "create")
	slog.InfoContext(ctx, "参加者を作成しました", "camperID", camper.ID())
	return camper, nil
}

// Update は指定されたフィールドだけを参加者に反映する。
// 存在確認を変更より先に行い、検証に失敗した場合は何も永続化しない。
func (s *Service) Update(ctx context.Context, id int64, fields model.CamperFields) (*model.Camper, error) {
	camper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("参加者の取得に失敗しました: %w", err)
	}
	if camper == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}

	if err := camper.Apply(fields); err != nil {
		s.metrics.RecordValidationFailure(entityName)
		return nil, model.NewValidationError(err)
	}

	if err := s.repo.Update(ctx, camper); err != nil {
		return nil, fmt.Errorf("参加者の更新に失敗しました: %w", err)
	}

	s.metrics.RecordEntityWrite(entityName, "update")
	slog.InfoContext(ctx, "参加者を更新しました", "camperID", camper.ID())
	return camper, nil
}
