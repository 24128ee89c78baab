// Package activity はアクティビティ管理のドメインロジックを提供する。
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/campman/internal/metrics"
	"github.com/hitoshi/campman/internal/model"
	"github.com/hitoshi/campman/internal/repository"
)

const entityName = "Activity"

// Service はアクティビティ管理のサービス層。
// 削除は申込の連鎖削除を伴う唯一の削除操作である。
type Service struct {
	repo    repository.ActivityRepository
	metrics metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ActivityRepository, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{repo: repo, metrics: collector}
}

// List は全アクティビティを返す。
func (s *Service) List(ctx context.Context) ([]*model.Activity, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アクティビティ一覧の取得に失敗しました: %w", err)
	}
	return activities, nil
}

// Get はアクティビティを申込一覧とともに返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Activity, error) {
	activity, err := s.repo.FindByIDWithSignups(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("アクティビティの取得に失敗しました: %w", err)
	}
	if activity == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return activity, nil
}

// Create はアクティビティを作成する。
func (s *Service) Create(ctx context.Context, fields model.ActivityFields) (*model.Activity, error) {
	activity := model.NewActivityFromFields(fields)
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("アクティビティの作成に失敗しました: %w", err)
	}

	s.metrics.RecordEntityWrite(entityName, "create")
	slog.InfoContext(ctx, "アクティビティを作成しました", "activityID", activity.ID())
	return activity, nil
}

// Update は指定されたフィールドだけをアクティビティに反映する。
func (s *Service) Update(ctx context.Context, id int64, fields model.ActivityFields) (*model.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("アクティビティの取得に失敗しました: %w", err)
	}
	if activity == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}

	activity.Apply(fields)
	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("アクティビティの更新に失敗しました: %w", err)
	}

	s.metrics.RecordEntityWrite(entityName, "update")
	slog.InfoContext(ctx, "アクティビティを更新しました", "activityID", activity.ID())
	return activity, nil
}

// Delete はアクティビティと、それを参照する全ての申込を削除する。
// 存在しない場合は何も変更せずにNotFoundエラーを返す。
func (s *Service) Delete(ctx context.Context, id int64) error {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("アクティビティの取得に失敗しました: %w", err)
	}
	if activity == nil {
		return model.NewNotFoundError(entityName, id)
	}

	removed, err := s.repo.DeleteWithSignups(ctx, id)
	if err != nil {
		return fmt.Errorf("アクティビティの削除に失敗しました: %w", err)
	}

	s.metrics.RecordEntityWrite(entityName, "delete")
	slog.InfoContext(ctx, "アクティビティを削除しました", "activityID", id, "signupsRemoved", removed)
	return nil
}
