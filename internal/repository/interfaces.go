// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/campman/internal/model"
)

// CamperRepository は参加者データの永続化インターフェース。
type CamperRepository interface {
	// FindByID は指定IDの参加者を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Camper, error)

	// FindByIDWithSignups は参加者を申込一覧（各申込のActivity付き）とともに取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithSignups(ctx context.Context, id int64) (*model.Camper, error)

	// List は全参加者をID昇順で返す。関連はロードしない。
	List(ctx context.Context) ([]*model.Camper, error)

	// Create は参加者を作成し、採番されたIDを割り当てる。
	Create(ctx context.Context, camper *model.Camper) error

	// Update は参加者のフィールドを上書き保存する。
	Update(ctx context.Context, camper *model.Camper) error
}

// ActivityRepository はアクティビティデータの永続化インターフェース。
type ActivityRepository interface {
	// FindByID は指定IDのアクティビティを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Activity, error)

	// FindByIDWithSignups はアクティビティを申込一覧（各申込のCamper付き）とともに取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithSignups(ctx context.Context, id int64) (*model.Activity, error)

	// List は全アクティビティをID昇順で返す。関連はロードしない。
	List(ctx context.Context) ([]*model.Activity, error)

	// Create はアクティビティを作成し、採番されたIDを割り当てる。
	Create(ctx context.Context, activity *model.Activity) error

	// Update はアクティビティのフィールドを上書き保存する。
	Update(ctx context.Context, activity *model.Activity) error

	// DeleteWithSignups はアクティビティと、それを参照する申込を同一トランザクションで削除する。
	// 削除した申込の件数を返す。
	DeleteWithSignups(ctx context.Context, id int64) (int64, error)
}

// SignupRepository は申込データの永続化インターフェース。
type SignupRepository interface {
	// FindByID は指定IDの申込をActivityとCamper付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Signup, error)

	// List は全申込をActivityとCamper付きでID昇順に返す。
	List(ctx context.Context) ([]*model.Signup, error)

	// Create は申込を作成し、採番されたIDを割り当てる。
	// 参照先が存在しない場合はKindPersistenceのAPIErrorを返す。
	Create(ctx context.Context, signup *model.Signup) error

	// Update は申込のフィールドを上書き保存する。
	Update(ctx context.Context, signup *model.Signup) error
}

// HealthChecker はDB疎通確認のインターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}
