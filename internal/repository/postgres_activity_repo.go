package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/campman/internal/model"
)

// PostgresActivityRepo はPostgreSQLを使用したアクティビティリポジトリ。
type PostgresActivityRepo struct {
	db *sql.DB
}

// NewPostgresActivityRepo はPostgresActivityRepoを生成する。
func NewPostgresActivityRepo(db *sql.DB) *PostgresActivityRepo {
	return &PostgresActivityRepo{db: db}
}

// FindByID は指定IDのアクティビティを取得する。見つからない場合はnilを返す。
func (r *PostgresActivityRepo) FindByID(ctx context.Context, id int64) (*model.Activity, error) {
	var (
		name       string
		difficulty int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, difficulty FROM activities WHERE id = $1`,
		id,
	).Scan(&id, &name, &difficulty)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find activity by ID: %w", err)
	}

	return model.LoadActivity(id, name, difficulty), nil
}

// FindByIDWithSignups はアクティビティを申込一覧（各申込のCamper付き）とともに取得する。
func (r *PostgresActivityRepo) FindByIDWithSignups(ctx context.Context, id int64) (*model.Activity, error) {
	activity, err := r.FindByID(ctx, id)
	if err != nil || activity == nil {
		return activity, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s."time", s.activity_id, s.camper_id, c.name, c.age
		 FROM signups s
		 JOIN campers c ON c.id = s.camper_id
		 WHERE s.activity_id = $1
		 ORDER BY s.id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups for activity: %w", err)
	}
	defer rows.Close()

	activity.Signups = []*model.Signup{}
	for rows.Next() {
		var (
			signupID, activityID, camperID int64
			hour, age                      int
			camperName                     string
		)
		if err := rows.Scan(&signupID, &hour, &activityID, &camperID, &camperName, &age); err != nil {
			return nil, fmt.Errorf("failed to scan signup row: %w", err)
		}
		signup, err := model.LoadSignup(signupID, camperID, activityID, hour)
		if err != nil {
			return nil, err
		}
		camper, err := model.LoadCamper(camperID, camperName, age)
		if err != nil {
			return nil, err
		}
		signup.Camper = camper
		signup.Activity = activity
		activity.Signups = append(activity.Signups, signup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signup rows: %w", err)
	}

	return activity, nil
}

// List は全アクティビティをID昇順で返す。
func (r *PostgresActivityRepo) List(ctx context.Context) ([]*model.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, difficulty FROM activities ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []*model.Activity{}
	for rows.Next() {
		var (
			id         int64
			name       string
			difficulty int
		)
		if err := rows.Scan(&id, &name, &difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, model.LoadActivity(id, name, difficulty))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}
	return activities, nil
}

// Create はアクティビティを作成し、採番されたIDを割り当てる。
func (r *PostgresActivityRepo) Create(ctx context.Context, activity *model.Activity) error {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO activities (name, difficulty) VALUES ($1, $2) RETURNING id`,
		activity.Name, activity.Difficulty,
	).Scan(&id)
	if err != nil {
		return translateError("failed to insert activity", err)
	}
	return activity.AssignID(id)
}

// Update はアクティビティのフィールドを上書き保存する。
func (r *PostgresActivityRepo) Update(ctx context.Context, activity *model.Activity) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE activities SET name = $2, difficulty = $3 WHERE id = $1`,
		activity.ID(), activity.Name, activity.Difficulty,
	)
	if err != nil {
		return translateError("failed to update activity", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewNotFoundError("Activity", activity.ID())
	}
	return nil
}

// DeleteWithSignups はアクティビティと、それを参照する申込を同一トランザクションで削除する。
// signups.activity_id の ON DELETE CASCADE に依存せず、明示的に申込を削除する。
func (r *PostgresActivityRepo) DeleteWithSignups(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM signups WHERE activity_id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete signups of activity: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	result, err = tx.ExecContext(ctx,
		`DELETE FROM activities WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete activity: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, model.NewNotFoundError("Activity", id)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return removed, nil
}

// compile-time interface check
var _ ActivityRepository = (*PostgresActivityRepo)(nil)
