package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/campman/internal/model"
)

// PostgresSignupRepo はPostgreSQLを使用した申込リポジトリ。
type PostgresSignupRepo struct {
	db *sql.DB
}

// NewPostgresSignupRepo はPostgresSignupRepoを生成する。
func NewPostgresSignupRepo(db *sql.DB) *PostgresSignupRepo {
	return &PostgresSignupRepo{db: db}
}

// FindByID は指定IDの申込をActivityとCamper付きで取得する。見つからない場合はnilを返す。
func (r *PostgresSignupRepo) FindByID(ctx context.Context, id int64) (*model.Signup, error) {
	var (
		activityID, camperID     int64
		hour, difficulty, age    int
		activityName, camperName string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT s.id, s."time", s.activity_id, s.camper_id, a.name, a.difficulty, c.name, c.age
		 FROM signups s
		 JOIN activities a ON a.id = s.activity_id
		 JOIN campers c ON c.id = s.camper_id
		 WHERE s.id = $1`,
		id,
	).Scan(&id, &hour, &activityID, &camperID, &activityName, &difficulty, &camperName, &age)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find signup by ID: %w", err)
	}

	return loadSignupGraph(id, camperID, activityID, hour, activityName, difficulty, camperName, age)
}

// List は全申込をActivityとCamper付きでID昇順に返す。
func (r *PostgresSignupRepo) List(ctx context.Context) ([]*model.Signup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s."time", s.activity_id, s.camper_id, a.name, a.difficulty, c.name, c.age
		 FROM signups s
		 JOIN activities a ON a.id = s.activity_id
		 JOIN campers c ON c.id = s.camper_id
		 ORDER BY s.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	defer rows.Close()

	signups := []*model.Signup{}
	for rows.Next() {
		var (
			id, activityID, camperID int64
			hour, difficulty, age    int
			activityName, camperName string
		)
		if err := rows.Scan(&id, &hour, &activityID, &camperID, &activityName, &difficulty, &camperName, &age); err != nil {
			return nil, fmt.Errorf("failed to scan signup row: %w", err)
		}
		signup, err := loadSignupGraph(id, camperID, activityID, hour, activityName, difficulty, camperName, age)
		if err != nil {
			return nil, err
		}
		signups = append(signups, signup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signup rows: %w", err)
	}
	return signups, nil
}

// Create は申込を作成し、採番されたIDを割り当てる。
// 参照先が存在しない場合は外部キー制約違反としてKindPersistenceのエラーを返す。
func (r *PostgresSignupRepo) Create(ctx context.Context, signup *model.Signup) error {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO signups ("time", activity_id, camper_id) VALUES ($1, $2, $3) RETURNING id`,
		signup.Time(), signup.ActivityID(), signup.CamperID(),
	).Scan(&id)
	if err != nil {
		return translateError("failed to insert signup", err)
	}
	return signup.AssignID(id)
}

// Update は申込のフィールドを上書き保存する。
func (r *PostgresSignupRepo) Update(ctx context.Context, signup *model.Signup) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE signups SET "time" = $2, activity_id = $3, camper_id = $4 WHERE id = $1`,
		signup.ID(), signup.Time(), signup.ActivityID(), signup.CamperID(),
	)
	if err != nil {
		return translateError("failed to update signup", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewNotFoundError("Signup", signup.ID())
	}
	return nil
}

// loadSignupGraph は結合済みの行からActivityとCamper付きのSignupを復元する。
func loadSignupGraph(
	id, camperID, activityID int64,
	hour int,
	activityName string, difficulty int,
	camperName string, age int,
) (*model.Signup, error) {
	signup, err := model.LoadSignup(id, camperID, activityID, hour)
	if err != nil {
		return nil, err
	}
	camper, err := model.LoadCamper(camperID, camperName, age)
	if err != nil {
		return nil, err
	}
	signup.Activity = model.LoadActivity(activityID, activityName, difficulty)
	signup.Camper = camper
	return signup, nil
}

// compile-time interface check
var _ SignupRepository = (*PostgresSignupRepo)(nil)
