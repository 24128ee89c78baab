package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/campman/internal/model"
)

// PostgresCamperRepo はPostgreSQLを使用した参加者リポジトリ。
type PostgresCamperRepo struct {
	db *sql.DB
}

// NewPostgresCamperRepo はPostgresCamperRepoを生成する。
func NewPostgresCamperRepo(db *sql.DB) *PostgresCamperRepo {
	return &PostgresCamperRepo{db: db}
}

// FindByID は指定IDの参加者を取得する。見つからない場合はnilを返す。
func (r *PostgresCamperRepo) FindByID(ctx context.Context, id int64) (*model.Camper, error) {
	var (
		name string
		age  int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, age FROM campers WHERE id = $1`,
		id,
	).Scan(&id, &name, &age)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find camper by ID: %w", err)
	}

	return model.LoadCamper(id, name, age)
}

// FindByIDWithSignups は参加者を申込一覧（各申込のActivity付き）とともに取得する。
func (r *PostgresCamperRepo) FindByIDWithSignups(ctx context.Context, id int64) (*model.Camper, error) {
	camper, err := r.FindByID(ctx, id)
	if err != nil || camper == nil {
		return camper, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s."time", s.activity_id, s.camper_id, a.name, a.difficulty
		 FROM signups s
		 JOIN activities a ON a.id = s.activity_id
		 WHERE s.camper_id = $1
		 ORDER BY s.id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups for camper: %w", err)
	}
	defer rows.Close()

	camper.Signups = []*model.Signup{}
	for rows.Next() {
		var (
			signupID, activityID, camperID int64
			hour, difficulty               int
			activityName                   string
		)
		if err := rows.Scan(&signupID, &hour, &activityID, &camperID, &activityName, &difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan signup row: %w", err)
		}
		signup, err := model.LoadSignup(signupID, camperID, activityID, hour)
		if err != nil {
			return nil, err
		}
		signup.Activity = model.LoadActivity(activityID, activityName, difficulty)
		signup.Camper = camper
		camper.Signups = append(camper.Signups, signup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signup rows: %w", err)
	}

	return camper, nil
}

// List は全参加者をID昇順で返す。
func (r *PostgresCamperRepo) List(ctx context.Context) ([]*model.Camper, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, age FROM campers ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campers: %w", err)
	}
	defer rows.Close()

	campers := []*model.Camper{}
	for rows.Next() {
		var (
			id   int64
			name string
			age  int
		)
		if err := rows.Scan(&id, &name, &age); err != nil {
			return nil, fmt.Errorf("failed to scan camper row: %w", err)
		}
		camper, err := model.LoadCamper(id, name, age)
		if err != nil {
			return nil, err
		}
		campers = append(campers, camper)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate camper rows: %w", err)
	}
	return campers, nil
}

// Create は参加者を作成し、採番されたIDを割り当てる。
func (r *PostgresCamperRepo) Create(ctx context.Context, camper *model.Camper) error {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO campers (name, age) VALUES ($1, $2) RETURNING id`,
		camper.Name(), camper.Age(),
	).Scan(&id)
	if err != nil {
		return translateError("failed to insert camper", err)
	}
	return camper.AssignID(id)
}

// Update は参加者のフィールドを上書き保存する。
func (r *PostgresCamperRepo) Update(ctx context.Context, camper *model.Camper) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE campers SET name = $2, age = $3 WHERE id = $1`,
		camper.ID(), camper.Name(), camper.Age(),
	)
	if err != nil {
		return translateError("failed to update camper", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewNotFoundError("Camper", camper.ID())
	}
	return nil
}

// compile-time interface check
var _ CamperRepository = (*PostgresCamperRepo)(nil)
