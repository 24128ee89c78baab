package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/campman/internal/metrics"
	"github.com/hitoshi/campman/internal/model"
)

// --- モック ---

type mockActivityRepo struct {
	findByIDFn            func(ctx context.Context, id int64) (*model.Activity, error)
	findByIDWithSignupsFn func(ctx context.Context, id int64) (*model.Activity, error)
	listFn                func(ctx context.Context) ([]*model.Activity, error)
	createFn              func(ctx context.Context, a *model.Activity) error
	updateFn              func(ctx context.Context, a *model.Activity) error
	deleteWithSignupsFn   func(ctx context.Context, id int64) (int64, error)
}

func (m *mockActivityRepo) FindByID(ctx context.Context, id int64) (*model.Activity, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockActivityRepo) FindByIDWithSignups(ctx context.Context, id int64) (*model.Activity, error) {
	return m.findByIDWithSignupsFn(ctx, id)
}
func (m *mockActivityRepo) List(ctx context.Context) ([]*model.Activity, error) {
	return m.listFn(ctx)
}
func (m *mockActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	return m.createFn(ctx, a)
}
func (m *mockActivityRepo) Update(ctx context.Context, a *model.Activity) error {
	return m.updateFn(ctx, a)
}
func (m *mockActivityRepo) DeleteWithSignups(ctx context.Context, id int64) (int64, error) {
	return m.deleteWithSignupsFn(ctx, id)
}

type writeRecorder struct {
	metrics.Nop
	writes []string
}

func (w *writeRecorder) RecordEntityWrite(entity, op string) {
	w.writes = append(w.writes, entity+":"+op)
}

// --- Delete ---

func TestDelete_RemovesActivityAndSignups(t *testing.T) {
	var deletedID int64
	repo := &mockActivityRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Activity, error) {
			return model.LoadActivity(id, "Archery", 2), nil
		},
		deleteWithSignupsFn: func(ctx context.Context, id int64) (int64, error) {
			deletedID = id
			return 3, nil
		},
	}
	rec := &writeRecorder{}
	svc := NewService(repo, rec)

	if err := svc.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deletedID != 7 {
		t.Errorf("DeleteWithSignups called with %d, want 7", deletedID)
	}
	if len(rec.writes) != 1 || rec.writes[0] != "Activity:delete" {
		t.Errorf("writes = %v, want [Activity:delete]", rec.writes)
	}
}

func TestDelete_NotFound_NoMutation(t *testing.T) {
	deleteCalled := false
	repo := &mockActivityRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Activity, error) {
			return nil, nil
		},
		deleteWithSignupsFn: func(ctx context.Context, id int64) (int64, error) {
			deleteCalled = true
			return 0, nil
		},
	}
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), 99)
	if !model.IsKind(err, model.KindNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
	if deleteCalled {
		t.Error("DeleteWithSignups should not be called for a missing activity")
	}
}

func TestDelete_RepositoryError(t *testing.T) {
	repo := &mockActivityRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Activity, error) {
			return model.LoadActivity(id, "Archery", 2), nil
		},
		deleteWithSignupsFn: func(ctx context.Context, id int64) (int64, error) {
			return 0, errors.New("tx aborted")
		},
	}
	svc := NewService(repo, nil)

	if err := svc.Delete(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}

// --- Create / Update ---

func TestCreate_AssignsID(t *testing.T) {
	repo := &mockActivityRepo{
		createFn: func(ctx context.Context, a *model.Activity) error {
			return a.AssignID(11)
		},
	}
	svc := NewService(repo, nil)

	a, err := svc.Create(context.Background(), model.ActivityFields{
		Name:       model.Some("Canoeing"),
		Difficulty: model.Some(4),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.ID() != 11 || a.Name != "Canoeing" || a.Difficulty != 4 {
		t.Errorf("activity = %v (difficulty %d), want id 11 Canoeing/4", a, a.Difficulty)
	}
}

func TestUpdate_OmittedFieldsUnchanged(t *testing.T) {
	var saved *model.Activity
	repo := &mockActivityRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Activity, error) {
			return model.LoadActivity(id, "Archery", 2), nil
		},
		updateFn: func(ctx context.Context, a *model.Activity) error {
			saved = a
			return nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.Update(context.Background(), 3, model.ActivityFields{Difficulty: model.Some(5)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if saved.Name != "Archery" || saved.Difficulty != 5 {
		t.Errorf("saved = (%q, %d), want (Archery, 5)", saved.Name, saved.Difficulty)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockActivityRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Activity, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.Update(context.Background(), 3, model.ActivityFields{})
	if !model.IsKind(err, model.KindNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

// --- Get / List ---

func TestGet_NotFound(t *testing.T) {
	repo := &mockActivityRepo{
		findByIDWithSignupsFn: func(ctx context.Context, id int64) (*model.Activity, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.Get(context.Background(), 1)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeActivityNotFound {
		t.Errorf("error = %v, want %s", err, model.ErrCodeActivityNotFound)
	}
}

func TestList_PropagatesError(t *testing.T) {
	repo := &mockActivityRepo{
		listFn: func(ctx context.Context) ([]*model.Activity, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(repo, nil)

	if _, err := svc.List(context.Background()); err == nil {
		t.Error("expected error")
	}
}
