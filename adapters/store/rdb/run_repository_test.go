package rdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kompox/tfcsync/domain/model"
)

func newTestRepo(t *testing.T) *RunRepository {
	t.Helper()
	db, err := OpenFromURL("sqlite:" + filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenFromURL() error = %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	return NewRunRepository(db)
}

func TestOpenFromURL_UnsupportedScheme(t *testing.T) {
	if _, err := OpenFromURL("postgres://localhost/db"); err == nil {
		t.Error("OpenFromURL() should reject unsupported schemes")
	}
}

func TestRunRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	run := &model.SyncRun{
		Organization: "acme",
		Status:       model.RunStatusRunning,
		StartedAt:    started,
		Error:        "stale",
	}
	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.ID == "" {
		t.Fatal("Create() should assign an ID")
	}

	run.Status = model.RunStatusSucceeded
	run.Workspaces = 2
	run.Resources = 2
	run.Delivered = 2
	run.Error = ""
	run.FinishedAt = started.Add(time.Minute)
	if err := repo.Update(ctx, run); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	opt := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(run, got, opt); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, model.ErrRunNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrRunNotFound", err)
	}
	if err := repo.Update(ctx, &model.SyncRun{ID: "missing"}); !errors.Is(err, model.ErrRunNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrRunNotFound", err)
	}
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run := &model.SyncRun{Organization: "acme", Status: model.RunStatusSucceeded, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Create(ctx, run); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, run.ID)
	}
	runs, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("List(2) = %v, want [%s %s]", runs, ids[2], ids[1])
	}
}

func TestRunRepository_Deliveries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	run := &model.SyncRun{Organization: "acme", Status: model.RunStatusRunning, StartedAt: time.Now()}
	if err := repo.Create(ctx, run); err != nil {
		t.Fatal(err)
	}
	at := time.Now().UTC()
	for _, d := range []*model.Delivery{
		{RunID: run.ID, WorkspaceID: "ws-1", ResourceName: "vpc", Status: model.DeliveryStatusDelivered, CreatedAt: at},
		{RunID: run.ID, WorkspaceID: "ws-1", ResourceName: "subnet", Status: model.DeliveryStatusFailed, Error: "boom", CreatedAt: at},
	} {
		if err := repo.AddDelivery(ctx, d); err != nil {
			t.Fatalf("AddDelivery() error = %v", err)
		}
	}
	if err := repo.AddDelivery(ctx, &model.Delivery{RunID: "missing", WorkspaceID: "ws-1", Status: model.DeliveryStatusFailed}); !errors.Is(err, model.ErrRunNotFound) {
		t.Errorf("AddDelivery(missing run) error = %v, want ErrRunNotFound", err)
	}

	ds, err := repo.ListDeliveries(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListDeliveries() error = %v", err)
	}
	var names []string
	for _, d := range ds {
		names = append(names, d.ResourceName)
	}
	if diff := cmp.Diff([]string{"vpc", "subnet"}, names); diff != "" {
		t.Errorf("ListDeliveries() names mismatch (-want +got):\n%s", diff)
	}
	if ds[1].Error != "boom" {
		t.Errorf("Error = %q, want boom", ds[1].Error)
	}
	if _, err := repo.ListDeliveries(ctx, "missing"); !errors.Is(err, model.ErrRunNotFound) {
		t.Errorf("ListDeliveries(missing) error = %v, want ErrRunNotFound", err)
	}
}
