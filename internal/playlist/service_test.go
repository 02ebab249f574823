package playlist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pthurmond/odeum/internal/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "odeum.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating database: %v", err)
	}
	return NewService(db)
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Morning Mix")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Morning Mix" {
		t.Errorf("name = %q, want %q", got.Name, "Morning Mix")
	}
	if got.ItemCount != 0 {
		t.Errorf("item count = %d, want 0", got.ItemCount)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestGetMissing(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Old")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Rename(ctx, p.ID, "New"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "New" {
		t.Errorf("name = %q, want %q", got.Name, "New")
	}

	if err := svc.Rename(ctx, "missing", "X"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename missing: err = %v, want ErrNotFound", err)
	}
}

func TestAddItemsOrdering(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Queue")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, id := range []string{"vid1", "vid2", "vid3"} {
		if _, err := svc.AddItem(ctx, p.ID, Item{MediaID: id, Title: id}); err != nil {
			t.Fatalf("AddItem(%s): %v", id, err)
		}
	}

	items, err := svc.Items(ctx, p.ID)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, want := range []string{"vid1", "vid2", "vid3"} {
		if items[i].MediaID != want {
			t.Errorf("items[%d].MediaID = %q, want %q", i, items[i].MediaID, want)
		}
		if items[i].Position != i {
			t.Errorf("items[%d].Position = %d, want %d", i, items[i].Position, i)
		}
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ItemCount != 3 {
		t.Errorf("item count = %d, want 3", got.ItemCount)
	}
}

func TestAddItemMissingPlaylist(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.AddItem(context.Background(), "missing", Item{MediaID: "v"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Trim")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	added, err := svc.AddItem(ctx, p.ID, Item{MediaID: "vid1"})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.RemoveItem(ctx, p.ID, added.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	items, err := svc.Items(ctx, p.ID)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}

	if err := svc.RemoveItem(ctx, p.ID, added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove twice: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Doomed")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AddItem(ctx, p.ID, Item{MediaID: "vid1"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	items, err := svc.Items(ctx, p.ID)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected cascade delete, found %d items", len(items))
	}
}
