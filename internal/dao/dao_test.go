package dao

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/model"
)

func TestMemoryTaskDaoCRUD(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryTaskDao()
	a := &model.Task{Title: "a", DueDate: time.Now(), OwnerID: 1}
	b := &model.Task{Title: "b", DueDate: time.Now(), OwnerID: 2}
	if err := d.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := d.Create(ctx, b); err != nil {
		t.Fatal(err)
	}
	if a.ID == 0 || a.ID == b.ID {
		t.Fatalf("ids not unique: %d %d", a.ID, b.ID)
	}

	own, _ := d.List(ctx, 1)
	if len(own) != 1 || own[0].ID != a.ID {
		t.Fatalf("owner 1 list=%v", own)
	}
	all, _ := d.List(ctx, 0)
	if len(all) != 2 {
		t.Fatalf("unscoped list len=%d", len(all))
	}

	if _, err := d.Get(ctx, 1, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner get err=%v", err)
	}

	upd := &model.Task{ID: a.ID, Title: "a2", DueDate: a.DueDate, OwnerID: 99}
	if err := d.Update(ctx, 1, upd); err != nil {
		t.Fatal(err)
	}
	got, _ := d.Get(ctx, 1, a.ID)
	if got.Title != "a2" || got.OwnerID != 1 {
		t.Fatalf("update lost owner or title: %+v", got)
	}

	if err := d.MarkCompleted(ctx, 1, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := d.MarkCompleted(ctx, 1, a.ID); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	got, _ = d.Get(ctx, 0, a.ID)
	if !got.IsCompleted {
		t.Fatalf("expected completed")
	}

	if err := d.Delete(ctx, 1, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing err=%v", err)
	}
	if err := d.Delete(ctx, 1, a.ID); err != nil {
		t.Fatal(err)
	}
	all, _ = d.List(ctx, 0)
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("delete touched other rows: %v", all)
	}
}

func TestMemoryTaskDaoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryTaskDao()
	p := consts.PriorityLow
	task := &model.Task{Title: "a", DueDate: time.Now(), Priority: &p}
	_ = d.Create(ctx, task)
	got, _ := d.Get(ctx, 0, task.ID)
	got.Title = "mutated"
	*got.Priority = consts.PriorityHigh
	again, _ := d.Get(ctx, 0, task.ID)
	if again.Title != "a" || again.PriorityOf() != consts.PriorityLow {
		t.Fatalf("store aliased: %+v", again)
	}
}

func TestMemoryUserDaoDuplicate(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryUserDao()
	if err := d.Create(ctx, &model.User{Username: "ann", Email: "ann@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Create(ctx, &model.User{Username: "ann", Email: "other@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("dup username err=%v", err)
	}
	if err := d.Create(ctx, &model.User{Username: "bob", Email: "ANN@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("dup email err=%v", err)
	}
	u, err := d.GetByUsername(ctx, "ann")
	if err != nil || u.ID == 0 {
		t.Fatalf("get: %v %+v", err, u)
	}
	if _, err := d.GetByID(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id err=%v", err)
	}
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/todolist?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestOwnerScopeSQL(t *testing.T) {
	db := dryRunDB(t)
	scoped := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var list []*model.Task
		return tx.Scopes(ownerScope(5)).Order("id").Find(&list)
	})
	if !strings.Contains(scoped, "owner_id = 5") || !strings.Contains(scoped, "`tasks`") {
		t.Fatalf("scoped sql=%s", scoped)
	}
	unscoped := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var list []*model.Task
		return tx.Scopes(ownerScope(0)).Order("id").Find(&list)
	})
	if strings.Contains(unscoped, "owner_id") {
		t.Fatalf("unscoped sql=%s", unscoped)
	}
}

func TestTranslate(t *testing.T) {
	if !errors.Is(translate(gorm.ErrRecordNotFound), ErrNotFound) {
		t.Fatalf("record not found not mapped")
	}
	if !errors.Is(translate(gorm.ErrDuplicatedKey), ErrDuplicate) {
		t.Fatalf("duplicate key not mapped")
	}
	if translate(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestOpenDBRequiresComponent(t *testing.T) {
	if _, err := openDB(consts.STORAGE_MYSQL, "todolist", nil, nil); err == nil {
		t.Fatalf("expected error without mysql component")
	}
	if _, err := openDB(consts.STORAGE_POSTGRES, "todolist", nil, nil); err == nil {
		t.Fatalf("expected error without postgres component")
	}
	if _, err := openDB("sqlite", "todolist", nil, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
