package dao

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/model"
)

// memTaskDao stands in for the database in development and tests.
type memTaskDao struct {
	*core.BaseComponent
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*model.Task
}

func NewMemoryTaskDao() TaskDao {
	return &memTaskDao{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_TASK, appconsts.COMPONENT_LOGGING),
		rows:          make(map[int64]*model.Task),
	}
}

func (d *memTaskDao) visible(t *model.Task, ownerID int64) bool {
	return t != nil && (ownerID == 0 || t.OwnerID == ownerID)
}

func (d *memTaskDao) List(_ context.Context, ownerID int64) ([]*model.Task, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*model.Task, 0, len(d.rows))
	for _, t := range d.rows {
		if d.visible(t, ownerID) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *memTaskDao) Get(_ context.Context, ownerID, id int64) (*model.Task, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.rows[id]
	if !d.visible(t, ownerID) {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

func (d *memTaskDao) Create(_ context.Context, t *model.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	t.ID = d.nextID
	d.rows[t.ID] = t.Clone()
	return nil
}

func (d *memTaskDao) Update(_ context.Context, ownerID int64, t *model.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.rows[t.ID]
	if !d.visible(cur, ownerID) {
		return ErrNotFound
	}
	next := t.Clone()
	next.OwnerID = cur.OwnerID
	d.rows[t.ID] = next
	return nil
}

func (d *memTaskDao) Delete(_ context.Context, ownerID, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible(d.rows[id], ownerID) {
		return ErrNotFound
	}
	delete(d.rows, id)
	return nil
}

func (d *memTaskDao) MarkCompleted(_ context.Context, ownerID, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.rows[id]
	if !d.visible(t, ownerID) {
		return ErrNotFound
	}
	t.IsCompleted = true
	return nil
}

type memUserDao struct {
	*core.BaseComponent
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.User
}

func NewMemoryUserDao() UserDao {
	return &memUserDao{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_USER, appconsts.COMPONENT_LOGGING),
		byID:          make(map[int64]*model.User),
	}
}

func (d *memUserDao) Create(_ context.Context, u *model.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.byID {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	d.nextID++
	u.ID = d.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	d.byID[u.ID] = &cp
	return nil
}

func (d *memUserDao) GetByUsername(_ context.Context, username string) (*model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (d *memUserDao) GetByID(_ context.Context, id int64) (*model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}
