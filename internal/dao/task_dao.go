package dao

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/grand-thief-cash/todolist/infra/application/components/mysqlgorm"
	"github.com/grand-thief-cash/todolist/infra/application/components/postgresgorm"
	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/model"
)

// TaskDao methods take an ownerID; 0 means the call is not scoped to an owner.
type TaskDao interface {
	core.Component
	List(ctx context.Context, ownerID int64) ([]*model.Task, error)
	Get(ctx context.Context, ownerID, id int64) (*model.Task, error)
	Create(ctx context.Context, t *model.Task) error
	// Update overwrites the mutable fields of the row t.ID.
	Update(ctx context.Context, ownerID int64, t *model.Task) error
	Delete(ctx context.Context, ownerID, id int64) error
	MarkCompleted(ctx context.Context, ownerID, id int64) error
}

type taskDaoImpl struct {
	*core.BaseComponent
	MySQL    *mysqlgorm.GormComponent             `infra:"dep:mysql_gorm?"`
	Postgres *postgresgorm.PostgresGormComponent `infra:"dep:postgres_gorm?"`

	driver string
	dsName string
	db     *gorm.DB
}

func NewTaskDao(driver, dsName string) TaskDao {
	return &taskDaoImpl{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_TASK, appconsts.COMPONENT_LOGGING),
		driver:        driver,
		dsName:        dsName,
	}
}

func (d *taskDaoImpl) Start(ctx context.Context) error {
	if err := d.BaseComponent.Start(ctx); err != nil {
		return err
	}
	db, err := openDB(d.driver, d.dsName, d.MySQL, d.Postgres)
	if err != nil {
		return fmt.Errorf("task_dao get gorm db %s failed: %w", d.dsName, err)
	}
	d.db = db
	return nil
}

func (d *taskDaoImpl) List(ctx context.Context, ownerID int64) ([]*model.Task, error) {
	var list []*model.Task
	if err := d.db.WithContext(ctx).Scopes(ownerScope(ownerID)).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (d *taskDaoImpl) Get(ctx context.Context, ownerID, id int64) (*model.Task, error) {
	var t model.Task
	if err := d.db.WithContext(ctx).Scopes(ownerScope(ownerID)).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (d *taskDaoImpl) Create(ctx context.Context, t *model.Task) error {
	t.ID = 0
	return translate(d.db.WithContext(ctx).Create(t).Error)
}

func (d *taskDaoImpl) Update(ctx context.Context, ownerID int64, t *model.Task) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.Task
		if err := tx.Scopes(ownerScope(ownerID)).Where("id = ?", t.ID).First(&cur).Error; err != nil {
			return translate(err)
		}
		// map keeps NULL description/priority writable
		return tx.Model(&cur).Updates(map[string]any{
			"title":        t.Title,
			"description":  t.Description,
			"due_date":     t.DueDate,
			"is_completed": t.IsCompleted,
			"priority":     t.Priority,
		}).Error
	})
}

func (d *taskDaoImpl) Delete(ctx context.Context, ownerID, id int64) error {
	res := d.db.WithContext(ctx).Scopes(ownerScope(ownerID)).Where("id = ?", id).Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCompleted reads before writing because MySQL reports 0 affected rows when the value is unchanged.
func (d *taskDaoImpl) MarkCompleted(ctx context.Context, ownerID, id int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.Task
		if err := tx.Scopes(ownerScope(ownerID)).Where("id = ?", id).First(&cur).Error; err != nil {
			return translate(err)
		}
		if cur.IsCompleted {
			return nil
		}
		return tx.Model(&cur).Update("is_completed", true).Error
	})
}
