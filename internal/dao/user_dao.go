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

type UserDao interface {
	core.Component
	// Create fails with ErrDuplicate when username or email is taken.
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type userDaoImpl struct {
	*core.BaseComponent
	MySQL    *mysqlgorm.GormComponent             `infra:"dep:mysql_gorm?"`
	Postgres *postgresgorm.PostgresGormComponent `infra:"dep:postgres_gorm?"`

	driver string
	dsName string
	db     *gorm.DB
}

func NewUserDao(driver, dsName string) UserDao {
	return &userDaoImpl{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_USER, appconsts.COMPONENT_LOGGING),
		driver:        driver,
		dsName:        dsName,
	}
}

func (d *userDaoImpl) Start(ctx context.Context) error {
	if err := d.BaseComponent.Start(ctx); err != nil {
		return err
	}
	db, err := openDB(d.driver, d.dsName, d.MySQL, d.Postgres)
	if err != nil {
		return fmt.Errorf("user_dao get gorm db %s failed: %w", d.dsName, err)
	}
	d.db = db
	return nil
}

func (d *userDaoImpl) Create(ctx context.Context, u *model.User) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("username = ? OR email = ?", u.Username, u.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		return translate(tx.Create(u).Error)
	})
}

func (d *userDaoImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := d.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (d *userDaoImpl) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
