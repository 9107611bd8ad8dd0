package dao

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/grand-thief-cash/todolist/infra/application/components/mysqlgorm"
	"github.com/grand-thief-cash/todolist/infra/application/components/postgresgorm"
	"github.com/grand-thief-cash/todolist/internal/consts"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// openDB picks the datasource of the configured driver; the unused component may be nil.
func openDB(driver, dsName string, my *mysqlgorm.GormComponent, pg *postgresgorm.PostgresGormComponent) (*gorm.DB, error) {
	switch driver {
	case consts.STORAGE_MYSQL:
		if my == nil {
			return nil, errors.New("mysql_gorm component not available")
		}
		return my.GetDB(dsName)
	case consts.STORAGE_POSTGRES:
		if pg == nil {
			return nil, errors.New("postgres_gorm component not available")
		}
		return pg.GetDB(dsName)
	}
	return nil, fmt.Errorf("unsupported sql driver %q", driver)
}

// ownerScope restricts a query to one owner; ownerID 0 leaves it unscoped.
func ownerScope(ownerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == 0 {
			return db
		}
		return db.Where("owner_id = ?", ownerID)
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
