package mysqlgorm

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/grand-thief-cash/todolist/infra/application/components/gormdb"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
)

// GormComponent gorm over MySQL, one pool per datasource.
type GormComponent struct {
	*gormdb.Component
}

func NewGormComponent(cfg *Config) *GormComponent {
	return &GormComponent{Component: gormdb.NewComponent(consts.COMPONENT_MYSQL_GORM, cfg, dialector)}
}

func dialector(ds *DataSourceConfig) (gorm.Dialector, error) {
	dsn, err := BuildDSN(ds)
	if err != nil {
		return nil, err
	}
	return gormmysql.New(gormmysql.Config{DSN: dsn}), nil
}

// BuildDSN returns ds.DSN when set, otherwise formats one with parseTime enabled.
func BuildDSN(ds *DataSourceConfig) (string, error) {
	if strings.TrimSpace(ds.DSN) != "" {
		return ds.DSN, nil
	}
	if ds.Host == "" || ds.User == "" || ds.Database == "" {
		return "", errors.New("host, user, database required when dsn not provided")
	}
	port := ds.Port
	if port == 0 {
		port = 3306
	}
	mc := mysql.NewConfig()
	mc.User = ds.User
	mc.Passwd = ds.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", ds.Host, port)
	mc.DBName = ds.Database
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range ds.Params {
		mc.Params[k] = v
	}
	return mc.FormatDSN(), nil
}
