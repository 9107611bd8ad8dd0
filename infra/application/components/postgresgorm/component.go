package postgresgorm

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/grand-thief-cash/todolist/infra/application/components/gormdb"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
)

type PostgresGormComponent struct {
	*gormdb.Component
}

func NewPostgresGormComponent(cfg *Config) *PostgresGormComponent {
	return &PostgresGormComponent{Component: gormdb.NewComponent(consts.COMPONENT_POSTGRES_GORM, cfg, dialector)}
}

func dialector(ds *DataSourceConfig) (gorm.Dialector, error) {
	dsn, err := BuildDSN(ds)
	if err != nil {
		return nil, err
	}
	return gormpg.Open(dsn), nil
}

// BuildDSN returns a key=value DSN; params are appended in key order.
func BuildDSN(ds *DataSourceConfig) (string, error) {
	if strings.TrimSpace(ds.DSN) != "" {
		return ds.DSN, nil
	}
	if ds.Host == "" || ds.User == "" || ds.Database == "" {
		return "", errors.New("host, user, database required when dsn not provided")
	}
	port := ds.Port
	if port == 0 {
		port = 5432
	}
	parts := []string{
		"host=" + ds.Host,
		"user=" + ds.User,
		"password=" + quote(ds.Password),
		"dbname=" + ds.Database,
		fmt.Sprintf("port=%d", port),
	}
	keys := make([]string, 0, len(ds.Params))
	for k := range ds.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+quote(ds.Params[k]))
	}
	return strings.Join(parts, " "), nil
}

func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, "'", "\\'")
	return "'" + v + "'"
}
