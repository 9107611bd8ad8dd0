package postgresgorm

import "github.com/grand-thief-cash/todolist/infra/application/components/gormdb"

type (
	Config           = gormdb.Config
	DataSourceConfig = gormdb.DataSourceConfig
)
