package consts

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting; an unknown or missing priority ranks 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool { return p.Rank() > 0 }

const (
	STORAGE_MYSQL    = "mysql"
	STORAGE_POSTGRES = "postgres"
	STORAGE_MEMORY   = "memory"

	OWNERSHIP_SCOPED = "scoped"
	OWNERSHIP_SHARED = "shared"

	REVOCATION_MEMORY = "memory"
	REVOCATION_REDIS  = "redis"

	ENV_JWT_SECRET = "TODOLIST_JWT_SECRET"

	DEFAULT_DATASOURCE = "todolist"
	MIN_PASSWORD_LEN   = 6
)
