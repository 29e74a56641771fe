package storage

import (
	"context"
	"time"

	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
)

// Backend names accepted by the storage section of the config.
const (
	BackendPostgres = "postgres"
	BackendSqlite   = "sqlite"
	BackendMemory   = "memory"
)

// Storage is the union of store operations the services consume. Each
// service declares its own narrower interface; this one exists so main
// can pick an implementation from config.
type Storage interface {
	GetUserByID(ctx context.Context, id string) (user.User, error)
	SaveUser(ctx context.Context, u user.User) error
	SaveCost(ctx context.Context, c cost.Cost) (cost.Cost, error)
	GetUserCostsBetween(ctx context.Context, userID string, from, to time.Time) ([]cost.Cost, error)
}
