package store

import (
	"context"
	"fmt"

	"github.com/smartnote/core/internal/infrastructure/config"
	"github.com/smartnote/core/internal/infrastructure/database"
	"github.com/smartnote/core/internal/ports"
)

// Supported store drivers
const (
	DriverMemory    = "memory"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverRedis     = "redis"
)

// Open builds the DocumentStore selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config) (ports.DocumentStore, error) {
	switch cfg.Store.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverPostgres:
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	case DriverFirestore:
		return NewFirestoreStore(ctx, cfg.Firestore)
	case DriverRedis:
		return NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
