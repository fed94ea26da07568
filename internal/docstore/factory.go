package docstore

import (
	"context"
	"fmt"

	"github.com/learn-cloud/cloudkit/internal/config"
	"github.com/learn-cloud/cloudkit/internal/database"
)

// Open connects to the backend named by cfg.Backend.
//
// Supported backends:
//
//	"firestore" - Cloud Firestore (default)
//	"memory"    - in-memory, for tests and dry runs
//	"redis"     - JSON strings in Redis
//	"mysql"     - JSON column in MySQL
//	"sqlite"    - JSON text in a local SQLite file
func Open(ctx context.Context, cfg config.DocStoreConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "firestore":
		return NewFirestore(ctx, cfg.ProjectID, cfg.DatabaseID)
	case "memory":
		return NewMemory(), nil
	case "redis":
		rdb, err := config.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedis(rdb, cfg.RedisPrefix), nil
	case "mysql":
		db, err := database.OpenMySQL(cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return migrated(ctx, NewMySQL(db))
	case "sqlite":
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return migrated(ctx, NewSQLite(db))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

func migrated(ctx context.Context, s *SQLStore) (Store, error) {
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
