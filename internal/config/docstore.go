package config

import (
	"errors"
	"fmt"
	"strings"
)

// DocStoreConfig selects and addresses the document store used by the
// quickstart. Backend is one of firestore, memory, redis, mysql or sqlite.
type DocStoreConfig struct {
	Backend     string // DOCSTORE_BACKEND
	ProjectID   string // GCP_PROJECT_ID
	DatabaseID  string // FIRESTORE_DATABASE_ID
	RedisPrefix string // DOCSTORE_REDIS_PREFIX
	SQLitePath  string // DOCSTORE_SQLITE_PATH
	MySQL       MySQLConfig
	Redis       RedisConfig
}

// MySQLConfig holds the DB_* variables of the mysql backend.
type MySQLConfig struct {
	User string // database username
	Pass string // database password (optional)
	Host string // database host address
	Port string // database port number
	Name string // database name
}

// QuickstartConfig controls the scripted document lifecycle.
type QuickstartConfig struct {
	DocPath string // QUICKSTART_DOC, collection/documentId
	Delete  bool   // QUICKSTART_DELETE, run the trailing delete step
}

func LoadDocStore() DocStoreConfig {
	return DocStoreConfig{
		Backend:     strings.ToLower(envStr("DOCSTORE_BACKEND", "firestore")),
		ProjectID:   firstEnv("GCP_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "FIRESTORE_PROJECT_ID"),
		DatabaseID:  envStr("FIRESTORE_DATABASE_ID", "(default)"),
		RedisPrefix: envStr("DOCSTORE_REDIS_PREFIX", "doc"),
		SQLitePath:  envStr("DOCSTORE_SQLITE_PATH", "./data/documents.db"),
		MySQL: MySQLConfig{
			User: envStr("DB_USER", ""),
			Pass: envStr("DB_PASS", ""),
			Host: envStr("DB_HOST", "localhost"),
			Port: envStr("DB_PORT", "3306"),
			Name: envStr("DB_NAME", ""),
		},
		Redis: LoadRedisConfig(),
	}
}

func LoadQuickstart() QuickstartConfig {
	return QuickstartConfig{
		DocPath: envStr("QUICKSTART_DOC", "users/user1"),
		Delete:  envBool("QUICKSTART_DELETE", false),
	}
}

// Validate reports configuration that cannot produce a working store. It
// does not touch the network.
func (c DocStoreConfig) Validate() error {
	var errs []error
	switch c.Backend {
	case "firestore":
		if c.ProjectID == "" {
			errs = append(errs, errors.New("GCP_PROJECT_ID is required for the firestore backend"))
		}
		if c.DatabaseID == "" {
			errs = append(errs, errors.New("FIRESTORE_DATABASE_ID must not be empty"))
		}
	case "mysql":
		if c.MySQL.User == "" {
			errs = append(errs, errors.New("DB_USER is required for the mysql backend"))
		}
		if c.MySQL.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required for the mysql backend"))
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("DOCSTORE_SQLITE_PATH must not be empty"))
		}
	case "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown DOCSTORE_BACKEND %q", c.Backend))
	}
	return errors.Join(errs...)
}
