package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/storage/database/migrations"
)

// BEGIN IMMEDIATE: writers of different classes wait on busy_timeout instead of failing to upgrade a read lock.
const (
	sqliteDSNOpts  = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite&_txlock=immediate"
	sqlite3DSNOpts = "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate"
)

func openPostgres(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   core.EnginePostgres,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(core.EnginePostgres, u.String())
}

func openSQLite(conf *core.Config) (*sqlx.DB, error) {
	path := conf.Database.Path
	if !filepath.IsAbs(path) && conf.WorkDir != "" {
		path = filepath.Join(conf.WorkDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}

	opts := sqliteDSNOpts
	if conf.Database.Engine == core.EngineSQLite3 {
		opts = sqlite3DSNOpts
	}
	return sqlx.Open(conf.Database.Engine, path+opts)
}

// Open opens (without connecting) the database of the configured engine.
func Open(conf *core.Config) (*sqlx.DB, error) {
	switch {
	case conf.Database.Engine == core.EnginePostgres:
		return openPostgres(conf.Database.Name, false, conf)
	case conf.Database.IsSQLite():
		return openSQLite(conf)
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Database.Engine)
	}
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func exists(db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := db.Get(&found, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return found, nil
}

func createAppUser(db *sqlx.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}

	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = $1", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		q := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'", conf.Database.User, conf.Database.Password)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(db *sqlx.DB, conf *core.Config) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist creates the PostgreSQL app user & database. SQLite databases are created on open.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Database.Engine != core.EnginePostgres {
		return nil
	}

	// connect as admin
	db, err := openPostgres("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = Ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err = createAppUser(db, conf); err != nil {
		return errors.Wrap(err, "creating app user")
	}

	// create DB as app user
	appDB, err := openPostgres("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = appDB.Close() }()
	if err = createDB(appDB, conf); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

func gooseDialect(driverName string) string {
	if driverName == core.EnginePostgres {
		return "postgres"
	}
	return "sqlite3"
}

// RunMigrations runs a goose command (up, down, status, version, redo, reset, up-to, down-to...)
// against the embedded migrations.
func RunMigrations(ctx context.Context, db *sqlx.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(log.New(os.Stdout, "MIGRATE : ", log.LstdFlags))
	if err := goose.SetDialect(gooseDialect(db.DriverName())); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	if err := goose.RunContext(ctx, command, db.DB, ".", args...); err != nil {
		return errors.Wrapf(err, "running migrations %q", command)
	}
	return nil
}

func Migrate(db *sqlx.DB) error {
	if err := RunMigrations(context.Background(), db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
