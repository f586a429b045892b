package testutil

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	appdb "github.com/yungbote/jobtrail-backend/internal/data/db"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	freshSeq atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a shared, migrated database. Tests isolate themselves with Tx.
// TEST_POSTGRES_DSN switches it to Postgres; the default is in-memory SQLite.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dbOnce.Do(func() {
		db, dbErr = open(tb, "shared")
	})
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

// FreshDB returns a private migrated SQLite database for tests that commit.
func FreshDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := fmt.Sprintf("fresh_%d_%d", os.Getpid(), freshSeq.Add(1))
	conn, err := open(tb, name)
	if err != nil {
		tb.Fatalf("failed to init fresh db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func open(tb testing.TB, name string) (*gorm.DB, error) {
	cfg := appdb.Config{
		Driver: appdb.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		Silent: true,
	}
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" && name == "shared" {
		cfg = appdb.Config{Driver: appdb.DriverPostgres, DSN: dsn, Silent: true}
	}
	svc, err := appdb.Open(Logger(tb), cfg)
	if err != nil {
		return nil, err
	}
	if err := appdb.AutoMigrateAll(svc.DB()); err != nil {
		return nil, err
	}
	return svc.DB(), nil
}
