package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lesson-media/internal/config"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// lesson-record tables, children first
var testTables = []string{"lesson_attachments", "lessons"}

// migrationsDir walks up from the working directory to the db/migrations of the module
func migrationsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return filepath.Join(wd, "db", "migrations"), nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", errors.New("go.mod not found in any parent directory")
		}
		wd = parent
	}
}

func migrateUp(db *sql.DB) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(dir), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations from %s: %w", dir, err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}
	return nil
}

// NewTestDB starts a migrated postgres in a container.
// It returns the connection, a cleanup terminating the container and a truncate emptying the lesson tables.
func NewTestDB(t *testing.T) (*sql.DB, func(), func()) {
	t.Helper()
	ctx := context.Background()

	cfg := config.DatabaseConfig{
		User:        "lessons",
		Password:    "lessons",
		Name:        "lessons",
		SSLMode:     "disable",
		MaxOpenCons: 10,
		MaxIdleCons: 2,
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     cfg.User,
				"POSTGRES_PASSWORD": cfg.Password,
				"POSTGRES_DB":       cfg.Name,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}

	if cfg.Host, err = container.Host(ctx); err != nil {
		terminate()
		t.Fatalf("could not read postgres host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, "5432")
	if err != nil {
		terminate()
		t.Fatalf("could not read postgres port: %v", err)
	}
	if cfg.Port, err = strconv.Atoi(mapped.Port()); err != nil {
		terminate()
		t.Fatalf("invalid postgres port %q: %v", mapped.Port(), err)
	}

	db, err := Open(ctx, cfg)
	if err != nil {
		terminate()
		t.Fatalf("could not connect to postgres: %v", err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		terminate()
		t.Fatalf("%v", err)
	}

	cleanup := func() {
		_ = db.Close()
		terminate()
	}

	truncate := func() {
		for _, table := range testTables {
			if _, err := db.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
				t.Fatalf("failed to truncate %s: %v", table, err)
			}
		}
	}

	return db, cleanup, truncate
}
