// Package store persists users, tasks, and collections in PostgreSQL.
// Every row is owned by a user, and all reads and writes are scoped by the
// owning user id so one account can never see another's data.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the users, collections, and tasks tables.
// Execute it via [Store.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id       BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email    TEXT,
    password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS collections (
    id      BIGSERIAL PRIMARY KEY,
    name    TEXT NOT NULL UNIQUE,
    user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_collections_user ON collections (user_id);

CREATE TABLE IF NOT EXISTS tasks (
    id            BIGSERIAL PRIMARY KEY,
    title         TEXT NOT NULL,
    description   TEXT NOT NULL,
    completed     BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    deadline      TIMESTAMPTZ,
    collection_id BIGINT REFERENCES collections (id) ON DELETE CASCADE,
    user_id       BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks (user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_collection ON tasks (collection_id);
`

var (
	// ErrNotFound is returned when the requested row does not exist or
	// belongs to a different user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert hits a unique constraint,
	// such as an already-taken username or collection name.
	ErrDuplicate = errors.New("already exists")
)

// DB is the database interface used by [Store]. Both *pgxpool.Pool and
// *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// User is an account row. PasswordHash is the bcrypt hash, never the plain
// password.
type User struct {
	ID           int64
	Username     string
	Email        *string
	PasswordHash string
}

// Collection groups tasks under a name. Tasks is populated only by
// [Store.GetCollectionByID].
type Collection struct {
	ID     int64
	Name   string
	UserID int64
	Tasks  []Task
}

// Task is a single to-do item. Collection is populated on single-task reads
// when the task belongs to one.
type Task struct {
	ID           int64
	Title        string
	Description  string
	Completed    bool
	CreatedAt    time.Time
	Deadline     *time.Time
	CollectionID *int64
	UserID       int64
	Collection   *Collection
}

// Store runs all persistence queries over one database handle.
type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

// Migrate executes the [Schema] DDL. It is idempotent and safe to run on
// every application start.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// isDuplicateKeyError checks whether a PostgreSQL error is a
// unique-violation (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// clampLimit applies the listing defaults: 100 rows when unspecified, and
// never more than 100.
func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
