package repository

import (
	"context"
	"database/sql"
)

type postgresStore struct {
	db    *sql.DB
	users UserRepository
	tasks TaskRepository
}

// NewPostgresStore wraps an open, migrated PostgreSQL connection.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{
		db:    db,
		users: NewUserRepository(db),
		tasks: NewTaskRepository(db),
	}
}

func (s *postgresStore) Users() UserRepository { return s.users }
func (s *postgresStore) Tasks() TaskRepository { return s.tasks }

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *postgresStore) Close(context.Context) error {
	return s.db.Close()
}
