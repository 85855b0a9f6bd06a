package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the querier surface repositories need. Both *pgxpool.Pool and pgx.Tx
// satisfy it, so batch mutations can run inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	TPRepository         *TPRepository
	TeamRepository       *TeamRepository
	TeamMemberRepository *TeamMemberRepository
	TaskRepository       *TaskRepository
	TaskUpdateRepository *TaskUpdateRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		TPRepository:         NewTPRepository(db),
		TeamRepository:       NewTeamRepository(db),
		TeamMemberRepository: NewTeamMemberRepository(db),
		TaskRepository:       NewTaskRepository(db),
		TaskUpdateRepository: NewTaskUpdateRepository(db),
	}
}
