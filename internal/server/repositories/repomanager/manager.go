// Package repomanager wires repositories to a storage backend and owns the
// backend lifecycle (connection, migrations, shutdown).
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

type Manager interface {
	Users() users.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
