package repomanager

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// MemoryManager backs the repositories with in-process storage. Useful for
// tests and for running the server without a database.
type MemoryManager struct {
	users users.Repository
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryManager) Close() error {
	return nil
}
