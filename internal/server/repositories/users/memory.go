package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is a mutex-serialized in-process credential store. It is
// the dev/test backend and honours the same contract as the Postgres
// implementation: atomic email uniqueness on Create and version-checked
// Update.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := cloneUser(user)
	stored.ID = uuid.NewString()
	stored.Version = 1
	stored.CreatedAt = time.Now()

	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored

	return cloneUser(stored), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return common.ErrVersionConflict
	}
	if stored.Version != user.Version {
		return common.ErrVersionConflict
	}

	updated := cloneUser(user)
	updated.Version = stored.Version + 1
	updated.CreatedAt = stored.CreatedAt

	if stored.Email != updated.Email {
		delete(r.byEmail, stored.Email)
	}
	r.byID[updated.ID] = updated
	r.byEmail[updated.Email] = updated

	user.Version = updated.Version
	return nil
}

// cloneUser copies the record so callers never share memory with the store.
func cloneUser(u *models.User) *models.User {
	c := *u
	if u.VerifyOtpExpiresAt != nil {
		t := *u.VerifyOtpExpiresAt
		c.VerifyOtpExpiresAt = &t
	}
	if u.ResetOtpExpiresAt != nil {
		t := *u.ResetOtpExpiresAt
		c.ResetOtpExpiresAt = &t
	}
	return &c
}
