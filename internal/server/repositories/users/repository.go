package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository is the credential store. Emails are expected to arrive already
// normalized (lower-cased, trimmed) from the service layer.
//
// Create must enforce email uniqueness atomically (unique index or
// equivalent), returning common.ErrorAlreadyExists on a duplicate — a
// read-then-write check is not acceptable.
//
// Update persists the full record guarded by the optimistic version counter
// and returns common.ErrVersionConflict when the stored version no longer
// matches user.Version.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
