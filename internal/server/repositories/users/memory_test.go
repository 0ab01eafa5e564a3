package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

func TestMemory_CreateAndGet(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "digest"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == "" || created.Version != 1 {
		t.Fatalf("unexpected created user: %+v", created)
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if byEmail.ID != created.ID || byID.Email != "alice@example.com" {
		t.Fatalf("lookups disagree: %+v vs %+v", byEmail, byID)
	}
}

func TestMemory_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "d"}); err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	_, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "other"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestMemory_ConcurrentDuplicateCreate(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, &models.User{Email: "race@x.com", PasswordHash: "d"})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrorAlreadyExists):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != attempts-1 {
		t.Fatalf("want exactly one winner, got ok=%d dup=%d", ok, dup)
	}
}

func TestMemory_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.GetByEmail(ctx, "nope@x.com"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestMemory_UpdateAdvancesVersion(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "d"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	exp := time.Now().Add(15 * time.Minute)
	created.ResetOtp = "123456"
	created.ResetOtpExpiresAt = &exp
	if err := repo.Update(ctx, created); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if created.Version != 2 {
		t.Fatalf("version not advanced: %d", created.Version)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ResetOtp != "123456" || got.ResetOtpExpiresAt == nil {
		t.Fatalf("otp pair not persisted: %+v", got)
	}
}

func TestMemory_StaleUpdateConflicts(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "d"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// two readers load the same version
	first, _ := repo.GetByID(ctx, created.ID)
	second, _ := repo.GetByID(ctx, created.ID)

	first.ResetOtp = "111111"
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("first Update error: %v", err)
	}

	second.ResetOtp = "222222"
	if err := repo.Update(ctx, second); !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("want ErrVersionConflict, got %v", err)
	}

	got, _ := repo.GetByID(ctx, created.ID)
	if got.ResetOtp != "111111" {
		t.Fatalf("first writer lost: %+v", got)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, _ := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "d"})
	created.PasswordHash = "mutated"

	got, _ := repo.GetByID(ctx, created.ID)
	if got.PasswordHash != "d" {
		t.Fatalf("store shares memory with caller: %+v", got)
	}
}
