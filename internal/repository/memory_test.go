package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/users-service/internal/domain"
	"github.com/iliyamo/users-service/internal/model"
)

func user(id, email, username string) model.User {
	return model.User{
		ID:        id,
		Email:     email,
		Username:  username,
		Role:      model.RoleUser,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryRepoUniqueness(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, user("1", "ada@example.com", "ada")))

	err := repo.Create(ctx, user("2", "ada@example.com", "other"))
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindUserAlreadyExists, de.Kind)

	err = repo.Create(ctx, user("3", "other@example.com", "ada"))
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindUserAlreadyExists, de.Kind)
}

func TestMemoryRepoConcurrentCreateSameEmail(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, model.User{
				ID:        string(rune('a' + i)),
				Email:     "same@example.com",
				Username:  "user-" + string(rune('a'+i)),
				Role:      model.RoleUser,
				IsActive:  true,
				CreatedAt: time.Now().UTC(),
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.KindUserAlreadyExists, de.Kind)
	}
	assert.Equal(t, 1, created, "exactly one write wins the unique email")
}

func TestMemoryRepoListOrderedByCreation(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"c", "a", "b"} {
		u := user(id, id+"@example.com", "user-"+id)
		u.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, u))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c", users[0].ID)
	assert.Equal(t, "a", users[1].ID)
	assert.Equal(t, "b", users[2].ID)
}

func TestMemoryRepoUpdateEmail(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, user("1", "ada@example.com", "ada")))
	require.NoError(t, repo.Create(ctx, user("2", "eve@example.com", "eve")))

	require.NoError(t, repo.UpdateEmail(ctx, "1", "Fresh@Example.com"))
	u, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "fresh@example.com", u.Email)

	err = repo.UpdateEmail(ctx, "1", "eve@example.com")
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindUserAlreadyExists, de.Kind)

	err = repo.UpdateEmail(ctx, "ghost", "x@example.com")
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindUserNotFound, de.Kind)
}

func TestMemoryRepoSetActiveAndDelete(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, user("1", "ada@example.com", "ada")))
	require.NoError(t, repo.SetActive(ctx, "1", false))

	u, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	require.NoError(t, repo.Delete(ctx, "1"))
	_, err = repo.GetByID(ctx, "1")
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindUserNotFound, de.Kind)
}
